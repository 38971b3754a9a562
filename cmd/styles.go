package cmd

import (
	"fmt"

	"droscher.com/BeerLog/pkg/model"
)

type StylesCmd struct{}

func (s *StylesCmd) Run(ctx *Context) error {
	for _, style := range model.Styles {
		if style == model.OtherStyle {
			style += " (or any custom style)"
		}

		fmt.Fprintln(ctx.Stdout, style)
	}

	return nil
}
