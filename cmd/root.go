package cmd

import "io"

type Context struct {
	Debug  bool
	Stdout io.Writer
}

var CLI struct {
	Debug bool `help:"Enable debug mode"`

	Add     AddCmd     `cmd:"" help:"Record a tasted beer"`
	List    ListCmd    `cmd:"" default:"1" help:"Show the beer collection"`
	Export  ExportCmd  `cmd:"" help:"Regenerate the site's beer data script"`
	Publish PublishCmd `cmd:"" help:"Build, commit and push the site"`
	Lookup  LookupCmd  `cmd:"" help:"Search external sources for a beer"`
	Styles  StylesCmd  `cmd:"" help:"List the recognized beer styles"`
	Serve   ServeCmd   `cmd:"" help:"Run the server"`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations"`
	Config  ConfigCmd  `cmd:"" help:"Print the effective configuration"`
}
