package publish

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"droscher.com/BeerLog/configs"
)

const waitDelay = 2 * time.Second

// CommandBuilder runs the configured build command through the shell in the site root.
type CommandBuilder struct {
	command string
	dir     string
	logger  *zap.Logger
}

func NewCommandBuilder(command, dir string, logger *zap.Logger) *CommandBuilder {
	return &CommandBuilder{command: command, dir: dir, logger: logger}
}

func (c *CommandBuilder) Build(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", c.command)
	cmd.Dir = c.dir
	cmd.WaitDelay = waitDelay

	c.logger.Debug("running build", zap.String("command", c.command), zap.String("dir", c.dir))

	output, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(output))

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return text, fmt.Errorf("%q timed out: %w", c.command, ctx.Err())
		}

		return text, fmt.Errorf("%q: %w", c.command, err)
	}

	return text, nil
}

// SelectBuilder prefers the external build command and falls back to native.
func SelectBuilder(conf *configs.Config, native Builder, logger *zap.Logger) Builder {
	if conf.Publish.BuildCommand == "" {
		return native
	}

	return NewCommandBuilder(conf.Publish.BuildCommand, conf.Path(""), logger)
}
