package cmd

import (
	"github.com/pelletier/go-toml/v2"
)

const redacted = "********"

type ConfigCmd struct {
	ConfigFlag
}

// Run prints the merged file, env and default settings as TOML that GetConfig reads back.
func (c *ConfigCmd) Run(ctx *Context) error {
	logger := newLogger(ctx)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(c.ConfigFile, logger)
	if err != nil {
		return err
	}

	if conf.DB.Password != "" {
		conf.DB.Password = redacted
	}

	encoder := toml.NewEncoder(ctx.Stdout)
	encoder.SetIndentTables(true)

	return encoder.Encode(conf)
}
