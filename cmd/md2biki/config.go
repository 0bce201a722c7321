package main

import (
	"errors"
	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"io/fs"
	"strings"
)

const defaultConfigFile = "md2biki.toml"

type Config struct {
	Ext              string   `toml:"ext"`
	Output           string   `toml:"output"`
	Quiet            bool     `toml:"quiet"`
	StripFrontMatter bool     `toml:"strip_front_matter"`
	Ignore           []string `toml:"ignore"`
}

func defaultConfig() Config {
	return Config{
		Ext:    ".biki",
		Ignore: []string{"node_modules", ".git"},
	}
}

// parseConfig decodes file over the values already in c.
// A missing file is only an error when it was asked for explicitly.
func parseConfig(c *Config, file string, explicit bool) error {
	_, err := toml.DecodeFile(file, c)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	return nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Ext, validation.Required, validation.By(func(value any) error {
			if !strings.HasPrefix(value.(string), ".") {
				return validation.NewError("md2biki.config.ext_dot", "must start with a dot")
			}
			return nil
		})),
		validation.Field(&c.Ignore, validation.Each(validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("md2biki.config.ignore_blank", "must not be blank")
			}
			return nil
		}))),
	)
}
