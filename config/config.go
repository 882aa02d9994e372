// Package config loads pourbot settings from defaults, an optional YAML
// config file, environment variables with the POURBOT_ prefix, and
// command-line arguments, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults for every known key.
const (
	DefaultCapacity      = 4
	DefaultMinExtraTubes = 0
	DefaultMaxExtraTubes = 3
	DefaultMethod        = "balanced"
)

type Config struct {
	v *viper.Viper
}

// Load parses args (flags like --capacity 4, or none) on top of env vars and
// an optional config file. The config file is looked up as pourbot.yaml in
// the current directory unless -config names one explicitly.
func (c *Config) Load(args []string) error {
	c.v = viper.New()

	c.v.SetDefault("capacity", DefaultCapacity)
	c.v.SetDefault("min-extra-tubes", DefaultMinExtraTubes)
	c.v.SetDefault("max-extra-tubes", DefaultMaxExtraTubes)
	c.v.SetDefault("method", DefaultMethod)
	c.v.SetDefault("cache-path", "")
	c.v.SetDefault("debug", false)

	c.v.SetEnvPrefix("pourbot")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	fs := pflag.NewFlagSet("pourbot", pflag.ContinueOnError)
	fs.Int("capacity", DefaultCapacity, "layers per tube")
	fs.Int("min-extra-tubes", DefaultMinExtraTubes, "auxiliary empty tubes to start with")
	fs.Int("max-extra-tubes", DefaultMaxExtraTubes, "most auxiliary empty tubes to try")
	fs.String("method", DefaultMethod, "solving method: fastest, shortest or balanced")
	fs.String("cache-path", "", "path to the sqlite solution cache; empty disables it")
	fs.String("config", "", "path to a YAML config file")
	fs.String("cpu-profile", "", "write a CPU profile to this path")
	fs.Bool("debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}

	if path := c.v.GetString("config"); path != "" {
		c.v.SetConfigFile(path)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	} else {
		c.v.SetConfigName("pourbot")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		if err := c.v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("reading config file: %w", err)
			}
		}
	}
	return nil
}

func (c *Config) GetString(key string) string { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int       { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool     { return c.v.GetBool(key) }

// Set overrides a key at runtime; used by shell `set` commands.
func (c *Config) Set(key string, value any) { c.v.Set(key, value) }

// AllSettings returns the effective settings map, for display.
func (c *Config) AllSettings() map[string]any { return c.v.AllSettings() }
