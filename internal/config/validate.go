package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProcesses(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProcesses() error {
	if len(c.Processes.Names) == 0 {
		return errors.New("processes.names must not be empty")
	}
	if c.Processes.ServerSettleSeconds < 0 {
		return errors.New("processes.server_settle_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
