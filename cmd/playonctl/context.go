package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"playonctl/internal/config"
	"playonctl/internal/logging"
	"playonctl/internal/process"
	"playonctl/internal/recdb"
)

type commandContext struct {
	configFlag *string
	dbFlag     *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOnce sync.Once
	log     *slog.Logger
}

func newCommandContext(configFlag, dbFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dbFlag:     dbFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) logger() *slog.Logger {
	c.logOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.log = logger
	})
	return c.log
}

// databasePath resolves the recording database location: the --db flag wins,
// then the configuration file.
func (c *commandContext) databasePath() (string, error) {
	if c.dbFlag != nil {
		if path := strings.TrimSpace(*c.dbFlag); path != "" {
			return config.ExpandPath(path)
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Database.Path != "" {
		return cfg.Database.Path, nil
	}
	return "", errors.New("no database path configured; pass --db or set database.path in the config file")
}

// withStore opens the database exclusively for the duration of fn.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(*recdb.Store) error) error {
	path, err := c.databasePath()
	if err != nil {
		return err
	}
	store, err := recdb.Open(cmd.Context(), path)
	if err != nil {
		return wrapOpenError(err, path)
	}
	defer store.Close()
	return fn(store)
}

// withReadOnlyStore opens the database without the lock file for inspection
// commands that never write.
func (c *commandContext) withReadOnlyStore(cmd *cobra.Command, fn func(*recdb.Store) error) error {
	path, err := c.databasePath()
	if err != nil {
		return err
	}
	store, err := recdb.OpenReadOnly(cmd.Context(), path)
	if err != nil {
		return wrapOpenError(err, path)
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) processTable() *process.Table {
	table := &process.Table{}
	if cfg := c.configValue(); cfg != nil {
		table.Names = cfg.Processes.Names
		if cfg.Processes.ServerSettleSeconds > 0 {
			table.SettleDelay = time.Duration(cfg.Processes.ServerSettleSeconds) * time.Second
		}
	}
	return table
}

func wrapOpenError(err error, path string) error {
	switch {
	case errors.Is(err, recdb.ErrDatabaseMissing):
		return fmt.Errorf("recording database not found at %s; is PlayOn Home installed?", path)
	case errors.Is(err, recdb.ErrDatabaseLocked):
		return fmt.Errorf("recording database at %s is in use; stop PlayOn first (`playonctl processes stop`)", path)
	default:
		return err
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
