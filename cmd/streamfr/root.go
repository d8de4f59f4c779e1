package main

import (
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amaumene/streamfr/internal/config"
	"github.com/amaumene/streamfr/internal/utils"
)

// commandContext loads configuration once, after flags are bound
type commandContext struct {
	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     zerolog.Logger
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
		c.logger.Debug().Str("config_dir", filepath.Dir(cfg.DatabaseFile)).Msg("Configuration loaded")
	})
	return c.config, c.configErr
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "streamfr",
		Short:         "French streaming availability lookup service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("port", "", "HTTP listen port (SERVER_PORT)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")
	_ = viper.BindPFlag("SERVER_PORT", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newLookupCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))

	return rootCmd
}
