package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"record_service/internal/config"
	"record_service/internal/logging"
)

type commandContext struct {
	configFlag *string

	once   sync.Once
	config *config.Config
	logger *zap.Logger
	err    error
}

func (c *commandContext) ensure() (*config.Config, *zap.Logger, error) {
	c.once.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.err = err
			return
		}
		logger, err := logging.New(cfg.Logging)
		if err != nil {
			c.err = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.logger, c.err
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	serveCmd := newServeCommand(ctx)

	rootCmd := &cobra.Command{
		Use:           "api",
		Short:         "Record service",
		SilenceUsage:  true,
		SilenceErrors: true,
		// 서브커맨드 없이 실행하면 서버 기동
		RunE: serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newRecordsCommand(ctx))
	return rootCmd
}
