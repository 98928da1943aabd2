package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"media-forensics/backend/internal/app"
	"media-forensics/backend/internal/config"
)

type commandContext struct {
	configFlag *string
}

// withApp loads the configuration, builds the application and releases it once fn returns.
func (c *commandContext) withApp(fn func(*app.App) error) error {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	if path == "" {
		path = strings.TrimSpace(os.Getenv("FORENSICS_CONFIG"))
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Logging.Apply(); err != nil {
		return err
	}
	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()
	return fn(application)
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "forensics",
		Short:         "Media forensics verdict engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(ctx))
	for _, cmd := range newAnalyzeCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newIndicatorsCommand(ctx))

	return rootCmd
}
