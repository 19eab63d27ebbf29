package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg    Config
	logger *slog.Logger
}

func (a *app) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&a.configPath, "config", "", "YAML config file (OPC_* environment variables override it)")
	fs.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := cfg.level()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "opc",
		Short:         "Inspect, unpack and build Open Packaging Conventions files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	a.bindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newInspectCmd(a),
		newUnpackCmd(a),
		newPackCmd(a),
		newSniffCmd(a),
		newTypesCmd(a),
	)
	return cmd
}
