// Package commands implements the imovel command line.
package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/livefir/imovel/config"
	"github.com/livefir/imovel/internal/logging"
)

// globals holds the persistent flags shared by every subcommand
type globals struct {
	logLevel  string
	logFormat string
	load      func() (*config.Config, error)
}

func (g *globals) logger() (*zap.Logger, error) {
	return logging.New(g.logLevel, logging.Format(g.logFormat))
}

func (g *globals) config() (*config.Config, error) {
	return g.load()
}

// NewRoot builds the imovel root command over the process configuration
func NewRoot(info BuildInfo) *cobra.Command {
	return newRoot(info, func() (*config.Config, error) {
		return config.Get(), nil
	})
}

func newRoot(info BuildInfo, load func() (*config.Config, error)) *cobra.Command {
	g := &globals{load: load}

	cmd := &cobra.Command{
		Use:          "imovel",
		Short:        "Property management web front end",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", string(logging.FormatConsole), "log format (console, json)")

	cmd.AddCommand(
		serveCmd(g),
		configCmd(g),
		viewsCmd(g),
		versionCmd(info),
	)
	return cmd
}
