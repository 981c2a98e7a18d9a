// Package cli holds the formpage commands: the admin host, one-off page
// rendering, interactive terminal filling and the backend contract lint.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpage/pkg/configuration"
	"github.com/goliatone/go-formpage/pkg/renderers/tui"
)

// Option tunes the command tree; tests use it to script prompts.
type Option func(*runtime)

// WithPromptDriver replaces the survey driver of the fill command.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(r *runtime) {
		r.driver = driver
	}
}

type runtime struct {
	cfg    *configuration.Configuration
	out    io.Writer
	driver tui.PromptDriver
}

// RootCmd builds the command tree around c.
func RootCmd(c *configuration.Configuration, out io.Writer, options ...Option) *cobra.Command {
	rt := &runtime{cfg: c, out: out}
	for _, opt := range options {
		if opt != nil {
			opt(rt)
		}
	}

	cmd := &cobra.Command{
		Use:          "formpage",
		Short:        "Sportyfind admin form pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.AddCommand(serveCmd(rt))
	cmd.AddCommand(renderCmd(rt))
	cmd.AddCommand(fillCmd(rt))
	cmd.AddCommand(lintCmd(rt))
	return cmd
}

// Execute loads the configuration and runs the command named by os.Args.
func Execute() error {
	c, err := configuration.Load(configuration.DefaultEnvFiles)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	return RootCmd(c, os.Stdout).Execute()
}
