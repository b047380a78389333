// Package cli implements the jsonpatch command line: get, apply, diff and test
// over JSON or YAML documents.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agentflare-ai/go-jsonpatch/internal/config"
	"github.com/agentflare-ai/go-jsonpatch/internal/docio"
	"github.com/agentflare-ai/go-jsonpatch/internal/logging"
)

// ErrDifferent is returned by diff --exit-code when the documents differ.
var ErrDifferent = errors.New("documents differ")

type app struct {
	configPath string
	cfg        *config.Config
}

// NewRootCmd assembles the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "jsonpatch",
		Short: "Inspect, diff and patch JSON documents with RFC 6901 pointers and RFC 6902 patches",
		Long: `jsonpatch reads JSON or YAML documents and patches from files or stdin ("-").

Settings come from built-in defaults, an optional YAML file (--config),
JSONPATCH__* environment variables (JSONPATCH__OUTPUT__FORMAT=yaml) and flags,
in increasing order of precedence.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	pf.String("log-level", "", "log level: debug, info, warn or error (default warn)")
	pf.String("log-format", "", "log format: text or json (default text)")
	pf.StringP("output", "o", "", "output format: json, yaml or text (default json)")
	pf.Int("indent", 0, "JSON indentation in spaces, 0 for compact output (default 2)")
	pf.Bool("no-color", false, "disable coloured output")

	rootCmd.AddCommand(
		a.newGetCmd(),
		a.newApplyCmd(),
		a.newDiffCmd(),
		a.newTestCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger := logging.New(logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	}, cmd.ErrOrStderr())
	cmd.SetContext(logging.NewContext(cmd.Context(), logger))
	logger.Debug("configuration loaded", "config", a.configPath, "output", cfg.Output.Format, "arrays", cfg.Diff.Arrays)
	return nil
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	return logging.FromContext(cmd.Context())
}

// encode writes v in the configured output format. The text format only
// applies to diff; everywhere else it prints JSON.
func (a *app) encode(cmd *cobra.Command, v any) error {
	format := a.cfg.Output.Format
	if format == "text" {
		format = docio.FormatJSON
	}
	return docio.Encode(cmd.OutOrStdout(), v, format, a.cfg.Output.Indent)
}

func oneStdin(args ...string) error {
	n := 0
	for _, arg := range args {
		if arg == docio.Stdin {
			n++
		}
	}
	if n > 1 {
		return errors.New("only one input can be read from stdin")
	}
	return nil
}

// Execute runs the command line with args and returns the process exit code:
// 0 on success, 1 on failure or when diff --exit-code found differences.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrDifferent):
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}
