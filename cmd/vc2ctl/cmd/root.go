// Package cmd wires pkg/vc2/codec into a cobra command tree, following
// the shape of the teacher's cmd/ctl/cmd/root.go: a root command with
// persistent log-level flags and a PersistentPreRun that rebuilds the
// default logger, plus one subcommand per operation.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-vc2/vc2/pkg/vc2/logging"
)

// NewRoot builds the vc2ctl command tree.
func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	root := &cobra.Command{
		Use:   "vc2ctl",
		Short: "decode and encode VC-2 (SMPTE ST 2042) bitstreams",
		Long:  "vc2ctl decodes and encodes VC-2 elementary streams and inspects their intermediate decoding stages.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFile, _ := cmd.Flags().GetString("log-file")
			jsonLog, _ := cmd.Flags().GetBool("log-json")
			verbose, _ := cmd.Flags().GetBool("verbose")

			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
			}
			if verbose {
				level = slog.LevelDebug
			}

			var out io.Writer = os.Stderr
			if logFile != "" {
				out = logging.RotatingWriter(logFile)
			}
			slog.SetDefault(logging.Logger(out, jsonLog, level))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.BoolP("verbose", "v", false, "verbose output: set the log level to DEBUG")
	pf.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "if set, write logs to this path through a rotating writer instead of stderr")
	pf.Bool("log-json", false, "emit logs as JSON instead of text")

	root.AddCommand(
		NewVersionCmd(gitsha),
		NewDecodeCmd(ctx),
		NewEncodeCmd(ctx),
	)
	return root
}

// NewVersionCmd prints the build's git SHA.
func NewVersionCmd(gitsha string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the build's git SHA",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
}
