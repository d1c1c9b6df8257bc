package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wbrown/rasterkit"
	"github.com/wbrown/rasterkit/internal/logging"
)

// logFile is the rotating log opened by the running command, if any.
var logFile io.Closer

func init() {
	// Runs after every Execute, failed or not.
	cobra.OnFinalize(closeLogFile)
}

func closeLogFile() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "closing log file:", err)
	}
	logFile = nil
}

// NewRoot builds the rasterctl command tree.
func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rasterctl",
		Short:         "apply raster transforms to image files",
		Long:          "rasterctl loads an image, runs a pipeline of pixel transforms on it and saves the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			asJSON, _ := cmd.Flags().GetBool("log-json")
			path, _ := cmd.Flags().GetString("log-file")

			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}

			var w io.Writer = os.Stderr
			if path != "" {
				closeLogFile()
				rw := logging.RotatingWriter(path, 10, 3)
				logFile = rw
				w = rw
			}
			logger := logging.Logger(w, asJSON, level)
			slog.SetDefault(logger)
			rasterkit.SetLogger(logger)

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewApplyCmd(ctx),
		NewHistogramCmd(ctx),
		NewKernelsCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "Log as JSON")
	pf.String("log-file", "", "Write logs to a rotated file instead of stderr")
	pf.Int("workers", 0, "Goroutines per transform (0 = GOMAXPROCS)")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

// NewVersionCmd prints the build's git sha.
func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

func newEngine(cmd *cobra.Command) *rasterkit.Engine {
	workers, _ := cmd.Flags().GetInt("workers")
	return rasterkit.NewEngine(rasterkit.WithWorkers(workers))
}
