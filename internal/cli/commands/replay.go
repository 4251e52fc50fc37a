package commands

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/WilliamVenner/wry/internal/cli/replay"
)

var showState bool

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Feed recorded messages through a headless demo window",
	Long: `Reads newline-delimited inbound messages, as page script would post them,
from file (or stdin when file is omitted or "-") and prints the reply statements
the host injected for each. Blank lines and lines starting with # are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeout)*time.Millisecond)
		defer cancel()

		cfg, release, err := demoWindow(ctx)
		if err != nil {
			return err
		}
		defer release()

		report, err := replay.Run(ctx, cfg, appOptions(), in)
		if err != nil {
			return err
		}
		f := formatter(cmd.OutOrStdout())
		if err := f.WriteReplies(report.Replies); err != nil {
			return err
		}
		if showState {
			return f.WriteState(report.State)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&showState, "state", false, "also print the window state after the session")
}
