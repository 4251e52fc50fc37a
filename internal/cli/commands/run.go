package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/WilliamVenner/wry/internal/app"
	"github.com/WilliamVenner/wry/internal/cli/replay"
	"github.com/WilliamVenner/wry/internal/demo"
	"github.com/WilliamVenner/wry/internal/logger"
)

var headlessMode bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the RPC demo window",
	Long: `Opens the demo page with a fullscreen toggle and a greeting button.
With the native engine built in (-tags native) this is a real window. Otherwise,
or with --headless, the page runs headless: the buttons' calls are sent for you
and the replies and resulting window state are printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if !headlessMode {
			if eng, ok := nativeEngine(settings.Debug); ok {
				cfg, release, err := demoWindow(ctx)
				if err != nil {
					return err
				}
				defer release()

				a := app.New(eng, appOptions())
				if _, err := a.AddWindow(cfg); err != nil {
					return err
				}
				return a.Run(ctx)
			}
			logger.Infof("run: built without the native engine, running headless")
		}

		ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Millisecond)
		defer cancel()

		cfg, release, err := demoWindow(ctx)
		if err != nil {
			return err
		}
		defer release()

		report, err := replay.Run(ctx, cfg, appOptions(), strings.NewReader(strings.Join(demo.Script(), "\n")))
		if err != nil {
			return err
		}
		f := formatter(cmd.OutOrStdout())
		if err := f.WriteReplies(report.Replies); err != nil {
			return err
		}
		return f.WriteState(report.State)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&headlessMode, "headless", false, "run the page headless even when the native engine is available")
}
