package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	clierrors "github.com/WilliamVenner/wry/internal/cli/errors"
	"github.com/WilliamVenner/wry/internal/cli/inference"
	"github.com/WilliamVenner/wry/internal/cli/output"
	"github.com/WilliamVenner/wry/internal/config"
	"github.com/WilliamVenner/wry/internal/logger"
)

// skipSettings marks commands that must work without a loadable config file.
const skipSettings = "skip-settings"

var (
	cfgFile    string
	logLevel   string
	jsonOutput bool
	rawOutput  bool
	debugMode  bool
	timeout    int

	settings = config.DefaultSettings()
)

var rootCmd = &cobra.Command{
	Use:   "wry-rpc",
	Short: "wry-rpc - the webview RPC bridge demo",
	Long: `wry-rpc opens a webview whose page talks to the host over the RPC bridge:
page script posts JSON calls, the host routes them to a handler or a named
callback and settles the caller's promise by injecting a reply statement.
Without a native engine the page runs headless.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSettings] == "true" {
			return nil
		}
		return loadSettings()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func Execute(ctx context.Context) error {
	// Simple command inference - prepend inferred command to args
	args := os.Args[1:]
	if inferredCmd, _ := inference.InferCommand(args); inferredCmd != "" {
		args = append([]string{inferredCmd}, args...)
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatter(os.Stderr).FormatError(clierrors.Classify(err)))
	}
	return err
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "wry", "config.yaml")
}

func loadSettings() error {
	path := configPath()
	s, err := config.NewStore(path).Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if logLevel != "" {
		s.LogLevel = strings.ToUpper(logLevel)
	}
	if debugMode {
		s.Debug = true
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	logger.SetLevel(s.LogLevel)
	if s.LogDir != "" {
		if err := logger.Init(s.LogDir); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	settings = s
	logger.Debugf("config: loaded %s", path)
	return nil
}

func formatter(w io.Writer) *output.Formatter {
	var fmtMode output.OutputFormat = output.FormatText
	if jsonOutput {
		fmtMode = output.FormatJSON
	} else if rawOutput {
		fmtMode = output.FormatRaw
	}
	return output.NewFormatter(fmtMode, !color.NoColor, w)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, .yaml or .toml (default is $XDG_CONFIG_HOME/wry/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&rawOutput, "raw", false, "raw output (reply statements only)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable engine dev tools and RPC call logging")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 30000, "headless session timeout in milliseconds")
}
