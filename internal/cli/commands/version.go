package commands

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at link time with -ldflags "-X ...commands.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version",
	Annotations: map[string]string{skipSettings: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			data, err := json.Marshal(map[string]any{
				"version": Version,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
				"native":  nativeBuilt,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wry-rpc %s (%s %s/%s, native engine: %t)\n",
			Version, runtime.Version(), runtime.GOOS, runtime.GOARCH, nativeBuilt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
