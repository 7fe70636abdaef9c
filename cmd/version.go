package cmd

import (
	"fmt"
	"runtime"

	"github.com/pisaph/pisaph/internal/model"
	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the model contract it accepts",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pisaph %s (%s)\n", version, runtime.Version())
		fmt.Fprintf(out, "model contract: %s.x.y\n", model.SupportedContractMajor)
	},
}
