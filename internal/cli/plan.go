package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var devMode bool

	cmd := &cobra.Command{
		Use:   "plan [request]",
		Short: "Run a multi-step lesson plan",
		Long:  "Always builds and executes a multi-step lesson plan for the request, regardless of plan-trigger phrasing.",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			message := strings.Join(args, " ")
			s := openSession()
			defer s.Close()

			runTurn(cmd.Context(), s, message, true, devMode)
		},
	}

	cmd.Flags().BoolVar(&devMode, "dev", false, "Print prompts and raw model output after the reply")

	RootCmd.AddCommand(cmd)
}
