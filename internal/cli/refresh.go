package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-read the installed extensions",
	Long:  `Refresh the catalog of installed extensions that profiles choose from.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result, err := eng.RefreshExtensions(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Found %s", PrintCount(result.Count, "installed extension", "installed extensions")))
		if len(result.Added) > 0 {
			PrintSubsection("Added")
			PrintList(result.Added, 1)
		}
		if len(result.Removed) > 0 {
			PrintSubsection("Removed")
			PrintList(result.Removed, 1)
		}
		return nil
	},
}
