package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/extprofiles/internal/engine"
	"github.com/danieljhkim/extprofiles/internal/extensions"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply <profile> [folder...]",
	Short: "Apply a profile to a workspace",
	Long: `Enable the profile's extensions in the workspace of the given folders and
disable every other installed extension.

Without folders the current directory is used. The workspace must have been
opened in the editor at least once; otherwise nothing is written. Reload the
editor window for the change to take effect.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		folders, err := folderArgs(args[1:])
		if err != nil {
			return err
		}

		result, err := eng.ApplyProfile(cmd.Context(), &engine.ApplyRequest{
			Profile: args[0],
			Folders: folders,
			DryRun:  applyDryRun,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if applyDryRun {
			PrintSection("Dry Run")
			PrintInfo(fmt.Sprintf("Would apply %q to bucket %s", result.Profile, result.Workspace.BucketID))
		} else {
			PrintSuccess(fmt.Sprintf("Applied %q to bucket %s", result.Profile, result.Workspace.BucketID))
		}
		PrintSubsection(fmt.Sprintf("Enabled (%s)", PrintCount(len(result.Enabled), "extension", "extensions")))
		PrintList(labels(result.Enabled), 1)
		PrintSubsection(fmt.Sprintf("Disabled (%s)", PrintCount(len(result.Disabled), "extension", "extensions")))
		PrintList(labels(result.Disabled), 1)
		if result.Written {
			fmt.Fprintln(out)
			PrintWarning("Reload the editor window to pick up the change")
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be enabled and disabled without writing")
}

// labels renders identifiers as "id (label)".
func labels(ids []extensions.Identifier) []string {
	items := make([]string, len(ids))
	for i, ext := range ids {
		if ext.Label != "" {
			items[i] = fmt.Sprintf("%s (%s)", ext.ID, ext.Label)
		} else {
			items[i] = ext.ID
		}
	}
	return items
}
