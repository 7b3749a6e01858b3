package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [folder...]",
	Short: "Show the profile applied to a workspace",
	Long:  `Display the workspace's storage bucket, the last applied profile and its enable/disable lists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		folders, err := folderArgs(args)
		if err != nil {
			return err
		}

		result, err := eng.Status(cmd.Context(), folders)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Workspace Status")
		PrintLabelValue("Bucket", result.Workspace.BucketID)
		PrintLabelValue("Kind", result.Workspace.Kind)
		if result.Profile == "" {
			PrintLabelValue("Profile", "(none applied)")
		} else {
			PrintLabelValue("Profile", result.Profile)
		}
		PrintLabelValue("Enabled", PrintCount(result.Enabled, "extension", "extensions"))
		PrintLabelValue("Disabled", PrintCount(result.Disabled, "extension", "extensions"))
		if result.GlobalDisabled > 0 {
			fmt.Fprintln(out)
			PrintWarning(fmt.Sprintf("%s disabled globally", PrintCount(result.GlobalDisabled, "extension is", "extensions are")))
		}
		return nil
	},
}
