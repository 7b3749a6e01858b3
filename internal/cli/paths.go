package cli

import (
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show where editor state is read from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(env)
		}

		PrintSection("Editor Paths")
		PrintLabelValue("Product", env.Product)
		PrintLabelValue("Editor root", env.EditorRoot)
		PrintLabelValue("Workspace storage", env.WorkspaceStorage)
		PrintLabelValue("Global storage", env.GlobalStorage)
		PrintLabelValue("Workspaces", env.Workspaces)
		PrintLabelValue("Legacy workspaces", env.LegacyWorkspaces)
		PrintLabelValue("Extensions", env.ExtensionsDir)
		PrintLabelValue("Profiles", env.ProfilesFile())
		return nil
	},
}
