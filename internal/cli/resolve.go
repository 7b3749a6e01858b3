package cli

import (
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [folder...]",
	Short: "Show the storage bucket of a workspace",
	Long: `Find the editor's workspace storage bucket for the given folders.

With one folder the bucket of that single-folder workspace is returned. With
several folders the bucket of the multi-root workspace containing exactly those
folders is returned. Without arguments the current directory is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		folders, err := folderArgs(args)
		if err != nil {
			return err
		}

		result, err := eng.ResolveWorkspace(cmd.Context(), folders)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Workspace")
		PrintLabelValue("Bucket", result.BucketID)
		PrintLabelValue("Kind", result.Kind)
		PrintLabelValue("Definition", result.DefinitionPath)
		PrintLabelValue("Storage", result.BucketDir)
		return nil
	},
}
