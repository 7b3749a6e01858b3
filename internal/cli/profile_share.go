package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/extprofiles/internal/engine"
)

var (
	importName      string
	importOverwrite bool
)

var profileExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Write a profile to a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result, err := eng.ExportProfile(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Exported %q to %s", result.Profile, result.Path))
		return nil
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create a profile from an exported file",
	Long: `Create a profile from a file written by "profile export". Extensions that
are not installed are kept and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result, err := eng.ImportProfile(cmd.Context(), &engine.ImportProfileRequest{
			Path:      args[0],
			Name:      importName,
			Overwrite: importOverwrite,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Imported profile %q", result.Name))
		printProfile(result)
		return nil
	},
}

func init() {
	profileImportCmd.Flags().StringVar(&importName, "name", "", "Name for the imported profile (default: the name in the file)")
	profileImportCmd.Flags().BoolVarP(&importOverwrite, "force", "f", false, "Replace an existing profile with the same name")
}
