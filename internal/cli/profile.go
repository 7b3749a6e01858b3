package cli

import (
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage extension profiles",
	Long: `Create, inspect and share extension profiles.

The built-in "Global Profile" enables every installed extension. It can be
applied, described, cloned and exported but not changed.`,
}

func init() {
	profileCmd.AddCommand(profileLsCmd)
	profileCmd.AddCommand(profileDescribeCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileCloneCmd)
	profileCmd.AddCommand(profileRmCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)
}

var profileLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List profiles",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result, err := eng.ListProfiles(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Profiles")
		rows := make([][]string, 0, len(result.Profiles))
		for _, p := range result.Profiles {
			name := p.Name
			if p.Builtin {
				name += " (built-in)"
			}
			rows = append(rows, []string{name, PrintCount(p.ExtensionCount, "extension", "extensions"), formatTime(p.UpdatedAt)})
		}
		PrintTable([]string{"Name", "Extensions", "Updated"}, rows)
		return nil
	},
}

var profileDescribeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show a profile's extensions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result, err := eng.DescribeProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		printProfile(result)
		return nil
	},
}
