package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/extprofiles/internal/engine"
)

var (
	editAdd    []string
	editRemove []string
)

var profileCreateCmd = &cobra.Command{
	Use:   "create <name> [extension-id...]",
	Short: "Create a profile from installed extensions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result, err := eng.CreateProfile(cmd.Context(), &engine.CreateProfileRequest{
			Name:       args[0],
			Extensions: args[1:],
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Created profile %q", result.Name))
		printProfile(result)
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Add or remove extensions from a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(editAdd) == 0 && len(editRemove) == 0 {
			return fmt.Errorf("%w: nothing to change, use --add or --remove", engine.ErrValidation)
		}

		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result, err := eng.EditProfile(cmd.Context(), &engine.EditProfileRequest{
			Name:   args[0],
			Add:    editAdd,
			Remove: editRemove,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Updated profile %q", result.Name))
		printProfile(result)
		return nil
	},
}

var profileCloneCmd = &cobra.Command{
	Use:   "clone <source> <name>",
	Short: "Copy a profile under a new name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		result, err := eng.CloneProfile(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		PrintSuccess(fmt.Sprintf("Cloned %q to %q", args[0], result.Name))
		return nil
	},
}

var profileRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete a profile",
	Long: `Delete a profile. Workspaces it was applied to keep their current
enable/disable lists until another profile is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		if err := eng.DeleteProfile(cmd.Context(), args[0]); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"deleted": args[0]})
		}
		PrintSuccess(fmt.Sprintf("Deleted profile %q", args[0]))
		return nil
	},
}

func init() {
	profileEditCmd.Flags().StringSliceVar(&editAdd, "add", nil, "Extension IDs to enable (repeatable)")
	profileEditCmd.Flags().StringSliceVar(&editRemove, "remove", nil, "Extension IDs to stop enabling (repeatable)")
}

func printProfile(result *engine.DescribeProfileResult) {
	PrintSection(fmt.Sprintf("Profile %s", result.Name))
	if result.Builtin {
		PrintLabelValue("Type", "built-in")
	} else {
		PrintLabelValue("Created", formatTime(result.CreatedAt))
		PrintLabelValue("Updated", formatTime(result.UpdatedAt))
	}

	PrintSubsection(fmt.Sprintf("Extensions (%d)", result.ExtensionCount))
	if len(result.Extensions) == 0 {
		PrintEmptyState("No extensions enabled")
	} else {
		PrintList(labels(result.Extensions), 1)
	}
	if len(result.NotInstalled) > 0 {
		_, _ = fmt.Fprintln(out)
		PrintWarning(fmt.Sprintf("Not installed: %v", result.NotInstalled))
	}
}
