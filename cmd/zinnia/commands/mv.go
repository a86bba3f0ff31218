package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv <old-path> <new-path>",
	Short: "Rename or move a note",
	Args:  cobra.ExactArgs(2),
	RunE:  runMv,
}

var archiveCmd = &cobra.Command{
	Use:   "archive <path>",
	Short: "Archive a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

var unarchiveCmd = &cobra.Command{
	Use:   "unarchive <path>",
	Short: "Restore an archived note",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnarchive,
}

func init() {
	rootCmd.AddCommand(mvCmd, archiveCmd, unarchiveCmd)
}

func runMv(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	if err := api.RenameNote(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename note: %w", err)
	}
	fmt.Printf("renamed %s -> %s\n", args[0], args[1])
	return nil
}

func runArchive(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	if err := api.ArchiveNote(args[0]); err != nil {
		return fmt.Errorf("failed to archive note: %w", err)
	}
	fmt.Printf("archived %s\n", args[0])
	return nil
}

func runUnarchive(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	if err := api.UnarchiveNote(args[0]); err != nil {
		return fmt.Errorf("failed to unarchive note: %w", err)
	}
	fmt.Printf("unarchived %s\n", args[0])
	return nil
}
