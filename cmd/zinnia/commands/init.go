package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the notes root and its index, including a root note",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	exists, err := api.NoteExists("")
	if err != nil {
		return fmt.Errorf("failed to check for root note: %w", err)
	}
	if !exists {
		if _, err := api.CreateNote(""); err != nil {
			return fmt.Errorf("failed to create root note: %w", err)
		}
	}

	fmt.Printf("initialized notes at %s\n", api.Root())
	return nil
}
