package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/korbindeman/zinnia/notes"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a note's children, or root notes if no path is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	var children []notes.Metadata
	if len(args) == 0 {
		children, err = api.GetRootNotes()
	} else {
		children, err = api.GetChildren(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	for _, c := range children {
		fmt.Println(c.Path)
	}
	return nil
}
