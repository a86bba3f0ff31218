package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Create a new note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print a note's content",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var saveCmd = &cobra.Command{
	Use:   "save <path> [file]",
	Short: "Save content to a note, reading from a file or stdin",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSave,
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a note and its descendants",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(newCmd, showCmd, saveCmd, rmCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	note, err := api.CreateNote(args[0])
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	fmt.Printf("created %s\n", note.Path)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	note, err := api.GetNote(args[0])
	if err != nil {
		return fmt.Errorf("failed to read note: %w", err)
	}
	fmt.Print(note.Content)
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	var content []byte
	if len(args) == 2 {
		content, err = os.ReadFile(args[1])
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	if err := api.SaveNote(args[0], string(content)); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	fmt.Printf("saved %s\n", args[0])
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	if err := api.DeleteNote(args[0]); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}
