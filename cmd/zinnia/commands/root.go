package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/korbindeman/zinnia/internal/config"
	"github.com/korbindeman/zinnia/notes"
)

var rootCmd = &cobra.Command{
	Use:   "zinnia",
	Short: "Browse and edit a hierarchical notes tree",
	Long:  `Zinnia indexes a directory of markdown notes and exposes them as a searchable, hierarchical store.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("notes-root", "r", "", "notes root directory (default: config value or ~/notes)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "debug logging flag; parsed but not read by any command")
}

// openAPI loads the config (honoring --notes-root), opens the notes API at
// the resolved root, and returns it for the calling command to use and close.
func openAPI(cmd *cobra.Command) (*notes.API, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if root, _ := cmd.Flags().GetString("notes-root"); root != "" {
		cfg.NotesRoot = root
	}

	api, err := notes.New(cfg.NotesRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes at %s: %w", cfg.NotesRoot, err)
	}
	if err := api.StartupSync(); err != nil {
		api.Close()
		return nil, fmt.Errorf("failed to sync notes index: %w", err)
	}
	return api, nil
}
