package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/korbindeman/zinnia/notes"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Fuzzy-match notes by path, ranked by frecency",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over note content",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	findCmd.Flags().IntP("limit", "n", 20, "maximum number of results")
	rootCmd.AddCommand(findCmd, searchCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	results, err := api.FuzzySearch(args[0], limit, notes.RankingFrecency)
	if err != nil {
		return fmt.Errorf("failed to fuzzy search: %w", err)
	}
	printResults(results)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	results, err := api.Search(args[0])
	if err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}
	printResults(results)
	return nil
}

func printResults(results []notes.Metadata) {
	for _, r := range results {
		fmt.Println(r.Path)
	}
}
