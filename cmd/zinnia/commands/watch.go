package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	zinwatch "github.com/korbindeman/zinnia/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the notes root and keep the index synced with external changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	api, err := openAPI(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	reconciler, err := zinwatch.New(api, func(e zinwatch.Event) {
		fmt.Printf("index updated (kind=%d)\n", e.Kind)
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := reconciler.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Printf("Watching %s. Press Ctrl+C to stop.\n", api.Root())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nStopping watcher...")
		reconciler.Close()
	}()

	reconciler.Wait()
	return nil
}
