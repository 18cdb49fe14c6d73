package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/keleris32/relay/internal/core/config"
)

var flushYes bool

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Drop all persisted requests from the durable queue",
	Run:   runFlush,
}

func init() {
	flushCmd.Flags().BoolVar(&flushYes, "yes", false, "skip confirmation")
	rootCmd.AddCommand(flushCmd)
}

func runFlush(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	queue, closer, err := openQueue(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open queue", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = closer.Close()
	}()

	count, err := queue.Count(ctx)
	if err != nil {
		slog.Error("Failed to count persisted requests", "error", err)
		os.Exit(1)
	}
	if count == 0 {
		fmt.Println("Queue is already empty")
		return
	}

	if !flushYes {
		fmt.Printf("About to drop %d persisted request(s). Re-run with --yes to confirm.\n", count)
		return
	}

	if err := queue.Clear(ctx); err != nil {
		slog.Error("Failed to clear queue", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Dropped %d persisted request(s)\n", count)
}
