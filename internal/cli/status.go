package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/keleris32/relay/internal/core/config"
	redisclient "github.com/keleris32/relay/internal/infra/redis"
	"github.com/keleris32/relay/internal/infra/storage"
	"github.com/keleris32/relay/internal/infra/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted requests awaiting replay",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// openQueue connects to the configured queue backend. The in-memory queue
// has no out-of-process state, so it is not reachable from the CLI.
func openQueue(ctx context.Context, cfg *config.AppConfig) (storage.RequestQueue, io.Closer, error) {
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewRequestQueue(db), db, nil
	}
	if cfg.Redis.URL != "" {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisclient.NewRequestQueue(client, "relay"), client, nil
	}
	return nil, nil, fmt.Errorf("no durable queue backend configured")
}

func runStatus(cmd *cobra.Command, args []string) {
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

	requests, err := queue.All(ctx)
	if err != nil {
		slog.Error("Failed to list persisted requests", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tCOMMAND\tTYPE\tSECURE\tCREATED")

	for _, req := range requests {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			req.ID, req.Command, req.Type, req.ShouldUseSecure, req.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	_ = w.Flush()

	fmt.Printf("\n%d persisted request(s) awaiting replay\n", len(requests))
}
