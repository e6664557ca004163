package root

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/israice/ToDo-Game/internal/engine"
	"github.com/israice/ToDo-Game/internal/hub"
	"github.com/israice/ToDo-Game/internal/storage"
	"github.com/israice/ToDo-Game/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the QuestBoard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			db, cleanup, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			startSessionPruner(ctx, db)

			h := hub.New()
			svc := engine.NewService(db, h)
			server := web.NewServer(cfg, db, svc, h)

			fmt.Fprintf(cmd.OutOrStdout(), "QuestBoard v%s listening on %s\n", Version, cfg.Addr)
			return server.Run(cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func startSessionPruner(ctx context.Context, db *sql.DB) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		sessions := storage.NewSessionRepo(db)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sessions.DeleteExpired(ctx, time.Now()); err != nil {
					log.Println("session prune failed:", err)
				}
			}
		}
	}()
}
