package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/israice/ToDo-Game/internal/tui"
)

func newWatchCmd() *cobra.Command {
	var (
		baseURL string
		token   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Tail a user's live event stream in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required (session cookie value)")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return tui.RunWatch(context.Background(), baseURL, cfg.SessionCookie, token)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	cmd.Flags().StringVar(&token, "token", "", "session token to authenticate with")
	return cmd
}
