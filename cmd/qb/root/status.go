package root

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/israice/ToDo-Game/internal/engine"
	"github.com/israice/ToDo-Game/internal/storage"
	"github.com/israice/ToDo-Game/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a user's progress and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, cleanup, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := storage.NewUserRepo(db).GetByUsername(ctx, username)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("user %q not found", username)
			}

			p, err := storage.NewProgressRepo(db).GetOrCreate(ctx, user.ID)
			if err != nil {
				return err
			}
			unlocked, err := storage.NewAchievementRepo(db).ListUnlocked(ctx, user.ID)
			if err != nil {
				return err
			}
			tasks, err := storage.NewTaskRepo(db).ListByUser(ctx, user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "QuestBoard — "+user.Username))
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			fmt.Fprintf(out, "%s %s %d/%d\n", ui.Key.Render("XP:"), ui.XPBar(p.XP, p.XPMax, 20), p.XP, p.XPMax)
			fmt.Fprintln(out, ui.LabelValue("Completed", p.CompletedTasks))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d %s", p.CurrentStreak, ui.IconFire)))
			fmt.Fprintln(out, ui.LabelValue("Combo", p.Combo))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Achievements (%d/%d)", ui.IconTrophy, len(unlocked), len(engine.AchievementRules))))
			ids := make([]string, 0, len(unlocked))
			for id := range unlocked {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(out, "- %s\n", ui.Gold.Render(id))
			}
			if len(ids) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("- none yet"))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Open tasks (%d)", ui.IconScroll, len(tasks))))
			for _, t := range tasks {
				fmt.Fprintf(out, "- %s %s\n", t.Text, ui.Muted.Render(fmt.Sprintf("(+%d XP)", t.XPReward)))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "username to inspect")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
