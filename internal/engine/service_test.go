package engine

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/israice/ToDo-Game/internal/storage"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingBroadcaster) Broadcast(userID int64, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingBroadcaster) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newTestService(t *testing.T) (*Service, int64, *recordingBroadcaster) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	userID, err := storage.NewUserRepo(db).Insert(ctx, "tester", "not-a-real-hash")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	rec := &recordingBroadcaster{}
	svc := NewService(db, rec)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	}
	svc.rollReward = func() int { return 30 }
	return svc, userID, rec
}

func TestCreateTaskGrantsStipend(t *testing.T) {
	svc, userID, rec := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateTask(ctx, userID, "  write report  ", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if res.Task.Text != "write report" {
		t.Fatalf("text=%q, want trimmed", res.Task.Text)
	}
	if res.Task.XP != 30 {
		t.Fatalf("reward=%d, want 30", res.Task.XP)
	}
	if res.Level != 1 || res.XP != CreationStipendXP || res.XPMax != 100 {
		t.Fatalf("progress after create=%+v", res)
	}

	state, err := svc.State(ctx, userID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(state.Tasks) != 1 || state.Tasks[0].ID != res.Task.ID {
		t.Fatalf("state tasks=%+v", state.Tasks)
	}
	if got := rec.names(); !reflect.DeepEqual(got, []string{EventTaskCreated}) {
		t.Fatalf("broadcasts=%v", got)
	}
}

func TestCreateTaskRejectsEmptyText(t *testing.T) {
	svc, userID, _ := newTestService(t)

	_, err := svc.CreateTask(context.Background(), userID, "   ", nil)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if verr.Field != "text" {
		t.Fatalf("field=%q, want text", verr.Field)
	}
}

func TestCompleteTaskFirstCompletion(t *testing.T) {
	svc, userID, rec := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, userID, "write report", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	res, err := svc.CompleteTask(ctx, userID, created.Task.ID, 0)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	// Reward 30 at combo 1 earns 33; the stipend already banked 3, and
	// firstQuest adds 100, so the ledger crosses 100 exactly once:
	// 3 + 33 + 100 = 136 -> level 2 with 36 XP toward 120.
	if res.XPEarned != 33 {
		t.Fatalf("xpEarned=%d, want 33", res.XPEarned)
	}
	if res.Combo != 1 || res.Streak != 1 || res.Completed != 1 {
		t.Fatalf("result=%+v", res)
	}
	if !reflect.DeepEqual(res.NewAchievements, []string{"firstQuest"}) {
		t.Fatalf("newAchievements=%v, want [firstQuest]", res.NewAchievements)
	}
	if res.Level != 2 || res.XP != 36 || res.XPMax != 120 || !res.LeveledUp {
		t.Fatalf("ledger=%+v, want level 2 xp 36 xpMax 120 leveledUp", res)
	}

	state, err := svc.State(ctx, userID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(state.Tasks) != 0 {
		t.Fatalf("completed task still listed: %+v", state.Tasks)
	}
	if !state.Achievements["firstQuest"] {
		t.Fatalf("firstQuest not persisted: %v", state.Achievements)
	}

	if _, err := svc.CompleteTask(ctx, userID, created.Task.ID, 0); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("second completion err=%v, want ErrTaskNotFound", err)
	}

	if got := rec.names(); !reflect.DeepEqual(got, []string{EventTaskCreated, EventTaskCompleted}) {
		t.Fatalf("broadcasts=%v", got)
	}
}

func TestCompleteTaskFromFreshLedger(t *testing.T) {
	svc, userID, _ := newTestService(t)
	ctx := context.Background()

	// Task inserted directly so the ledger starts untouched by the
	// creation stipend: 33 + 100 = 133 crosses 100 into level 2 with 33.
	if err := storage.NewTaskRepo(svc.db).Insert(ctx, &storage.Task{
		ID: "t1", UserID: userID, Text: "seeded", XPReward: 30,
	}); err != nil {
		t.Fatalf("insert task: %v", err)
	}

	res, err := svc.CompleteTask(ctx, userID, "t1", 0)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.XPEarned != 33 {
		t.Fatalf("xpEarned=%d, want 33", res.XPEarned)
	}
	if res.Level != 2 || res.XP != 33 || res.XPMax != 120 || !res.LeveledUp {
		t.Fatalf("ledger=%+v, want level 2 xp 33 xpMax 120 leveledUp", res)
	}
}

func TestCompleteTaskUnknownID(t *testing.T) {
	svc, userID, _ := newTestService(t)

	_, err := svc.CompleteTask(context.Background(), userID, "nope", 0)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err=%v, want ErrTaskNotFound", err)
	}
}

func TestCompleteTaskComboAchievement(t *testing.T) {
	svc, userID, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, userID, "quick win", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	res, err := svc.CompleteTask(ctx, userID, created.Task.ID, 2)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.Combo != 3 {
		t.Fatalf("combo=%d, want 3", res.Combo)
	}
	if !reflect.DeepEqual(res.NewAchievements, []string{"firstQuest", "combo3"}) {
		t.Fatalf("newAchievements=%v, want [firstQuest combo3]", res.NewAchievements)
	}

	if err := svc.ResetCombo(ctx, userID); err != nil {
		t.Fatalf("ResetCombo: %v", err)
	}
	state, err := svc.State(ctx, userID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Combo != 0 {
		t.Fatalf("combo after reset=%d, want 0", state.Combo)
	}
}

func TestCompleteTaskStreakAcrossDays(t *testing.T) {
	svc, userID, _ := newTestService(t)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	svc.now = func() time.Time { return day1 }
	first, err := svc.CreateTask(ctx, userID, "day one", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	res1, err := svc.CompleteTask(ctx, userID, first.Task.ID, 0)
	if err != nil {
		t.Fatalf("complete day one: %v", err)
	}
	if res1.Streak != 1 {
		t.Fatalf("day one streak=%d, want 1", res1.Streak)
	}

	svc.now = func() time.Time { return day2 }
	second, err := svc.CreateTask(ctx, userID, "day two", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	res2, err := svc.CompleteTask(ctx, userID, second.Task.ID, 0)
	if err != nil {
		t.Fatalf("complete day two: %v", err)
	}
	if res2.Streak != 2 {
		t.Fatalf("day two streak=%d, want 2", res2.Streak)
	}

	svc.now = func() time.Time { return day2.Add(72 * time.Hour) }
	third, err := svc.CreateTask(ctx, userID, "after a gap", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	res3, err := svc.CompleteTask(ctx, userID, third.Task.ID, 0)
	if err != nil {
		t.Fatalf("complete after gap: %v", err)
	}
	if res3.Streak != 1 {
		t.Fatalf("post-gap streak=%d, want 1", res3.Streak)
	}
}

func TestCompleteTaskActivityOnlyWithMedia(t *testing.T) {
	svc, userID, _ := newTestService(t)
	ctx := context.Background()

	plain, err := svc.CreateTask(ctx, userID, "no proof", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	media := "photo.jpg"
	proved, err := svc.CreateTask(ctx, userID, "with proof", &media)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if _, err := svc.CompleteTask(ctx, userID, plain.Task.ID, 0); err != nil {
		t.Fatalf("complete plain: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, userID, proved.Task.ID, 0); err != nil {
		t.Fatalf("complete proved: %v", err)
	}

	entries, err := svc.RecentActivity(ctx, userID, 50)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("activity entries=%d, want 1", len(entries))
	}
	if entries[0].Text != "with proof" || entries[0].Media == nil || *entries[0].Media != media {
		t.Fatalf("activity entry=%+v", entries[0])
	}
}

func TestConcurrentCompletions(t *testing.T) {
	svc, userID, _ := newTestService(t)
	ctx := context.Background()

	const n = 8
	ids := make([]string, n)
	for i := range ids {
		res, err := svc.CreateTask(ctx, userID, "parallel", nil)
		if err != nil {
			t.Fatalf("CreateTask #%d: %v", i, err)
		}
		ids[i] = res.Task.ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := svc.CompleteTask(ctx, userID, id, 0); err != nil {
				errs <- err
			}
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent CompleteTask: %v", err)
	}

	state, err := svc.State(ctx, userID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Completed != n {
		t.Fatalf("completed=%d, want %d", state.Completed, n)
	}
	if len(state.Tasks) != 0 {
		t.Fatalf("tasks remaining=%d, want 0", len(state.Tasks))
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	svc, userID, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, userID, "draft", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := svc.UpdateTaskText(ctx, userID, created.Task.ID, "final"); err != nil {
		t.Fatalf("UpdateTaskText: %v", err)
	}
	state, err := svc.State(ctx, userID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Tasks[0].Text != "final" {
		t.Fatalf("text=%q, want final", state.Tasks[0].Text)
	}

	if err := svc.UpdateTaskText(ctx, userID, "missing", "x"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("update missing err=%v, want ErrTaskNotFound", err)
	}

	if err := svc.DeleteTask(ctx, userID, created.Task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, userID, created.Task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("double delete err=%v, want ErrTaskNotFound", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	svc, userID, _ := newTestService(t)
	ctx := context.Background()

	sound := true
	theme := "light"
	if err := svc.UpdateSettings(ctx, userID, SettingsUpdate{Sound: &sound, Theme: &theme}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	state, err := svc.State(ctx, userID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if !state.Sound || state.Theme != "light" {
		t.Fatalf("settings=%v/%q, want true/light", state.Sound, state.Theme)
	}

	// A nil field leaves the other setting untouched.
	if err := svc.UpdateSettings(ctx, userID, SettingsUpdate{}); err != nil {
		t.Fatalf("UpdateSettings empty: %v", err)
	}
	state, err = svc.State(ctx, userID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if !state.Sound || state.Theme != "light" {
		t.Fatalf("settings after no-op=%v/%q", state.Sound, state.Theme)
	}
}
