package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// openTestDB gives each test its own in-memory database; the name keeps
// gorm's pooled connections on the same store.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTurn(t *testing.T, repo *Repo, sessionID, msg, reply, ts string) *ChatTurn {
	t.Helper()
	turn := &ChatTurn{
		SessionID:   sessionID,
		UserMessage: msg,
		BotResponse: reply,
		Timestamp:   ts,
		MessageHash: strings.Repeat("0", 64),
	}
	if err := repo.InsertTurn(context.Background(), turn); err != nil {
		t.Fatalf("insert turn: %v", err)
	}
	return turn
}

func TestRepo_InsertAndGetTurn(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	turn := seedTurn(t, repo, "sess-a", "Hello", "Hi!", "2024-01-01 00:00:00.000000")
	if turn.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := repo.GetTurn(context.Background(), turn.ID)
	if err != nil {
		t.Fatalf("get turn: %v", err)
	}
	if got.UserMessage != "Hello" || got.BotResponse != "Hi!" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestRepo_GetTurnNotFound(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	_, err := repo.GetTurn(context.Background(), 9999)
	if !errors.Is(err, ErrTurnNotFound) {
		t.Fatalf("expected ErrTurnNotFound, got %v", err)
	}
}

func TestRepo_ListTurnsOrderAndFilter(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	a1 := seedTurn(t, repo, "sess-a", "a1", "r", "2024-01-01 00:00:01.000000")
	b1 := seedTurn(t, repo, "sess-b", "b1", "r", "2024-01-01 00:00:02.000000")
	a2 := seedTurn(t, repo, "sess-a", "a2", "r", "2024-01-01 00:00:03.000000")

	all, err := repo.ListTurns(context.Background(), "", 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != a2.ID || all[1].ID != b1.ID || all[2].ID != a1.ID {
		t.Fatalf("expected DESC id order, got %+v", all)
	}

	onlyA, err := repo.ListTurns(context.Background(), "sess-a", 0, 10)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(onlyA) != 2 || onlyA[0].ID != a2.ID || onlyA[1].ID != a1.ID {
		t.Fatalf("unexpected session filter result: %+v", onlyA)
	}

	offset, err := repo.ListTurns(context.Background(), "", 1, 1)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(offset) != 1 || offset[0].ID != b1.ID {
		t.Fatalf("unexpected offset page: %+v", offset)
	}
}

func TestRepo_Counts(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	seedTurn(t, repo, "sess-a", "m", "r", "2024-01-01 00:00:01.000000")
	seedTurn(t, repo, "sess-a", "m", "r", "2024-01-01 00:00:02.000000")
	seedTurn(t, repo, "sess-b", "m", "r", "2024-01-01 00:00:03.000000")

	total, err := repo.CountTurns(context.Background(), "")
	if err != nil || total != 3 {
		t.Fatalf("total = %d, err = %v", total, err)
	}
	onlyA, err := repo.CountTurns(context.Background(), "sess-a")
	if err != nil || onlyA != 2 {
		t.Fatalf("sess-a count = %d, err = %v", onlyA, err)
	}
	sessions, err := repo.CountSessions(context.Background())
	if err != nil || sessions != 2 {
		t.Fatalf("sessions = %d, err = %v", sessions, err)
	}
}

func TestRepo_UpsertSummaryAccumulates(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	if err := repo.UpsertSummary(ctx, "sess-a", 10); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.UpsertSummary(ctx, "sess-a", 7); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	s, err := repo.GetSummary(ctx, "sess-a")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if s.MessageCount != 2 || s.TotalTokens != 17 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestRepo_GetSummaryZeroWhenAbsent(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	s, err := repo.GetSummary(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if s.SessionID != "never-seen" || s.MessageCount != 0 || s.TotalTokens != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestRepo_IncrementRateWindow(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.IncrementRateWindow(ctx, "sess-a", 1700000000)
		if err != nil {
			t.Fatalf("increment %d: %v", want, err)
		}
		if got != want {
			t.Fatalf("count = %d, want %d", got, want)
		}
	}

	// other sessions and other windows do not share the counter
	if got, err := repo.IncrementRateWindow(ctx, "sess-b", 1700000000); err != nil || got != 1 {
		t.Fatalf("sess-b count = %d, err = %v", got, err)
	}
	if got, err := repo.IncrementRateWindow(ctx, "sess-a", 1700000060); err != nil || got != 1 {
		t.Fatalf("next window count = %d, err = %v", got, err)
	}
}

func TestRepo_PruneRateWindows(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.IncrementRateWindow(ctx, "sess-a", 1000); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if _, err := repo.IncrementRateWindow(ctx, "sess-a", 2000); err != nil {
		t.Fatalf("increment: %v", err)
	}

	if err := repo.PruneRateWindows(ctx, 2000); err != nil {
		t.Fatalf("prune: %v", err)
	}

	// old window restarts at 1, current window keeps counting
	if got, _ := repo.IncrementRateWindow(ctx, "sess-a", 1000); got != 1 {
		t.Fatalf("pruned window count = %d, want 1", got)
	}
	if got, _ := repo.IncrementRateWindow(ctx, "sess-a", 2000); got != 2 {
		t.Fatalf("kept window count = %d, want 2", got)
	}
}

func TestRepo_DailyCounts(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	seedTurn(t, repo, "s", "m", "r", "2024-01-01 09:00:00.000000")
	seedTurn(t, repo, "s", "m", "r", "2024-01-01 10:00:00.000000")
	seedTurn(t, repo, "s", "m", "r", "2024-01-02 09:00:00.000000")

	daily, err := repo.DailyCounts(context.Background(), 7)
	if err != nil {
		t.Fatalf("daily counts: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("expected 2 days, got %+v", daily)
	}
	if daily[0].Day != "2024-01-02" || daily[0].MessageCount != 1 {
		t.Fatalf("unexpected newest day: %+v", daily[0])
	}
	if daily[1].Day != "2024-01-01" || daily[1].MessageCount != 2 {
		t.Fatalf("unexpected older day: %+v", daily[1])
	}
}

func TestRepo_TopSessions(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.UpsertSummary(ctx, "busy", 5); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := repo.UpsertSummary(ctx, "quiet", 5); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	top, err := repo.TopSessions(ctx, 10)
	if err != nil {
		t.Fatalf("top sessions: %v", err)
	}
	if len(top) != 2 || top[0].SessionID != "busy" || top[1].SessionID != "quiet" {
		t.Fatalf("unexpected order: %+v", top)
	}
}

func TestRepo_ListTurnsAfter(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	t1 := seedTurn(t, repo, "s", "m1", "r", "2024-01-01 00:00:01.000000")
	t2 := seedTurn(t, repo, "s", "m2", "r", "2024-01-01 00:00:02.000000")
	t3 := seedTurn(t, repo, "s", "m3", "r", "2024-01-01 00:00:03.000000")

	batch, err := repo.ListTurnsAfter(context.Background(), t1.ID, 2)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(batch) != 2 || batch[0].ID != t2.ID || batch[1].ID != t3.ID {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	rest, err := repo.ListTurnsAfter(context.Background(), t3.ID, 2)
	if err != nil {
		t.Fatalf("list after end: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected empty tail, got %+v", rest)
	}
}
