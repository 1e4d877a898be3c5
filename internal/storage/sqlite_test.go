package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func start(t *testing.T, store *Store, level string, at time.Time) string {
	t.Helper()
	id, err := store.StartSession(SessionStart{
		Level:        level,
		Rows:         3,
		Cols:         3,
		Provider:     "pattern",
		ShuffleMoves: 54,
		StartedAt:    at,
	})
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	return id
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id := start(t, store, "easy", time.UnixMilli(1000))
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if _, err := store.Session(id); err != nil {
		t.Errorf("Session() after reopen: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)
	t0 := time.UnixMilli(1_700_000_000_000)

	id := start(t, store, "medium", t0)
	if id == "" {
		t.Fatal("StartSession() returned empty ID")
	}

	rec, err := store.Session(id)
	if err != nil {
		t.Fatalf("Session() failed: %v", err)
	}
	if rec.Outcome != OutcomePlaying || !rec.EndedAt.IsZero() || rec.Duration() != 0 {
		t.Errorf("fresh session = %+v, expected playing with no end", rec)
	}
	if rec.Level != "medium" || rec.Rows != 3 || rec.Provider != "pattern" || rec.ShuffleMoves != 54 {
		t.Errorf("fresh session fields = %+v", rec)
	}
	if !rec.StartedAt.Equal(t0) {
		t.Errorf("StartedAt = %v, expected %v", rec.StartedAt, t0)
	}

	if err := store.FinishSession(id, OutcomeSolved, t0.Add(90*time.Second)); err != nil {
		t.Fatalf("FinishSession() failed: %v", err)
	}
	rec, _ = store.Session(id)
	if rec.Outcome != OutcomeSolved || rec.Duration() != 90*time.Second {
		t.Errorf("finished session = %+v, duration %v", rec, rec.Duration())
	}
}

func TestFinishKeepsFirstOutcome(t *testing.T) {
	store := openTestStore(t)
	t0 := time.UnixMilli(5000)
	id := start(t, store, "easy", t0)

	if err := store.FinishSession(id, OutcomeSolved, t0.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := store.FinishSession(id, OutcomeAbandoned, t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	rec, _ := store.Session(id)
	if rec.Outcome != OutcomeSolved || rec.Duration() != time.Second {
		t.Errorf("session = %+v, expected the first (solved) outcome to stick", rec)
	}
}

func TestSetFailure(t *testing.T) {
	store := openTestStore(t)
	id := start(t, store, "hard", time.UnixMilli(0))

	if err := store.SetFailure(id, "permission_denied"); err != nil {
		t.Fatalf("SetFailure() failed: %v", err)
	}
	rec, _ := store.Session(id)
	if rec.Failure != "permission_denied" {
		t.Errorf("Failure = %q", rec.Failure)
	}

	if err := store.SetFailure("nope", "x"); !errors.Is(err, ErrNoSession) {
		t.Errorf("SetFailure(unknown) = %v, expected ErrNoSession", err)
	}
}

func TestSessionUnknown(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Session("missing"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Session(missing) = %v, expected ErrNoSession", err)
	}
}

func TestRecentSessions(t *testing.T) {
	store := openTestStore(t)
	base := time.UnixMilli(10_000)

	for i, level := range []string{"easy", "medium", "hard"} {
		start(t, store, level, base.Add(time.Duration(i)*time.Minute))
	}

	recent, err := store.RecentSessions(2)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d sessions, expected 2", len(recent))
	}
	if recent[0].Level != "hard" || recent[1].Level != "medium" {
		t.Errorf("order = %s, %s; expected hard, medium", recent[0].Level, recent[1].Level)
	}

	all, _ := store.RecentSessions(0)
	if len(all) != 3 {
		t.Errorf("default limit returned %d sessions, expected 3", len(all))
	}
}

func TestLevelStats(t *testing.T) {
	store := openTestStore(t)
	t0 := time.UnixMilli(1_000_000)

	a := start(t, store, "easy", t0)
	b := start(t, store, "easy", t0.Add(time.Hour))
	start(t, store, "easy", t0.Add(2*time.Hour))
	c := start(t, store, "hard", t0)

	store.FinishSession(a, OutcomeSolved, t0.Add(time.Minute))
	store.FinishSession(b, OutcomeAbandoned, t0.Add(time.Hour+time.Minute))
	store.FinishSession(c, OutcomeSolved, t0.Add(time.Minute))

	stats, err := store.LevelStats()
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d levels, expected 2", len(stats))
	}

	easy := stats[0]
	if easy.Level != "easy" || easy.Sessions != 3 || easy.Solved != 1 || easy.Abandoned != 1 {
		t.Errorf("easy stats = %+v", easy)
	}
	if !easy.LastPlayed.Equal(t0.Add(2 * time.Hour)) {
		t.Errorf("easy LastPlayed = %v", easy.LastPlayed)
	}
	if stats[1].Level != "hard" || stats[1].Solved != 1 {
		t.Errorf("hard stats = %+v", stats[1])
	}
}

func TestClearSessions(t *testing.T) {
	store := openTestStore(t)
	start(t, store, "easy", time.UnixMilli(0))

	if err := store.ClearSessions(); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	recent, _ := store.RecentSessions(10)
	if len(recent) != 0 {
		t.Errorf("got %d sessions after clear", len(recent))
	}
}
