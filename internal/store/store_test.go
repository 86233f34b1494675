package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yangwenmai/herogen/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func makeRun(id string, variant model.Variant, started time.Time) model.Run {
	return model.Run{
		ID:              id,
		Variant:         variant,
		ArtifactPath:    "public/" + model.VectorArtifactName,
		ArtifactSize:    1234,
		RemoteAttempted: variant != model.VariantBasicPlaceholder,
		StartedAt:       started,
		FinishedAt:      started.Add(1500 * time.Millisecond),
	}
}

func TestRecordAndLatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 10, 1, 12, 0, 0, 123456789, time.UTC)

	run := makeRun("run-1", model.VariantEnhancedPlaceholder, started)
	run.FailureReason = "remote generation failed (generate): HTTP 500"
	if err := s.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if got.ID != "run-1" {
		t.Errorf("ID = %q, want %q", got.ID, "run-1")
	}
	if got.Variant != model.VariantEnhancedPlaceholder {
		t.Errorf("Variant = %q, want %q", got.Variant, model.VariantEnhancedPlaceholder)
	}
	if !got.RemoteAttempted {
		t.Error("RemoteAttempted = false, want true")
	}
	if got.FailureReason != run.FailureReason {
		t.Errorf("FailureReason = %q, want %q", got.FailureReason, run.FailureReason)
	}
	if got.ArtifactSize != 1234 {
		t.Errorf("ArtifactSize = %d, want 1234", got.ArtifactSize)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.Duration() != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", got.Duration())
	}
}

func TestLatestRun_Empty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LatestRun(context.Background())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("LatestRun on empty store = %v, want sql.ErrNoRows", err)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	// sub-second differences must still order correctly
	offsets := []time.Duration{0, 100 * time.Millisecond, 120 * time.Millisecond, time.Second}
	for i, off := range offsets {
		run := makeRun("run-"+string(rune('a'+i)), model.VariantBasicPlaceholder, base.Add(off))
		if err := s.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	want := []string{"run-d", "run-c", "run-b", "run-a"}
	if len(runs) != len(want) {
		t.Fatalf("len(runs) = %d, want %d", len(runs), len(want))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("runs[%d].ID = %q, want %q", i, runs[i].ID, id)
		}
	}

	limited, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns(2): %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "run-d" {
		t.Errorf("ListRuns(2) = %+v, want the two newest runs", limited)
	}
}

func TestRecordRun_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	run := makeRun("dup", model.VariantRemoteImage, time.Now())

	if err := s.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := s.RecordRun(ctx, run); err == nil {
		t.Fatal("expected error recording the same run twice")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s1.RecordRun(context.Background(), makeRun("keep", model.VariantBasicPlaceholder, time.Now())); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	s1.Close()

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	var version int
	if err := s2.db.QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}
	if _, err := s2.LatestRun(context.Background()); err != nil {
		t.Errorf("data should survive reopening: %v", err)
	}
}
