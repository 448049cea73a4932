package vector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestMemoryStore_UpsertFetch(t *testing.T) {
	s, err := NewMemoryStore(3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	n, err := s.Upsert(ctx, "intro", "m1", []float32{1, 0, 0}, map[string]string{"name": "김철수"})
	if err != nil || n != 1 {
		t.Fatalf("Upsert: %d, %v", n, err)
	}

	rec, err := s.Fetch(ctx, "intro", "m1")
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.ID != "m1" || rec.Metadata["name"] != "김철수" {
		t.Errorf("Fetch = %+v", rec)
	}

	if rec, _ := s.Fetch(ctx, "intro", "missing"); rec != nil {
		t.Error("Fetch missing id should return nil")
	}
	if rec, _ := s.Fetch(ctx, "nonexistent", "m1"); rec != nil {
		t.Error("Fetch in unknown namespace should return nil")
	}
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	s.Upsert(ctx, "intro", "m1", []float32{1, 0}, nil)
	s.Upsert(ctx, "intro", "m2", []float32{0, 1}, nil)
	s.Upsert(ctx, "intro", "m1", []float32{0.5, 0.5}, nil)

	count, _ := s.Count(ctx, "intro")
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
	all, _ := s.All(ctx, "intro")
	if all[0].ID != "m1" || all[1].ID != "m2" {
		t.Errorf("insertion order broken: %v, %v", all[0].ID, all[1].ID)
	}
	if all[0].Vector[0] != 0.5 {
		t.Error("replaced vector not stored")
	}
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	s, _ := NewMemoryStore(3)
	ctx := context.Background()
	if _, err := s.Upsert(ctx, "intro", "m1", []float32{1, 0}, nil); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Upsert error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := s.Query(ctx, "intro", []float32{1}, 5); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Query error = %v, want ErrDimensionMismatch", err)
	}
}

func TestMemoryStore_QueryOrdering(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	s.Upsert(ctx, "intro", "far", []float32{0, 1}, nil)
	s.Upsert(ctx, "intro", "near", []float32{1, 0}, nil)
	s.Upsert(ctx, "intro", "mid", []float32{1, 1}, nil)

	matches, err := s.Query(ctx, "intro", []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d", len(matches))
	}
	if matches[0].ID != "near" || matches[1].ID != "mid" || matches[2].ID != "far" {
		t.Errorf("order = %s, %s, %s", matches[0].ID, matches[1].ID, matches[2].ID)
	}
	if matches[0].Score <= matches[1].Score || matches[1].Score <= matches[2].Score {
		t.Error("scores not descending")
	}
}

func TestMemoryStore_QueryTopKBound(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	s.Upsert(ctx, "intro", "a", []float32{1, 0}, nil)
	s.Upsert(ctx, "intro", "b", []float32{0, 1}, nil)

	matches, _ := s.Query(ctx, "intro", []float32{1, 0}, 10)
	if len(matches) != 2 {
		t.Errorf("len = %d, want 2 (never more than stored)", len(matches))
	}
	matches, _ = s.Query(ctx, "intro", []float32{1, 0}, 1)
	if len(matches) != 1 {
		t.Errorf("len = %d, want 1", len(matches))
	}
	matches, _ = s.Query(ctx, "empty-ns", []float32{1, 0}, 5)
	if matches != nil {
		t.Errorf("query on empty namespace = %v, want nil", matches)
	}
}

func TestMemoryStore_NamespaceIsolation(t *testing.T) {
	s, _ := NewMemoryStore(2)
	ctx := context.Background()
	s.Upsert(ctx, "intro", "m1", []float32{1, 0}, nil)
	s.Upsert(ctx, "interests", "m2", []float32{0, 1}, nil)

	matches, _ := s.Query(ctx, "intro", []float32{0, 1}, 10)
	if len(matches) != 1 || matches[0].ID != "m1" {
		t.Errorf("intro query crossed namespaces: %v", matches)
	}
}

func TestMemoryStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.idx")
	ctx := context.Background()

	s, _ := NewMemoryStore(3)
	s.Upsert(ctx, "intro", "m1", []float32{1, 0, 0}, map[string]string{"name": "김철수", "visibility": "public"})
	s.Upsert(ctx, "mafia42_jobs", "경찰", []float32{0, 1, 0}, map[string]string{"team": "시민팀", "code": "POLICE"})
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _ := NewMemoryStore(3)
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	rec, _ := loaded.Fetch(ctx, "intro", "m1")
	if rec == nil || rec.Metadata["name"] != "김철수" {
		t.Errorf("loaded record = %+v", rec)
	}
	if rec.Vector[0] != 1 {
		t.Error("loaded vector corrupted")
	}
	job, _ := loaded.Fetch(ctx, "mafia42_jobs", "경찰")
	if job == nil || job.Metadata["team"] != "시민팀" {
		t.Errorf("loaded job record = %+v", job)
	}
}

func TestMemoryStore_LoadMissingFile(t *testing.T) {
	s, _ := NewMemoryStore(3)
	if err := s.Load(filepath.Join(t.TempDir(), "absent.idx")); err != nil {
		t.Errorf("Load of missing file: %v", err)
	}
}

func TestMemoryStore_LoadDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.idx")
	s, _ := NewMemoryStore(3)
	s.Upsert(context.Background(), "intro", "m1", []float32{1, 0, 0}, nil)
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	other, _ := NewMemoryStore(5)
	if err := other.Load(path); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Load error = %v, want ErrDimensionMismatch", err)
	}
}

func TestCosine(t *testing.T) {
	if got := Cosine([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("Cosine identical = %v, want 1", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("Cosine orthogonal = %v, want 0", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{-1, 0}); got != -1 {
		t.Errorf("Cosine opposite = %v, want -1", got)
	}
	if got := Cosine([]float32{1}, []float32{1, 0}); got != 0 {
		t.Errorf("Cosine mismatched lengths = %v, want 0", got)
	}
}
