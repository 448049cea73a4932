package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/config"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/embedding"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/keyword"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
)

const testDims = 4

// tableEmbedder returns a fixed vector per text so semantic ordering in
// tests is fully controlled.
type tableEmbedder struct {
	vectors map[string][]float32
}

func (t *tableEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := t.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, testDims), nil
}

func (t *tableEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, s := range texts {
		v, err := t.Embed(ctx, s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *tableEmbedder) Dimensions() int { return testDims }
func (t *tableEmbedder) Close() error    { return nil }

type testEnv struct {
	engine  *Engine
	storage storage.Storage
	vectors vector.Store
	keyword keyword.KeywordIndex
}

func newTestEnv(t *testing.T, emb embedding.Embedder) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	vecs, err := vector.NewMemoryStore(testDims)
	if err != nil {
		t.Fatalf("vector store: %v", err)
	}

	kw, err := keyword.NewBleveIndex(filepath.Join(dir, "idx.bleve"))
	if err != nil {
		t.Fatalf("keyword index: %v", err)
	}
	t.Cleanup(func() { kw.Close() })

	cfg := config.SearchConfig{DefaultLimit: 10, MaxLimit: 100, TopKCandidates: 100, OversampleLimit: 100}
	eng := NewEngine(store, embedding.NewGateway(emb, nil), vecs, kw, cfg, nil)
	return &testEnv{engine: eng, storage: store, vectors: vecs, keyword: kw}
}

func (env *testEnv) addProfile(t *testing.T, id, name, content string, vec []float32) {
	t.Helper()
	ctx := context.Background()
	if err := env.storage.UpsertProfile(ctx, &models.Profile{ID: id, Name: name, Intro: content}); err != nil {
		t.Fatalf("upsert profile %s: %v", id, err)
	}
	if err := env.keyword.Index(ctx, id, name, name+"\n"+content); err != nil {
		t.Fatalf("index %s: %v", id, err)
	}
	if vec != nil {
		if _, err := env.vectors.Upsert(ctx, models.NamespaceIntro, id, vec, map[string]string{"name": name}); err != nil {
			t.Fatalf("upsert vector %s: %v", id, err)
		}
	}
}

func TestSearchKeywordOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addProfile(t, "m1", "김민준", "백엔드 개발과 데이터베이스를 좋아합니다", nil)
	env.addProfile(t, "m2", "이서연", "등산과 사진 촬영이 취미입니다", nil)

	resp, err := env.engine.Search(context.Background(), &models.SearchQuery{
		Query:         "백엔드 개발",
		KeywordWeight: 1.0,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Profile.ID != "m1" {
		t.Errorf("expected m1, got %s", resp.Results[0].Profile.ID)
	}
	if resp.Results[0].SemanticScore != 0 {
		t.Errorf("semantic score should be 0 without embedder, got %f", resp.Results[0].SemanticScore)
	}
	if resp.Results[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", resp.Results[0].Rank)
	}
}

func TestSearchSemanticRanking(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{
		"음악 좋아하는 사람": {1, 0, 0, 0},
	}}
	env := newTestEnv(t, emb)
	env.addProfile(t, "m1", "김민준", "피아노를 칩니다", []float32{0.9, 0.1, 0, 0})
	env.addProfile(t, "m2", "이서연", "축구를 합니다", []float32{0, 1, 0, 0})
	env.addProfile(t, "m3", "박도윤", "기타를 칩니다", []float32{0.8, 0.2, 0, 0})

	resp, err := env.engine.Search(context.Background(), &models.SearchQuery{
		Query:          "음악 좋아하는 사람",
		SemanticWeight: 1.0,
		KeywordWeight:  0.001, // keyword side finds nothing for this phrasing
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Profile.ID != "m1" {
		t.Errorf("expected m1 first, got %s", resp.Results[0].Profile.ID)
	}
	if resp.Results[1].Profile.ID != "m3" {
		t.Errorf("expected m3 second, got %s", resp.Results[1].Profile.ID)
	}
	if resp.Results[0].Score < resp.Results[1].Score {
		t.Errorf("results not sorted by score: %f < %f", resp.Results[0].Score, resp.Results[1].Score)
	}
}

func TestSearchHybridFusion(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{
		"커피": {0, 0, 1, 0},
	}}
	env := newTestEnv(t, emb)
	// m1 matches on keyword only, m2 on semantic only.
	env.addProfile(t, "m1", "김민준", "커피 내리는 게 취미", []float32{1, 0, 0, 0})
	env.addProfile(t, "m2", "이서연", "드립백 수집가", []float32{0, 0, 0.95, 0})

	resp, err := env.engine.Search(context.Background(), &models.SearchQuery{
		Query:          "커피",
		KeywordWeight:  0.5,
		SemanticWeight: 0.5,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected both members, got %d", len(resp.Results))
	}
	seen := map[string]*models.SearchResult{}
	for _, r := range resp.Results {
		seen[r.Profile.ID] = r
	}
	if seen["m1"] == nil || seen["m1"].KeywordScore == 0 {
		t.Error("m1 should carry a keyword score")
	}
	if seen["m2"] == nil || seen["m2"].SemanticScore == 0 {
		t.Error("m2 should carry a semantic score")
	}
}

func TestSearchPaging(t *testing.T) {
	env := newTestEnv(t, nil)
	names := []string{"김민준", "이서연", "박도윤", "최지우", "정하은"}
	for i, name := range names {
		env.addProfile(t, string(rune('a'+i)), name, "보드게임 모임에 자주 나갑니다", nil)
	}

	resp, err := env.engine.Search(context.Background(), &models.SearchQuery{
		Query:         "보드게임",
		KeywordWeight: 1.0,
		Limit:         2,
		Offset:        2,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 5 {
		t.Errorf("expected total 5, got %d", resp.Total)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected page of 2, got %d", len(resp.Results))
	}
	if resp.Results[0].Rank != 3 {
		t.Errorf("expected rank 3 after offset, got %d", resp.Results[0].Rank)
	}

	// Offset beyond the result set yields an empty page, not an error.
	resp, err = env.engine.Search(context.Background(), &models.SearchQuery{
		Query:         "보드게임",
		KeywordWeight: 1.0,
		Offset:        50,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(resp.Results))
	}
}

func TestSearchMinScoreFilter(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{
		"요리": {1, 0, 0, 0},
	}}
	env := newTestEnv(t, emb)
	env.addProfile(t, "m1", "김민준", "요리가 특기", []float32{1, 0, 0, 0})
	env.addProfile(t, "m2", "이서연", "전혀 다른 이야기", []float32{0, 0.1, 0.99, 0})

	resp, err := env.engine.Search(context.Background(), &models.SearchQuery{
		Query:          "요리",
		KeywordWeight:  0.5,
		SemanticWeight: 0.5,
		MinScore:       0.4,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, r := range resp.Results {
		if r.Score < 0.4 {
			t.Errorf("result %s below min score: %f", r.Profile.ID, r.Score)
		}
		if r.Profile.ID == "m2" {
			t.Error("m2 should be filtered out")
		}
	}
}

func TestSearchRejectsShortQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.engine.Search(context.Background(), &models.SearchQuery{Query: "a"})
	if err == nil {
		t.Fatal("expected error for single-character query")
	}
}

func TestSearchUnknownCriteria(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.engine.Search(context.Background(), &models.SearchQuery{
		Query:    "테스트 검색",
		Criteria: "mafia42_jobs",
	})
	if err == nil {
		t.Fatal("expected error for non-facet criteria")
	}
}

func TestSearchSkipsStaleIndexEntries(t *testing.T) {
	env := newTestEnv(t, nil)
	env.addProfile(t, "m1", "김민준", "사진 찍는 걸 좋아해요", nil)
	// Index an ID with no backing profile row.
	if err := env.keyword.Index(context.Background(), "ghost", "유령", "사진 찍는 유령"); err != nil {
		t.Fatalf("index: %v", err)
	}

	resp, err := env.engine.Search(context.Background(), &models.SearchQuery{
		Query:         "사진",
		KeywordWeight: 1.0,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, r := range resp.Results {
		if r.Profile.ID == "ghost" {
			t.Error("stale index entry should be dropped")
		}
	}
	if len(resp.Results) != 1 {
		t.Errorf("expected 1 surviving result, got %d", len(resp.Results))
	}
}
