package search

import (
	"math"
	"testing"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/keyword"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
)

func TestNormalizeKeywordScores(t *testing.T) {
	results := []*keyword.KeywordResult{
		{ID: "a", Score: 4.0},
		{ID: "b", Score: 2.0},
		{ID: "c", Score: 1.0},
	}
	scores := NormalizeKeywordScores(results)
	if scores["a"] != 1.0 {
		t.Errorf("top score should normalize to 1, got %f", scores["a"])
	}
	if scores["b"] != 0.5 {
		t.Errorf("expected 0.5, got %f", scores["b"])
	}
	if scores["c"] != 0.25 {
		t.Errorf("expected 0.25, got %f", scores["c"])
	}
}

func TestNormalizeKeywordScoresEmpty(t *testing.T) {
	if got := NormalizeKeywordScores(nil); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
	zeros := []*keyword.KeywordResult{{ID: "a", Score: 0}}
	if got := NormalizeKeywordScores(zeros); len(got) != 0 {
		t.Errorf("all-zero scores should yield empty map, got %v", got)
	}
}

func TestNormalizeSemanticScoresClamps(t *testing.T) {
	matches := []vector.Match{
		{ID: "a", Score: 0.8},
		{ID: "b", Score: -0.3},
	}
	scores := NormalizeSemanticScores(matches)
	if math.Abs(scores["a"]-0.8) > 1e-9 {
		t.Errorf("expected 0.8, got %f", scores["a"])
	}
	if scores["b"] != 0 {
		t.Errorf("negative similarity should clamp to 0, got %f", scores["b"])
	}
}

func TestFuseWeightedSum(t *testing.T) {
	kw := map[string]float64{"a": 1.0, "b": 0.5}
	sem := map[string]float64{"a": 0.4, "c": 0.9}

	fused := Fuse(kw, sem, 0.5, 0.5)
	if len(fused) != 3 {
		t.Fatalf("expected 3 fused results, got %d", len(fused))
	}

	byID := map[string]*FusedResult{}
	for _, fr := range fused {
		byID[fr.MemberID] = fr
	}
	if math.Abs(byID["a"].Score-0.7) > 1e-9 {
		t.Errorf("a: expected 0.7, got %f", byID["a"].Score)
	}
	if math.Abs(byID["b"].Score-0.25) > 1e-9 {
		t.Errorf("b: expected 0.25, got %f", byID["b"].Score)
	}
	if math.Abs(byID["c"].Score-0.45) > 1e-9 {
		t.Errorf("c: expected 0.45, got %f", byID["c"].Score)
	}

	// Sorted descending: a (0.7), c (0.45), b (0.25).
	if fused[0].MemberID != "a" || fused[1].MemberID != "c" || fused[2].MemberID != "b" {
		t.Errorf("wrong order: %s, %s, %s", fused[0].MemberID, fused[1].MemberID, fused[2].MemberID)
	}
}

func TestFuseKeepsComponentScores(t *testing.T) {
	fused := Fuse(map[string]float64{"a": 0.6}, map[string]float64{"a": 0.8}, 1.0, 0.0)
	if len(fused) != 1 {
		t.Fatalf("expected 1 result, got %d", len(fused))
	}
	fr := fused[0]
	if fr.KeywordScore != 0.6 || fr.SemanticScore != 0.8 {
		t.Errorf("component scores lost: kw=%f sem=%f", fr.KeywordScore, fr.SemanticScore)
	}
	if math.Abs(fr.Score-0.6) > 1e-9 {
		t.Errorf("zero semantic weight should not contribute, got %f", fr.Score)
	}
}

func TestFuseTieBreaksOnID(t *testing.T) {
	kw := map[string]float64{"z": 0.5, "a": 0.5, "m": 0.5}
	fused := Fuse(kw, nil, 1.0, 0.0)
	if fused[0].MemberID != "a" || fused[1].MemberID != "m" || fused[2].MemberID != "z" {
		t.Errorf("ties should order by ID: %s, %s, %s", fused[0].MemberID, fused[1].MemberID, fused[2].MemberID)
	}
}
