package search

import (
	"sort"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/keyword"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
	"github.com/williamtribe/2025FAREWELLPARTY/pkg/utils"
)

// FusedResult is one member hit after combining keyword and semantic scores.
type FusedResult struct {
	MemberID      string
	Score         float64
	KeywordScore  float64
	SemanticScore float64
}

// NormalizeKeywordScores rescales BM25 scores to [0, 1] by dividing by the
// maximum. BM25 is unbounded, so without this the keyword side would drown
// out cosine similarity in the weighted sum.
func NormalizeKeywordScores(results []*keyword.KeywordResult) map[string]float64 {
	scores := make(map[string]float64, len(results))
	if len(results) == 0 {
		return scores
	}

	maxScore := 0.0
	for _, r := range results {
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	if maxScore == 0 {
		return scores
	}

	for _, r := range results {
		scores[r.ID] = r.Score / maxScore
	}
	return scores
}

// NormalizeSemanticScores clamps cosine similarities to [0, 1]. Negative
// similarity means "more opposite than alike", which scores the same as no
// match at all for ranking purposes.
func NormalizeSemanticScores(matches []vector.Match) map[string]float64 {
	scores := make(map[string]float64, len(matches))
	for _, m := range matches {
		scores[m.ID] = utils.Clamp01(m.Score)
	}
	return scores
}

// Fuse combines the two normalized score maps into a single ranked list
// using a weighted sum. A member present on only one side still gets a
// fused score; the missing side contributes zero. Ties break on member ID
// so results are stable across runs.
func Fuse(keywordScores, semanticScores map[string]float64, keywordWeight, semanticWeight float64) []*FusedResult {
	byID := make(map[string]*FusedResult, len(keywordScores)+len(semanticScores))

	for id, score := range keywordScores {
		byID[id] = &FusedResult{
			MemberID:     id,
			KeywordScore: score,
			Score:        keywordWeight * score,
		}
	}

	for id, score := range semanticScores {
		if fr, ok := byID[id]; ok {
			fr.SemanticScore = score
			fr.Score += semanticWeight * score
		} else {
			byID[id] = &FusedResult{
				MemberID:      id,
				SemanticScore: score,
				Score:         semanticWeight * score,
			}
		}
	}

	fused := make([]*FusedResult, 0, len(byID))
	for _, fr := range byID {
		fused = append(fused, fr)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].MemberID < fused[j].MemberID
	})
	return fused
}
