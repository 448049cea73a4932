package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Results: []*models.SearchResult{
			{
				Profile: &models.Profile{ID: "m1", Name: "김민준", Tagline: "커피 좋아하는 개발자"},
				Score:   0.91, KeywordScore: 0.8, SemanticScore: 1.0, Rank: 1,
			},
		},
		Total:    1,
		Query:    "커피",
		Criteria: models.NamespaceIntro,
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "text", "json", "compact"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteSearchResultsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"김민준", "커피 좋아하는 개발자", "Rank: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Total != 1 || decoded.Results[0].Profile.Name != "김민준" {
		t.Errorf("roundtrip mismatch: %+v", decoded)
	}
}

func TestWriteSearchResultsCompact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "m1") || !strings.Contains(lines[0], "김민준") {
		t.Errorf("compact line = %q", lines[0])
	}
}

func TestWriteRoleResult(t *testing.T) {
	var buf bytes.Buffer
	result := &models.RoleResult{Team: "시민팀", Role: "경찰", Reasoning: "잘 어울려요", SimilarityScore: 0.8, Fixed: true}
	if err := WriteRoleResult(&buf, result, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"시민팀", "경찰", "고정 배정", "잘 어울려요"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
