// Package cli renders engine results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/pkg/utils"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is one result per line.
	OutputCompact OutputFormat = "compact"
)

// ParseFormat maps a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	case "compact":
		return OutputCompact, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteSearchResults writes profile search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\n", r.Rank, r.Score, r.Profile.ID, r.Profile.Name)
		}
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results for %q (criteria: %s) in %dms\n\n",
		response.Total, response.Query, response.Criteria, response.QueryTime)
	for _, r := range response.Results {
		fmt.Fprintln(w, strings.Repeat("─", 57))
		fmt.Fprintf(w, "Rank: %d | Score: %.4f (Keyword: %.4f, Semantic: %.4f)\n",
			r.Rank, r.Score, r.KeywordScore, r.SemanticScore)
		fmt.Fprintf(w, "ID: %s\n", r.Profile.ID)
		fmt.Fprintf(w, "Name: %s\n", r.Profile.Name)
		if r.Profile.Tagline != "" {
			fmt.Fprintf(w, "Tagline: %s\n", r.Profile.Tagline)
		}
		if r.Profile.Intro != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Clip(r.Profile.Intro, 200))
		}
		fmt.Fprintln(w)
	}
}

// WriteRoleResult renders a role assignment.
func WriteRoleResult(w io.Writer, result *models.RoleResult, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintf(w, "%s / %s", result.Team, result.Role)
	if result.Fixed {
		fmt.Fprint(w, " (고정 배정)")
	}
	fmt.Fprintf(w, "\nscore: %.4f\n%s\n", result.SimilarityScore, result.Reasoning)
	return nil
}
