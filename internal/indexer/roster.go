package indexer

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
)

// ImportStats reports a roster import run. Rows that fail to index are
// recorded in Errors and do not abort the run.
type ImportStats struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// rosterColumns maps header-cell text to profile fields. Korean headers come
// from the event organizers' sheet; English ones are accepted as well.
var rosterColumns = map[string]string{
	"이름":         "name",
	"name":       "name",
	"한 줄 소개":     "tagline",
	"한줄소개":       "tagline",
	"tagline":    "tagline",
	"자기소개":       "intro",
	"intro":      "intro",
	"관심사":        "interests",
	"interests":  "interests",
	"특기":         "strengths",
	"강점":         "strengths",
	"strengths":  "strengths",
	"연락처":        "contact",
	"contact":    "contact",
	"공개범위":       "visibility",
	"visibility": "visibility",
}

// ImportRoster reads member rows from the first sheet of an xlsx file and
// indexes each one. The first row is the header; columns are matched by
// header text. Rows with a blank name are skipped. Returns per-row errors in
// the stats rather than aborting.
func (idx *Indexer) ImportRoster(ctx context.Context, path string) (*ImportStats, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return &ImportStats{}, nil
	}

	fieldByCol := map[int]string{}
	for col, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if field, ok := rosterColumns[key]; ok {
			fieldByCol[col] = field
		}
	}
	if len(fieldByCol) == 0 {
		return nil, fmt.Errorf("roster header row has no recognized columns")
	}

	stats := &ImportStats{}
	for rowNum, row := range rows[1:] {
		input := rowToInput(row, fieldByCol)
		if input.Name == "" {
			continue
		}
		stats.Total++
		if _, err := idx.IndexProfile(ctx, input); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d (%s): %v", rowNum+2, input.Name, err))
			continue
		}
		stats.Imported++
	}

	idx.logger.Info("roster imported",
		zap.String("path", path),
		zap.Int("total", stats.Total),
		zap.Int("imported", stats.Imported),
		zap.Int("errors", len(stats.Errors)))
	return stats, nil
}

func rowToInput(row []string, fieldByCol map[int]string) *models.ProfileInput {
	input := &models.ProfileInput{}
	for col, field := range fieldByCol {
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		switch field {
		case "name":
			input.Name = val
		case "tagline":
			input.Tagline = val
		case "intro":
			input.Intro = val
		case "interests":
			input.Interests = splitList(val)
		case "strengths":
			input.Strengths = splitList(val)
		case "contact":
			input.Contact = val
		case "visibility":
			input.Visibility = val
		}
	}
	return input
}

// splitList splits a comma-separated cell into trimmed non-empty items.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
