// Package roles resolves a Mafia42 role assignment for a member profile.
package roles

import "strings"

// teamNameMap converts catalog team identifiers to Korean display labels.
var teamNameMap = map[string]string{
	"citizen": "시민팀",
	"mafia":   "마피아팀",
	"cult":    "교주팀",
	"시민":      "시민팀",
	"마피아":     "마피아팀",
	"교주":      "교주팀",
}

// TeamLabel returns the display label for a catalog team value. Unrecognized
// values pass through when they already look like a label, otherwise get the
// 팀 suffix.
func TeamLabel(team string) string {
	if label, ok := teamNameMap[team]; ok {
		return label
	}
	if strings.Contains(team, "팀") {
		return team
	}
	return team + "팀"
}
