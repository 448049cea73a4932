// Package generation produces the short Korean reasoning text that
// accompanies a role assignment.
package generation

import "context"

// Generator writes a few friendly sentences connecting a member's profile to
// an assigned role. Failures are expected (quota, network); callers fall back
// to canned reasoning.
type Generator interface {
	RoleReasoning(ctx context.Context, jobName, teamLabel, story, profileText string) (string, error)
}
