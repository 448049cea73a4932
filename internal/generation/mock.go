package generation

import (
	"context"
	"errors"
	"fmt"
)

// MockGenerator is a deterministic Generator for tests.
type MockGenerator struct {
	// Fail makes every call return an error, exercising fallback paths.
	Fail bool
}

// RoleReasoning returns a fixed sentence naming the job, or an error when
// Fail is set.
func (m *MockGenerator) RoleReasoning(ctx context.Context, jobName, teamLabel, story, profileText string) (string, error) {
	if m.Fail {
		return "", errors.New("mock generator failure")
	}
	return fmt.Sprintf("%s의 %s 역할이 잘 어울려요!", teamLabel, jobName), nil
}
