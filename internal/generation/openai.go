package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator produces role reasoning through the chat completions API.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIGenerator creates a chat-backed generator. The API key is read
// from the OPENAI_API_KEY environment variable.
func NewOpenAIGenerator(model string, maxTokens int, temperature float64) (*OpenAIGenerator, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if maxTokens <= 0 {
		maxTokens = 200
	}
	if temperature <= 0 {
		temperature = 0.8
	}
	cfg := openai.DefaultConfig(key)
	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
	}, nil
}

// RoleReasoning asks the model why the job suits the member, in 2-3 friendly
// Korean sentences tying the job story to the profile.
func (g *OpenAIGenerator) RoleReasoning(ctx context.Context, jobName, teamLabel, story, profileText string) (string, error) {
	systemPrompt := fmt.Sprintf(`당신은 마피아42 게임의 직업 배정 전문가입니다.
사용자의 프로필과 배정된 직업의 스토리를 바탕으로, 왜 이 직업이 어울리는지 재미있고 친근하게 설명해주세요.

배정된 직업: %s (%s)
직업 스토리: %s

2-3문장으로 왜 이 직업이 사용자에게 어울리는지 설명하세요.
직업의 스토리와 사용자의 특징을 연결해서 작성하세요.
`, jobName, teamLabel, story)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "사용자 프로필:\n" + profileText},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("reasoning generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("reasoning generation returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
