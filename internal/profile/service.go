package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/persona/internal/llm"
	"github.com/abhisek/persona/internal/personality"
	"github.com/abhisek/persona/internal/quiz"
)

// ErrNoAnswers is returned when there is nothing to describe.
var ErrNoAnswers = errors.New("no answers to profile")

// Profile is a generated personality description.
type Profile struct {
	Headline    string
	Summary     string
	Strengths   []string
	GeneratedAt time.Time
}

// Config tunes profile generation.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   600,
		Temperature: 0.7,
		Timeout:     45 * time.Second,
	}
}

// Service writes profiles with an LLM.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a Service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type profileOutput struct {
	Headline  string   `json:"headline"`
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
}

// Generate describes the person behind answers.
func (s *Service) Generate(ctx context.Context, questions []personality.Question, answers []quiz.Answer) (*Profile, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, "profile")

	req := llm.UserPrompt(systemPrompt, buildUserMessage(answers, Tally(questions, answers)), ProfileSchema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("profile generation: %w", err)
	}

	var out profileOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse profile response: %w", err)
	}
	return &Profile{
		Headline:    out.Headline,
		Summary:     out.Summary,
		Strengths:   out.Strengths,
		GeneratedAt: time.Now(),
	}, nil
}
