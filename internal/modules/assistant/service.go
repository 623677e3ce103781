package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const unknownTopic = "I'm not sure what you're asking about. Try asking about:\n" +
	"- Products that are expiring or expired\n" +
	"- Current stock levels or inventory\n" +
	"- Sales and revenue information\n" +
	"- Recommendations for inventory management"

// Service answers inventory questions and keeps the chat transcript.
type Service interface {
	// Ask answers a single prompt without touching any transcript.
	Ask(ctx context.Context, prompt string) (*Answer, error)
	// Send records content from the user, answers it and records the reply.
	// Failures become an apology from the system sender, never an error.
	Send(ctx context.Context, userID uuid.UUID, content string) (*Message, error)
	History(userID uuid.UUID) []*Message
	Reset(userID uuid.UUID)
}

type service struct {
	data        DataSource
	generator   Generator
	transcripts *Transcripts
}

func NewService(data DataSource, generator Generator, transcripts *Transcripts) Service {
	if generator == nil {
		generator = Unavailable()
	}
	if transcripts == nil {
		transcripts = NewTranscripts(MaxTranscript)
	}
	return &service{data: data, generator: generator, transcripts: transcripts}
}

func (s *service) Ask(ctx context.Context, prompt string) (*Answer, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperr.Invalid("Please provide a question or query.")
	}
	topic, ok := Classify(prompt)
	if !ok {
		return nil, apperr.Invalid(unknownTopic)
	}

	rows, err := s.data.Rows(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("load %s data: %w", topic, err)
	}
	text, err := s.generator.Generate(ctx, buildPrompt(prompt, rows))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	return &Answer{Response: text, Data: rows, Agent: AgentFor(prompt)}, nil
}

func (s *service) Send(ctx context.Context, userID uuid.UUID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Invalid("message content is required")
	}
	s.transcripts.Append(userID, SenderUser, content)

	answer, err := s.Ask(ctx, content)
	if err != nil {
		zap.S().Warnf("assistant: %v", err)
		return s.transcripts.Append(userID, SenderSystem, apology(err)), nil
	}
	return s.transcripts.Append(userID, answer.Agent, answer.Response), nil
}

func (s *service) History(userID uuid.UUID) []*Message { return s.transcripts.History(userID) }

func (s *service) Reset(userID uuid.UUID) { s.transcripts.Reset(userID) }

func apology(err error) string {
	return "I apologize, but I encountered an error while processing your request: " + err.Error() +
		". Please try rephrasing your question or ask about a specific topic like stock levels, sales, or expiring products."
}

func buildPrompt(prompt string, rows []Row) string {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		data = []byte("[]")
	}
	return fmt.Sprintf(`You are an AI assistant for a supermarket inventory management system.
You have access to the following data:
%s

Please analyze this data and provide a detailed, natural response to the query: "%s"

Focus on:
1. Key metrics and important numbers
2. Trends and patterns
3. Actionable insights
4. Recommendations if applicable

Format the response in a clear, professional manner.`, data, prompt)
}
