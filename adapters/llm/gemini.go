package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.4
	defaultMaxTokens      = 1024
	defaultTimeoutSeconds = 60

	answerSystemPrompt = "You answer questions about a book. The book is attached as a PDF. " +
		"Answer only from the book's content, concisely, in complete sentences. " +
		"If the book does not contain the answer, say so."
)

// GeminiAnswerer implements BookAnswerer using Google's Gemini API.
// The PDF is passed to the model directly, so no parsing happens locally.
type GeminiAnswerer struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int
	timeoutSeconds  int
}

var _ repositories.BookAnswerer = (*GeminiAnswerer)(nil)

// NewGeminiAnswerer creates a new Gemini book answerer
func NewGeminiAnswerer(logger *zap.Logger) (*GeminiAnswerer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &GeminiAnswerer{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     defaultTemperature,
		maxOutputTokens: defaultMaxTokens,
		timeoutSeconds:  defaultTimeoutSeconds,
	}, nil
}

// AnswerQuestion asks the model a question about the book PDF
func (g *GeminiAnswerer) AnswerQuestion(ctx context.Context, book *entities.Book, pdf []byte, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question cannot be empty")
	}
	if len(pdf) == 0 {
		return "", fmt.Errorf("book content is empty")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(pdf, "application/pdf"),
			genai.NewPartFromText(fmt.Sprintf("Book title: %s\n\nQuestion: %s", book.Title, question)),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(answerSystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   int32(g.maxOutputTokens),
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			break
		}

		g.logger.Warn("Failed to generate answer, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	answer := response.Text()
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("model returned an empty answer")
	}

	g.logger.Info("Generated answer",
		zap.String("book", book.Filename),
		zap.Int("questionLength", len(question)),
		zap.Int("answerLength", len(answer)))

	return strings.TrimSpace(answer), nil
}
