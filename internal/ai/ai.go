package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// systemPrompt is the product persona. The assistant answers onboarding,
// wellness and company questions; it has no tool access.
const systemPrompt = `
You are WelcomeNestHR's official AI assistant.
Provide helpful, professional, accurate, and concise responses about:
- HR onboarding
- Emotional intelligence
- Workplace culture
- WelcomeNestHR's features: Smart Onboarding Engine, LifeSync wellness,
  Connect & Collaborate, Gamified Compliance, Performance Primer.
Core principle: "Belonging begins at hello."
Always speak as the trusted voice of WelcomeNestHR.`

// FallbackMessage is returned when the model is unreachable, so the chat
// panel always has something to show.
const FallbackMessage = "Our AI assistant is currently unavailable. Please try again in a few minutes."

// AIService holds the Gemini client.
type AIService struct {
	Client *genai.Client
}

// NewAIService initializes the Gemini client.
func NewAIService(apiKey string) (*AIService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &AIService{Client: client}, nil
}

// GenerateResponse sends one user message through the assistant persona
// and returns the reply plus total tokens consumed.
func (s *AIService) GenerateResponse(ctx context.Context, userMessage string, modelName string) (string, int, error) {
	if modelName == "" {
		modelName = "gemini-1.5-flash" // Fallback default
	}
	model := s.Client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	cs := model.StartChat()
	res, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", 0, fmt.Errorf("error sending message: %w", err)
	}

	totalTokens := 0
	if res.UsageMetadata != nil {
		totalTokens = int(res.UsageMetadata.TotalTokenCount)
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return FallbackMessage, totalTokens, nil
	}

	return fmt.Sprintf("%v", res.Candidates[0].Content.Parts[0]), totalTokens, nil
}
