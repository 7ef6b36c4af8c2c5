package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/job-mail-triage/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiSuggester is an implementation of the StageSuggester interface
// using Google Gemini
type GeminiSuggester struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	modelName    string
	maxBodySize  int
	logger       *zap.Logger
	promptFormat string
}

// stageSuggestionResponse represents the structured response from the model
type stageSuggestionResponse struct {
	Stage       string  `json:"stage"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// NewGeminiSuggester creates a new Gemini stage suggester
func NewGeminiSuggester(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
) (*GeminiSuggester, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiSuggester{
		client:      client,
		model:       model,
		modelName:   modelName,
		maxBodySize: maxBodySize,
		logger:      logger,
		promptFormat: `You are an assistant that classifies job application emails into hiring pipeline stages.
The possible stages are: ` + stageList() + `.
Respond with a JSON object containing:
- stage: one of the listed stages
- confidence: number between 0 and 1 (how confident you are)
- explanation: string (brief explanation of the stage choice)

Email:
From: %s
Subject: %s
Body:
%s

Respond only with the JSON object and nothing else.`,
	}, nil
}

func stageList() string {
	names := make([]string, 0, len(core.AllStages))
	for _, s := range core.AllStages {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// Close closes the Gemini client
func (c *GeminiSuggester) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// truncateBody truncates the email body if it exceeds the maximum size
func (c *GeminiSuggester) truncateBody(body string) string {
	if c.maxBodySize <= 0 || len(body) <= c.maxBodySize {
		return body
	}

	truncated := body[:c.maxBodySize]
	c.logger.Debug("Email body truncated",
		zap.Int("original_size", len(body)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", c.maxBodySize))

	return truncated + "\n[... Content truncated due to size limits ...]"
}

// SuggestStage asks the model for an advisory pipeline stage
func (c *GeminiSuggester) SuggestStage(ctx context.Context, email *core.EmailRecord) (*core.StageSuggestion, error) {
	prompt := fmt.Sprintf(c.promptFormat, email.Sender, email.Subject, c.truncateBody(email.Body))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	var suggestion stageSuggestionResponse
	if err := json.Unmarshal([]byte(responseText), &suggestion); err != nil {
		// The model sometimes wraps the object in prose; salvage it.
		jsonStart := strings.Index(responseText, "{")
		jsonEnd := strings.LastIndex(responseText, "}")
		if jsonStart < 0 || jsonEnd <= jsonStart {
			return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &suggestion); err != nil {
			return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}

	stage := core.Stage(strings.ToLower(strings.TrimSpace(suggestion.Stage)))
	if !stage.IsValid() {
		return nil, fmt.Errorf("model suggested unknown stage %q", suggestion.Stage)
	}

	return &core.StageSuggestion{
		Stage:       stage,
		Confidence:  suggestion.Confidence,
		Explanation: suggestion.Explanation,
		Model:       c.modelName,
	}, nil
}
