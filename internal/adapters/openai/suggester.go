package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/mikey/job-mail-triage/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAISuggester is an implementation of the StageSuggester interface
// using OpenAI
type OpenAISuggester struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// stageSuggestionResponse represents the structured response from the model
type stageSuggestionResponse struct {
	Stage       string  `json:"stage"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// NewOpenAISuggester creates a new OpenAI stage suggester
func NewOpenAISuggester(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAISuggester {
	return &OpenAISuggester{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat:  suggestionPrompt,
	}
}

// suggestionPrompt asks for one of the fixed pipeline stages.
var suggestionPrompt = `You are an assistant that classifies job application emails into hiring pipeline stages.
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

Respond only with the JSON object and nothing else.`

func stageList() string {
	names := make([]string, 0, len(core.AllStages))
	for _, s := range core.AllStages {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// SuggestStage asks the model for an advisory pipeline stage
func (c *OpenAISuggester) SuggestStage(ctx context.Context, email *core.EmailRecord) (*core.StageSuggestion, error) {
	processedBody := c.textProcessor.ProcessText(email.Body, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, email.Sender, email.Subject, processedBody)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a hiring pipeline classifier. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}
	responseFormat := openai.ChatCompletionResponseFormat{
		Type: "json",
	}
	req.ResponseFormat = &responseFormat

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	return parseSuggestion(resp.Choices[0].Message.Content, c.modelName)
}

// parseSuggestion parses the model's JSON, salvaging an embedded object
// when the model wrapped it in prose.
func parseSuggestion(responseText, modelName string) (*core.StageSuggestion, error) {
	var suggestion stageSuggestionResponse
	if err := json.Unmarshal([]byte(responseText), &suggestion); err != nil {
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
		Model:       modelName,
	}, nil
}
