package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"omnibot/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIClient drives the dispatch loop against the OpenAI chat API via
// langchaingo's function-calling support.
type OpenAIClient struct {
	llm llms.Model
}

func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if model == "" {
		model = "gpt-4o"
	}

	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAIClient{llm: llm}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, system string, messages []models.AgentMessage, tools []ToolSpec) (*ModelResponse, error) {
	history, err := convertToOpenAIMessages(system, messages)
	if err != nil {
		return nil, err
	}

	llmTools, err := buildOpenAIToolSpecs(tools)
	if err != nil {
		return nil, err
	}

	resp, err := c.llm.GenerateContent(ctx, history,
		llms.WithTools(llmTools),
		llms.WithTemperature(0.7))
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenAI response")
	}

	choice := resp.Choices[0]
	result := &ModelResponse{Text: choice.Content}

	for _, toolCall := range choice.ToolCalls {
		if toolCall.FunctionCall == nil {
			continue
		}
		var arguments map[string]interface{}
		if err := json.Unmarshal([]byte(toolCall.FunctionCall.Arguments), &arguments); err != nil {
			log.Printf("[ERROR] Failed to decode tool arguments for %s: %v", toolCall.FunctionCall.Name, err)
		}
		result.ToolCalls = append(result.ToolCalls, models.ToolCall{
			ID:        toolCall.ID,
			Name:      toolCall.FunctionCall.Name,
			Arguments: arguments,
		})
	}

	return result, nil
}

func convertToOpenAIMessages(system string, messages []models.AgentMessage) ([]llms.MessageContent, error) {
	history := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
	}

	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			history = append(history, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case models.RoleAssistant:
			parts := []llms.ContentPart{}
			if msg.Content != "" {
				parts = append(parts, llms.TextPart(msg.Content))
			}
			for _, toolCall := range msg.ToolCalls {
				arguments, err := json.Marshal(toolCall.Arguments)
				if err != nil {
					return nil, fmt.Errorf("failed to encode tool arguments for %s: %w", toolCall.Name, err)
				}
				parts = append(parts, llms.ToolCall{
					ID:   toolCall.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      toolCall.Name,
						Arguments: string(arguments),
					},
				})
			}
			history = append(history, llms.MessageContent{
				Role:  llms.ChatMessageTypeAI,
				Parts: parts,
			})
		case models.RoleTool:
			for _, result := range msg.ToolResults {
				history = append(history, llms.MessageContent{
					Role: llms.ChatMessageTypeTool,
					Parts: []llms.ContentPart{
						llms.ToolCallResponse{
							ToolCallID: result.ToolCallID,
							Name:       result.Name,
							Content:    result.Content,
						},
					},
				})
			}
		}
	}

	return history, nil
}

func buildOpenAIToolSpecs(tools []ToolSpec) ([]llms.Tool, error) {
	var llmTools []llms.Tool

	for _, tool := range tools {
		parameters, err := schemaToMap(tool.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema for tool %s: %w", tool.Name, err)
		}
		llmTools = append(llmTools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  parameters,
			},
		})
	}

	return llmTools, nil
}
