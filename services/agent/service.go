package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"omnibot/models"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
)

const DefaultMaxToolRounds = 5

// FallbackReply is returned when the model keeps requesting tools without
// converging on an answer within the round limit.
const FallbackReply = "I wasn't able to complete that request. Please try rephrasing or asking a simpler question."

// Service mediates between a conversational turn and the tool invocations
// the model requests, until a final textual answer is produced.
type Service struct {
	model     ModelClient
	registry  *Registry
	maxRounds int
	retry     RetryPolicy
}

func NewService(model ModelClient, registry *Registry, maxRounds int, retry RetryPolicy) *Service {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	return &Service{
		model:     model,
		registry:  registry,
		maxRounds: maxRounds,
		retry:     retry,
	}
}

// Respond runs the dispatch loop for one user turn. history must already
// contain the new user message. It returns the final reply text together
// with the extended transcript; on a model failure the transcript is
// returned unchanged so the caller can discard the partial turn.
func (s *Service) Respond(ctx context.Context, userID int64, history []models.AgentMessage) (string, []models.AgentMessage, error) {
	log.Printf("[INFO] Starting dispatch loop with %d history messages", len(history))

	messages := make([]models.AgentMessage, len(history))
	copy(messages, history)

	specs := s.toolSpecs()
	system := SystemPrompt(userID)

	for round := 0; round < s.maxRounds; round++ {
		resp, err := s.generate(ctx, system, messages, specs)
		if err != nil {
			log.Printf("[ERROR] Model call failed after retries: %v", err)
			return "", history, fmt.Errorf("model call failed: %w", err)
		}

		messages = append(messages, models.AgentMessage{
			Role:      models.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		if len(resp.ToolCalls) == 0 {
			log.Printf("[INFO] Dispatch loop finished after %d round(s)", round+1)
			return resp.Text, messages, nil
		}

		log.Printf("[INFO] Model requested %d tool call(s) in round %d", len(resp.ToolCalls), round+1)
		for _, result := range s.executeToolCalls(ctx, resp.ToolCalls) {
			messages = append(messages, models.AgentMessage{
				Role:        models.RoleTool,
				ToolResults: []models.ToolResult{result},
			})
		}
	}

	log.Printf("[ERROR] Dispatch loop hit the %d-round limit without a final answer", s.maxRounds)
	messages = append(messages, models.AgentMessage{
		Role:    models.RoleAssistant,
		Content: FallbackReply,
	})
	return FallbackReply, messages, nil
}

func (s *Service) generate(ctx context.Context, system string, messages []models.AgentMessage, specs []ToolSpec) (*ModelResponse, error) {
	var resp *ModelResponse
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.model.Generate(ctx, system, messages, specs)
		return err
	})
	return resp, err
}

// executeToolCalls runs the requested calls concurrently but returns the
// results in request order, so the transcript the model sees next round is
// deterministic.
func (s *Service) executeToolCalls(ctx context.Context, calls []models.ToolCall) []models.ToolResult {
	results := make([]models.ToolResult, len(calls))

	var wg conc.WaitGroup
	for i, call := range calls {
		wg.Go(func() {
			results[i] = s.executeToolCall(ctx, call)
		})
	}
	wg.Wait()

	return results
}

// executeToolCall never fails the loop: unknown names, argument errors,
// tool errors and panics all become error-text results.
func (s *Service) executeToolCall(ctx context.Context, call models.ToolCall) (result models.ToolResult) {
	result = models.ToolResult{ToolCallID: call.ID, Name: call.Name}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] Tool %s panicked: %v", call.Name, r)
			result.Content = fmt.Sprintf("tool %s failed unexpectedly: %v", call.Name, r)
			result.IsError = true
		}
	}()

	tool, found := s.registry.Lookup(call.Name)
	if !found {
		msg := fmt.Sprintf("unknown tool %q", call.Name)
		if suggestion := s.registry.Suggest(call.Name); suggestion != "" {
			msg = fmt.Sprintf("%s (did you mean %q?)", msg, suggestion)
		}
		log.Printf("[ERROR] %s", msg)
		result.Content = msg
		result.IsError = true
		return result
	}

	input, err := json.Marshal(call.Arguments)
	if err != nil {
		result.Content = fmt.Sprintf("invalid arguments for tool %s: %v", call.Name, err)
		result.IsError = true
		return result
	}

	log.Printf("[INFO] Executing tool %s with arguments %s", call.Name, input)
	output, err := tool.Call(ctx, string(input))
	if err != nil {
		log.Printf("[ERROR] Tool %s failed: %v", call.Name, err)
		result.Content = fmt.Sprintf("Error: %v", err)
		result.IsError = true
		return result
	}

	result.Content = output
	return result
}

func (s *Service) toolSpecs() []ToolSpec {
	return lo.Map(s.registry.List(), func(tool Tool, _ int) ToolSpec {
		return ToolSpec{
			Name:        tool.Name(),
			Description: tool.Description(),
			Schema:      tool.InputSchema(),
		}
	})
}
