// Package llm drafts test plans from ticket and codebase context using an
// OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

const systemPrompt = `You are a senior QA engineer. Given a ticket and a summary of the
code changes it relates to, draft an end-to-end test plan.

Respond with a single JSON object and nothing else, using this shape:
{
  "ticket_key": "...",
  "objective": "...",
  "scenarios": [
    {"title": "...", "type": "e2e", "steps": ["..."], "expected": "..."}
  ]
}`

// Planner drafts test plans through a chat completion model.
type Planner struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      zerolog.Logger
}

// Compile-time check.
var _ contract.PlannerService = (*Planner)(nil)

// NewPlanner builds a planner from the endpoint settings. A custom BaseURL
// points the client at a self-hosted or proxy endpoint.
func NewPlanner(cfg contract.LLMConfig, logger zerolog.Logger) *Planner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Planner{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// DraftPlan asks the model for a test plan covering the ticket's acceptance
// criteria, grounded in the analyzed changes.
func (p *Planner) DraftPlan(ctx context.Context, ticket *schema.JiraTicket, analysis *schema.AnalysisResult) (*schema.TestPlan, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(ticket, analysis)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("test plan drafting failed for '%s': %w", ticket.Key, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("test plan drafting returned no choices for '%s'", ticket.Key)
	}

	plan, err := parsePlan(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("test plan response for '%s' is not valid JSON: %w", ticket.Key, err)
	}
	if plan.TicketKey == "" {
		plan.TicketKey = ticket.Key
	}
	if len(plan.Scenarios) == 0 {
		return nil, fmt.Errorf("test plan for '%s' contains no scenarios", ticket.Key)
	}

	p.logger.Info().
		Str("ticket", plan.TicketKey).
		Int("scenarios", len(plan.Scenarios)).
		Msg("Test plan drafted")
	return plan, nil
}

// buildPrompt assembles the user message from the ticket and the analysis.
func buildPrompt(ticket *schema.JiraTicket, analysis *schema.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticket %s: %s\n\n", ticket.Key, ticket.Summary)
	if ticket.Description != "" {
		fmt.Fprintf(&b, "Description:\n%s\n\n", ticket.Description)
	}
	if len(ticket.AcceptanceCriteria) > 0 {
		b.WriteString("Acceptance criteria:\n")
		for _, c := range ticket.AcceptanceCriteria {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}

	if analysis != nil {
		fmt.Fprintf(&b, "Repository %s, branch %s at commit %s.\n", analysis.Repository, analysis.Branch, analysis.CommitSHA)
		if len(analysis.Components) > 0 {
			fmt.Fprintf(&b, "Affected components: %s\n", strings.Join(analysis.Components, ", "))
		}
		if len(analysis.Files) > 0 {
			b.WriteString("Changed files:\n")
			for _, f := range analysis.Files {
				fmt.Fprintf(&b, "- %s (%s, +%d/-%d)\n", f.Path, f.Status, f.Additions, f.Deletions)
			}
		}
		if analysis.Environment != nil {
			fmt.Fprintf(&b, "Target environment: %s (app %s, api %s)\n",
				analysis.Environment.Name, analysis.Environment.AppURL, analysis.Environment.APIURL)
		}
	}
	return b.String()
}

// parsePlan decodes the model output, tolerating a fenced code block around
// the JSON. Models wrap responses in fences often enough that one repair
// pass is worth it.
func parsePlan(content string) (*schema.TestPlan, error) {
	var plan schema.TestPlan
	if err := json.Unmarshal([]byte(content), &plan); err == nil {
		return &plan, nil
	}

	stripped := stripFences(content)
	if err := json.Unmarshal([]byte(stripped), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// stripFences removes a surrounding Markdown code fence, if any.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
