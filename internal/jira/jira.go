// Package jira fetches tickets and posts comments through the Jira REST API.
package jira

import (
	"context"
	"fmt"
	"strings"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/rs/zerolog"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// Service implements the ticket operations against a Jira instance.
type Service struct {
	client *gojira.Client
	logger zerolog.Logger
}

// Compile-time check.
var _ contract.TicketService = (*Service)(nil)

// NewService creates a Jira client with basic auth (username + API token).
func NewService(cfg contract.JiraConfig, logger zerolog.Logger) (*Service, error) {
	tp := gojira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.APIToken,
	}
	client, err := gojira.NewClient(tp.Client(), cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client for %q: %w", cfg.BaseURL, err)
	}
	return &Service{client: client, logger: logger}, nil
}

// NewServiceWithClient wires a pre-built Jira client, used by tests.
func NewServiceWithClient(client *gojira.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// FetchTicket retrieves a ticket and extracts its acceptance criteria from
// the description's bullet lines.
func (s *Service) FetchTicket(ctx context.Context, key string) (*schema.JiraTicket, error) {
	issue, _, err := s.client.Issue.GetWithContext(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket '%s': %w", key, err)
	}

	ticket := &schema.JiraTicket{
		Key:                issue.Key,
		Summary:            issue.Fields.Summary,
		Description:        issue.Fields.Description,
		AcceptanceCriteria: extractCriteria(issue.Fields.Description),
		Labels:             issue.Fields.Labels,
	}
	if issue.Fields.Status != nil {
		ticket.Status = issue.Fields.Status.Name
	}

	s.logger.Debug().
		Str("key", ticket.Key).
		Int("criteria", len(ticket.AcceptanceCriteria)).
		Msg("Ticket fetched")
	return ticket, nil
}

// AddComment posts a comment on a ticket. Failures propagate to the caller
// since a lost comment breaks the review trail.
func (s *Service) AddComment(ctx context.Context, key, body string) error {
	_, _, err := s.client.Issue.AddCommentWithContext(ctx, key, &gojira.Comment{Body: body})
	if err != nil {
		return fmt.Errorf("failed to comment on ticket '%s': %w", key, err)
	}
	return nil
}

// extractCriteria collects the bullet lines of a ticket description. Both
// Jira wiki markup ("* item") and Markdown-style ("- item") bullets count.
func extractCriteria(description string) []string {
	var criteria []string
	for line := range strings.Lines(description) {
		trimmed := strings.TrimSpace(line)
		for _, marker := range []string{"* ", "- "} {
			if strings.HasPrefix(trimmed, marker) {
				criteria = append(criteria, strings.TrimSpace(strings.TrimPrefix(trimmed, marker)))
				break
			}
		}
	}
	return criteria
}
