package testgen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// Generator publishes rendered test plans to the Git host.
type Generator struct {
	cfg    *contract.Config
	host   contract.GitHost
	logger zerolog.Logger
}

// NewGenerator wires a generator to its Git host.
func NewGenerator(cfg *contract.Config, host contract.GitHost, logger zerolog.Logger) *Generator {
	return &Generator{cfg: cfg, host: host, logger: logger}
}

// BranchName returns the dedicated branch for a ticket's generated tests.
func BranchName(ticketKey string) string {
	return "qe/tests/" + ticketKey
}

// TitlePrefix returns the pull request title prefix for a ticket. The prefix
// is how republished plans find their existing pull request.
func TitlePrefix(ticketKey string) string {
	return "[" + ticketKey + "]"
}

// Publish renders the plan and lands it as a single commit on the ticket's
// test branch, then opens a pull request, or refreshes the body of an open
// one. Republishing the same ticket is idempotent: the spec paths are
// deterministic, so the commit overwrites the previous generation.
func (g *Generator) Publish(ctx context.Context, ticket *schema.JiraTicket, plan *schema.TestPlan) (*schema.PullRequest, error) {
	files, err := RenderSpecs(plan)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("plan for '%s' produced no spec files", plan.TicketKey)
	}

	branch := BranchName(plan.TicketKey)
	if err := g.host.CreateBranch(ctx, branch, g.cfg.BaseBranch); err != nil {
		if !isAlreadyExists(err) {
			return nil, fmt.Errorf("failed to create branch '%s': %w", branch, err)
		}
		g.logger.Debug().Str("branch", branch).Msg("Branch exists; reusing")
	}

	message := fmt.Sprintf("%s Add generated test scenarios", TitlePrefix(plan.TicketKey))
	if err := g.host.PushFiles(ctx, branch, files, message); err != nil {
		return nil, fmt.Errorf("failed to push spec files to '%s': %w", branch, err)
	}

	prefix := TitlePrefix(plan.TicketKey)
	body := buildPullRequestBody(ticket, plan, files)

	existing, err := g.host.FindOpenPullRequest(ctx, branch, prefix, g.cfg.BaseBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to look up open pull request for '%s': %w", branch, err)
	}
	if existing != nil {
		g.logger.Info().Int("number", existing.Number).Msg("Refreshing existing pull request")
		return g.host.UpdatePullRequest(ctx, existing.Number, body)
	}

	title := fmt.Sprintf("%s %s", prefix, ticket.Summary)
	pr, err := g.host.CreatePullRequest(ctx, branch, g.cfg.BaseBranch, title, body)
	if err != nil {
		return nil, fmt.Errorf("failed to open pull request for '%s': %w", branch, err)
	}
	g.logger.Info().Int("number", pr.Number).Str("url", pr.URL).Msg("Pull request opened")
	return pr, nil
}

// buildPullRequestBody renders the plan as reviewer-facing Markdown.
func buildPullRequestBody(ticket *schema.JiraTicket, plan *schema.TestPlan, files map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Generated test plan for %s\n\n", plan.TicketKey)
	fmt.Fprintf(&b, "**Ticket:** %s\n\n", ticket.Summary)
	if plan.Objective != "" {
		fmt.Fprintf(&b, "**Objective:** %s\n\n", plan.Objective)
	}

	b.WriteString("### Scenarios\n\n")
	for _, s := range plan.Scenarios {
		fmt.Fprintf(&b, "- **%s** (%s)\n", s.Title, s.Type)
		for _, step := range s.Steps {
			fmt.Fprintf(&b, "  - %s\n", step)
		}
		if s.Expected != "" {
			fmt.Fprintf(&b, "  - Expected: %s\n", s.Expected)
		}
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	b.WriteString("\n### Files\n\n")
	for _, path := range paths {
		fmt.Fprintf(&b, "- `%s`\n", path)
	}
	return b.String()
}

// isAlreadyExists matches the branch-collision errors both providers return
// (GitHub "Reference already exists", GitLab "Branch already exists").
func isAlreadyExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}
