package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/internal/jira"
	"github.com/Ponnammaah123/test-agent/internal/llm"
	"github.com/Ponnammaah123/test-agent/internal/testgen"
)

// generateCmd drafts and publishes Playwright tests for a Jira ticket.
var generateCmd = &cobra.Command{
	Use:   "generate <ticket-key>",
	Short: "Draft Playwright tests for a Jira ticket and open a pull request.",
	Long: `Turn a Jira ticket into reviewed test scenarios.

The full pipeline:
1. Fetch the ticket summary, description, and acceptance criteria from Jira
2. Analyze the target branch so drafting sees real code context
3. Draft a structured test plan with the configured LLM
4. Render Playwright spec files and push them to a dedicated branch
5. Open (or refresh) a pull request and link it back on the ticket

Requires Jira and LLM credentials in addition to the repo token.

Examples:
  # Generate tests for a ticket against the default branch
  testagent generate PROJ-123 --repo-url https://github.com/acme/app

  # Target the branch under review
  testagent generate PROJ-123 --branch feature/login

  # Skip the Jira comment (e.g., in CI dry runs)
  testagent generate PROJ-123 --skip-comment`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ticketKey := args[0]
		if err := cfg.RequireJira(); err != nil {
			contract.LogFatal("Cannot generate tests", err)
		}
		if err := cfg.RequireLLM(); err != nil {
			contract.LogFatal("Cannot generate tests", err)
		}

		branch := cfg.BaseBranch
		if override := viper.GetString("branch"); override != "" {
			branch = override
		}

		tickets, err := jira.NewService(cfg.Jira, logger)
		if err != nil {
			contract.LogFatal("Cannot connect to Jira", err)
		}
		ticket, err := tickets.FetchTicket(rootCtx, ticketKey)
		if err != nil {
			contract.LogFatal("Cannot fetch ticket", err)
		}

		analysis, err := analyzer.Analyze(rootCtx, branch)
		if err != nil {
			contract.LogFatal("Cannot run codebase analysis", err)
		}
		if !analysis.FromCache {
			persistSnapshot()
		}

		plan, err := llm.NewPlanner(cfg.LLM, logger).DraftPlan(rootCtx, ticket, analysis)
		if err != nil {
			contract.LogFatal("Cannot draft test plan", err)
		}

		pr, err := testgen.NewGenerator(cfg, host, logger).Publish(rootCtx, ticket, plan)
		if err != nil {
			contract.LogFatal("Cannot publish generated tests", err)
		}

		if !viper.GetBool("skip-comment") {
			comment := fmt.Sprintf("Generated %d test scenarios for review: %s", len(plan.Scenarios), pr.URL)
			if err := tickets.AddComment(rootCtx, ticket.Key, comment); err != nil {
				contract.LogFatal("Cannot comment on ticket", err)
			}
		}

		fmt.Printf("Pull request ready: %s\n", pr.URL)
	},
}
