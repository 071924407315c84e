// Package testgen renders drafted test plans as Playwright spec files and
// publishes them to the Git host as a reviewable pull request.
package testgen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Ponnammaah123/test-agent/schema"
)

// specTemplate renders one scenario as a Playwright spec skeleton. Steps and
// expectations land as comments so the generated file is runnable but marked
// for completion.
var specTemplate = template.Must(template.New("spec").Funcs(template.FuncMap{
	"quote": quoteTS,
	"inc":   func(i int) int { return i + 1 },
}).Parse(`import { test, expect } from '@playwright/test';

// {{ .TicketKey }}: {{ .Objective }}
test.describe({{ quote .Scenario.Title }}, () => {
  test({{ quote .Scenario.Title }}, async ({ page }) => {
{{- range $i, $step := .Scenario.Steps }}
    // Step {{ inc $i }}: {{ $step }}
{{- end }}
    // Expected: {{ .Scenario.Expected }}
    await page.goto(process.env.APP_URL ?? 'http://localhost:3000');
    test.fixme(true, 'Implement scenario steps');
  });
});
`))

type specData struct {
	TicketKey string
	Objective string
	Scenario  schema.TestScenario
}

// Slugify converts a scenario title to a filesystem-safe slug.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SpecPath returns the deterministic repository path for a scenario's spec
// file: tests/e2e/{ticket-key}/{scenario-slug}.spec.ts.
func SpecPath(ticketKey, scenarioTitle string) string {
	return fmt.Sprintf("tests/e2e/%s/%s.spec.ts", strings.ToLower(ticketKey), Slugify(scenarioTitle))
}

// RenderSpecs renders every scenario of the plan, keyed by repository path.
// Scenarios whose titles slug to the same path overwrite each other; the
// deterministic paths are what make republishing idempotent.
func RenderSpecs(plan *schema.TestPlan) (map[string]string, error) {
	files := make(map[string]string, len(plan.Scenarios))
	for _, scenario := range plan.Scenarios {
		var b strings.Builder
		err := specTemplate.Execute(&b, specData{
			TicketKey: plan.TicketKey,
			Objective: plan.Objective,
			Scenario:  scenario,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render scenario '%s': %w", scenario.Title, err)
		}
		files[SpecPath(plan.TicketKey, scenario.Title)] = b.String()
	}
	return files, nil
}

// quoteTS renders a TypeScript single-quoted string literal.
func quoteTS(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return "'" + escaped + "'"
}
