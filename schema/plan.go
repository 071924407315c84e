package schema

// JiraTicket is the subset of a Jira issue the pipeline cares about.
type JiraTicket struct {
	Key                string   `json:"key"`
	Summary            string   `json:"summary"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	Labels             []string `json:"labels"`
	Status             string   `json:"status"`
}

// TestScenario is one scenario in a drafted test plan.
type TestScenario struct {
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Steps    []string `json:"steps"`
	Expected string   `json:"expected"`
}

// TestPlan is the LLM-drafted plan for a ticket.
type TestPlan struct {
	TicketKey string         `json:"ticket_key"`
	Objective string         `json:"objective"`
	Scenarios []TestScenario `json:"scenarios"`
}
