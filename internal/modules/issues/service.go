// README: Issue summarisation; JSON-mode generation with a deterministic grouping fallback.
package issues

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"carebot/internal/ai"
	"carebot/internal/modules/account"
	"carebot/internal/types"
)

type Accounts interface {
	Get(ctx context.Context, id types.ID) (*account.Account, error)
}

type Service struct {
	accounts  Accounts
	generator ai.JSONGenerator
	log       *logrus.Entry
}

// NewService returns a Service. generator may be nil, in which case every
// summary uses the deterministic grouping.
func NewService(accounts Accounts, generator ai.JSONGenerator, log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{accounts: accounts, generator: generator, log: log.WithField("component", "issues")}
}

// Summarize groups the account's incidents into categories, most frequent first.
func (s *Service) Summarize(ctx context.Context, accountID types.ID) (*Report, error) {
	acct, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	report := &Report{AccountID: string(acct.ID), Issues: []Summary{}}
	if len(acct.Incidents) == 0 {
		return report, nil
	}

	if s.generator != nil {
		out, err := s.generate(ctx, acct.Incidents)
		if err == nil {
			report.Issues = out
			report.Generated = true
			return report, nil
		}
		s.log.WithError(err).WithField("account_id", acct.ID).Warn("generated summary unavailable; grouping by category")
	}

	report.Issues = Group(acct.Incidents)
	return report, nil
}

func (s *Service) generate(ctx context.Context, incidents []account.Incident) ([]Summary, error) {
	raw, err := s.generator.GenerateJSON(ctx, buildPrompt(incidents))
	if err != nil {
		return nil, err
	}
	return parseSummaries(raw, incidents)
}

func buildPrompt(incidents []account.Incident) string {
	data, _ := json.Marshal(incidents)

	var b strings.Builder
	b.WriteString("Group the following customer incidents into categories of related problems.\n")
	b.WriteString("Return ONLY a JSON array. Each element must have the fields:\n")
	b.WriteString(`  "category" (short name), "count" (number of incidents), "description" (one sentence), `)
	b.WriteString(`"status" (status of the most recent incident), "id" (id of the most recent incident).` + "\n")
	b.WriteString("Order the array by count, highest first.\n\n")
	b.WriteString("Incidents: ")
	b.Write(data)
	b.WriteString("\n")
	return b.String()
}

// parseSummaries decodes a generated array, or an object wrapping one under
// "issues", and rejects summaries that point at unknown incidents.
func parseSummaries(raw string, incidents []account.Incident) ([]Summary, error) {
	raw = strings.TrimSpace(raw)
	var out []Summary
	if strings.HasPrefix(raw, "{") {
		var wrapped struct {
			Issues []Summary `json:"issues"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSummary, err)
		}
		out = wrapped.Issues
	} else if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSummary, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrMalformedSummary)
	}

	known := make(map[types.ID]bool, len(incidents))
	for _, inc := range incidents {
		known[inc.ID] = true
	}
	for i, sm := range out {
		if strings.TrimSpace(sm.Category) == "" || sm.Count <= 0 {
			return nil, fmt.Errorf("%w: entry %d incomplete", ErrMalformedSummary, i)
		}
		if !known[types.ID(sm.ID)] {
			return nil, fmt.Errorf("%w: unknown incident %q", ErrMalformedSummary, sm.ID)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// Group summarises incidents by their recorded category. Ties keep the order in
// which categories first appear.
func Group(incidents []account.Incident) []Summary {
	index := make(map[string]int)
	var out []Summary
	for _, inc := range incidents {
		category := strings.TrimSpace(inc.Category)
		if category == "" {
			category = "Other"
		}
		i, ok := index[category]
		if !ok {
			index[category] = len(out)
			out = append(out, Summary{
				Category:    category,
				Count:       1,
				Description: inc.Description,
				Status:      inc.Status,
				ID:          string(inc.ID),
			})
			continue
		}
		sm := &out[i]
		sm.Count++
		if latest := findIncident(incidents, types.ID(sm.ID)); latest == nil || inc.OpenedAt.After(latest.OpenedAt) {
			sm.Description = inc.Description
			sm.Status = inc.Status
			sm.ID = string(inc.ID)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func findIncident(incidents []account.Incident, id types.ID) *account.Incident {
	for i := range incidents {
		if incidents[i].ID == id {
			return &incidents[i]
		}
	}
	return nil
}
