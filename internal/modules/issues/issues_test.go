package issues

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carebot/internal/modules/account"
)

type stubJSON struct {
	out   string
	err   error
	calls int
}

func (s *stubJSON) GenerateJSON(context.Context, string) (string, error) {
	s.calls++
	return s.out, s.err
}

func newTestService(gen *stubJSON) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	accounts := account.NewService(account.NewMemoryStore(account.SampleAccounts()...))
	if gen == nil {
		return NewService(accounts, nil, logrus.NewEntry(logger))
	}
	return NewService(accounts, gen, logrus.NewEntry(logger))
}

func TestSummarizeGenerated(t *testing.T) {
	gen := &stubJSON{out: `[
		{"category":"Hardware","count":1,"description":"Router issues","status":"Open","id":"INC-211"},
		{"category":"Connectivity","count":2,"description":"Unstable connection","status":"Open","id":"INC-213"}
	]`}
	svc := newTestService(gen)

	report, err := svc.Summarize(context.Background(), "user2")
	require.NoError(t, err)

	assert.True(t, report.Generated)
	assert.Equal(t, 1, gen.calls)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "Connectivity", report.Issues[0].Category)
	assert.Equal(t, 2, report.Issues[0].Count)
	assert.Equal(t, "Hardware", report.Issues[1].Category)
}

func TestSummarizeAcceptsWrappedObject(t *testing.T) {
	gen := &stubJSON{out: `{"issues":[{"category":"Billing","count":1,"description":"Double charge","status":"Completed","id":"INC-202"}]}`}
	report, err := newTestService(gen).Summarize(context.Background(), "user1")
	require.NoError(t, err)
	assert.True(t, report.Generated)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "INC-202", report.Issues[0].ID)
}

func TestSummarizeFallsBack(t *testing.T) {
	cases := map[string]*stubJSON{
		"generator error":  {err: errors.New("quota")},
		"not json":         {out: "Here are your issues!"},
		"empty array":      {out: "[]"},
		"unknown incident": {out: `[{"category":"Network","count":2,"description":"x","status":"Open","id":"INC-999"}]`},
		"zero count":       {out: `[{"category":"Network","count":0,"description":"x","status":"Open","id":"INC-213"}]`},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			report, err := newTestService(gen).Summarize(context.Background(), "user2")
			require.NoError(t, err)
			assert.False(t, report.Generated)
			require.Len(t, report.Issues, 2)
			assert.Equal(t, Summary{Category: "Network", Count: 2, Description: "Connection drops during calls", Status: "Open", ID: "INC-213"}, report.Issues[0])
			assert.Equal(t, "Hardware", report.Issues[1].Category)
		})
	}
}

func TestSummarizeWithoutGenerator(t *testing.T) {
	report, err := newTestService(nil).Summarize(context.Background(), "user1")
	require.NoError(t, err)
	assert.False(t, report.Generated)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "Network", report.Issues[0].Category)
	assert.Equal(t, "Billing", report.Issues[1].Category)
}

func TestSummarizeUnknownAccount(t *testing.T) {
	gen := &stubJSON{out: "[]"}
	_, err := newTestService(gen).Summarize(context.Background(), "ghost")
	require.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.Zero(t, gen.calls)
}

func TestGroupUsesLatestIncident(t *testing.T) {
	var incidents []account.Incident
	for _, a := range account.SampleAccounts() {
		incidents = append(incidents, a.Incidents...)
	}
	incidents = append(incidents, account.Incident{ID: "INC-900", Description: "Unknown"})

	got := Group(incidents)
	require.Len(t, got, 4)
	assert.Equal(t, "Network", got[0].Category)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, "INC-201", got[0].ID)
	assert.Equal(t, "Other", got[3].Category)
}
