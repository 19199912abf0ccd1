package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    LeadStatus
		to      LeadStatus
		allowed bool
	}{
		{"new to follow_up", LeadStatusNew, LeadStatusFollowUp, true},
		{"new to survey", LeadStatusNew, LeadStatusSurvey, true},
		{"new to closed", LeadStatusNew, LeadStatusClosed, true},
		{"new to lost", LeadStatusNew, LeadStatusLost, true},
		{"follow_up to survey", LeadStatusFollowUp, LeadStatusSurvey, true},
		{"survey to closed", LeadStatusSurvey, LeadStatusClosed, true},
		{"follow_up back to new", LeadStatusFollowUp, LeadStatusNew, true},
		{"closed to new", LeadStatusClosed, LeadStatusNew, false},
		{"lost to new", LeadStatusLost, LeadStatusNew, false},
		{"closed to lost", LeadStatusClosed, LeadStatusLost, true},
		{"same status", LeadStatusNew, LeadStatusNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := &Lead{Status: tt.from}
			err := lead.TransitionTo(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, lead.Status)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.from, lead.Status, "failed transition must not mutate")
			}
		})
	}
}

func TestLeadWorkflowHelpers(t *testing.T) {
	lead := &Lead{Status: LeadStatusNew}

	require.NoError(t, lead.AdvanceToFollowUp())
	require.NoError(t, lead.AdvanceToSurvey())
	require.NoError(t, lead.Close())

	assert.Error(t, lead.TransitionTo(LeadStatusNew), "closed leads can never be reopened")
	require.NoError(t, lead.MarkLost())
	assert.Error(t, lead.TransitionTo(LeadStatusNew), "lost leads can never be reopened")
}

func TestParseLeadStatus(t *testing.T) {
	for _, valid := range []string{"new", "follow_up", "survey", "closed", "lost"} {
		status, err := ParseLeadStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, LeadStatus(valid), status)
	}

	_, err := ParseLeadStatus("archived")
	assert.Error(t, err)
}
