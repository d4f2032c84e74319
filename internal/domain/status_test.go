package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allowedEdges is the transition table written out by hand.
var allowedEdges = map[Kind]map[Status][]Status{
	KindITR: {
		StatusDraft:            {StatusDocumentsPending, StatusRejected},
		StatusDocumentsPending: {StatusUnderReview, StatusRejected},
		StatusUnderReview:      {StatusCAAssigned, StatusRejected},
		StatusCAAssigned:       {StatusProcessing, StatusRejected},
		StatusProcessing:       {StatusFiled, StatusRejected},
		StatusFiled:            {StatusAcknowledged, StatusRejected},
		StatusAcknowledged:     {StatusCompleted, StatusRejected},
		StatusRefundInitiated:  {StatusCompleted, StatusRejected},
	},
	KindGST: {
		StatusDraft:            {StatusDocumentsPending, StatusRejected},
		StatusDocumentsPending: {StatusUnderReview, StatusRejected},
		StatusUnderReview:      {StatusCAAssigned, StatusRejected},
		StatusCAAssigned:       {StatusProcessing, StatusRejected},
		StatusProcessing:       {StatusFiled, StatusRejected},
		StatusFiled:            {StatusAcknowledged, StatusRejected},
		StatusAcknowledged:     {StatusCompleted, StatusRefundInitiated, StatusRejected},
		StatusRefundInitiated:  {StatusCompleted, StatusRejected},
	},
}

func TestCanTransitionToMatchesTable(t *testing.T) {
	for kind, table := range allowedEdges {
		for _, from := range AllStatuses() {
			for _, to := range AllStatuses() {
				expected := false
				for _, allowed := range table[from] {
					if allowed == to {
						expected = true
					}
				}
				assert.Equal(t, expected, from.CanTransitionTo(kind, to), "%s: %s -> %s", kind, from, to)
			}
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusRejected} {
		assert.True(t, s.IsTerminal())
		assert.Empty(t, s.NextStatuses(KindGST))
	}
	assert.False(t, StatusDraft.CanTransitionTo(KindITR, Status("ARCHIVED")))
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t, []Status{StatusCompleted, StatusRejected, StatusRefundInitiated}, StatusAcknowledged.NextStatuses(KindGST))
	assert.Equal(t, []Status{StatusCompleted, StatusRejected}, StatusAcknowledged.NextStatuses(KindITR))
}

func TestProgress(t *testing.T) {
	for i, s := range LinearOrder {
		assert.Equal(t, i, s.Progress())
	}
	assert.Equal(t, StatusAcknowledged.Progress(), StatusRefundInitiated.Progress())
	assert.Equal(t, -1, StatusRejected.Progress())
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusDraft.IsEditable())
	assert.True(t, StatusDocumentsPending.IsEditable())
	assert.False(t, StatusUnderReview.IsEditable())
	assert.True(t, StatusRefundInitiated.IsFiled())
	assert.False(t, StatusProcessing.IsFiled())
}

func TestParsers(t *testing.T) {
	st, err := ParseStatus("documents-pending")
	require.NoError(t, err)
	assert.Equal(t, StatusDocumentsPending, st)
	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidInput)

	k, err := ParseKind("gst")
	require.NoError(t, err)
	assert.Equal(t, KindGST, k)
	_, err = ParseKind("vat")
	assert.ErrorIs(t, err, ErrInvalidInput)

	r, err := ParseRegime("OLD")
	require.NoError(t, err)
	assert.Equal(t, RegimeOld, r)
	_, err = ParseRegime("legacy")
	assert.Error(t, err)

	m, err := ParseGSTMode("Inclusive")
	require.NoError(t, err)
	assert.Equal(t, GSTInclusive, m)

	rt, err := ParseReturnType("gstr-3b")
	require.NoError(t, err)
	assert.Equal(t, ReturnGSTR3B, rt)
	assert.False(t, rt.IsAnnual())
	assert.True(t, ReturnGSTR9C.IsAnnual())

	role, err := ParseRole("ca")
	require.NoError(t, err)
	assert.Equal(t, RoleReviewer, role)
	_, err = ParseRole("auditor")
	assert.Error(t, err)
}
