package lifecycle

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

var fixedNow = time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC)

type counterIssuer struct{ n int }

func (c *counterIssuer) Issue(kind domain.Kind) string {
	c.n++
	return fmt.Sprintf("%s-ACK-%d", kind, c.n)
}

func newTestMachine() *Machine {
	m := NewMachine(calculation.NewEngine(nil, nil), &counterIssuer{}, nil)
	m.Now = func() time.Time { return fixedNow }
	ids := 0
	m.NewID = func() string {
		ids++
		return fmt.Sprintf("filing-%d", ids)
	}
	return m
}

func itrDraft(t *testing.T, m *Machine, items domain.LineItems) *domain.FilingRecord {
	t.Helper()
	rec, err := m.CreateDraft(domain.KindITR, "2025-26", domain.Identity{PAN: "ABCDE1234F", FullName: "Asha Rao"}, DraftOptions{LineItems: items})
	require.NoError(t, err)
	return rec
}

func salary(amount int64) domain.LineItems {
	return domain.LineItems{domain.ItemSalaryIncome: money.NewMoneyFromInt(amount)}
}

// advance walks rec along the happy path up to target.
func advance(t *testing.T, m *Machine, rec *domain.FilingRecord, target domain.Status) *domain.FilingRecord {
	t.Helper()
	for rec.Status != target {
		next := rec.Status.NextStatuses(rec.Kind)[0]
		role := domain.RoleReviewer
		if rec.Status.IsEditable() {
			role = domain.RoleFiler
		}
		var err error
		rec, err = m.Transition(rec, next, role, TransitionPayload{AssignedTo: "ca-7"})
		require.NoError(t, err, "moving to %s", next)
	}
	return rec
}

func TestCreateDraftITR(t *testing.T) {
	m := newTestMachine()
	rec := itrDraft(t, m, salary(1000000))

	assert.Equal(t, "filing-1", rec.ID)
	assert.Equal(t, domain.StatusDraft, rec.Status)
	assert.Equal(t, domain.RegimeNew, rec.ITR.Regime)
	assert.Equal(t, fixedNow, rec.CreatedAt)
	assert.Equal(t, int64(0), rec.Version)
	assert.True(t, rec.Derived.TotalTax.Equal(money.NewMoneyFromInt(62400)))
	assert.Empty(t, rec.AcknowledgmentNo)
	assert.Nil(t, rec.FiledAt)
}

func TestCreateDraftGST(t *testing.T) {
	m := newTestMachine()
	rec, err := m.CreateDraft(domain.KindGST, "2025-26-Q1", domain.Identity{GSTIN: " 27abcde1234f1z5 "}, DraftOptions{ReturnType: domain.ReturnGSTR1})
	require.NoError(t, err)
	assert.Equal(t, "27ABCDE1234F1Z5", rec.GST.GSTIN)
	assert.True(t, rec.GST.RatePercent.Equal(DefaultGSTRate))
	require.NotNil(t, rec.Derived.GST)
}

func TestCreateDraftValidation(t *testing.T) {
	m := newTestMachine()
	rate := decimal.NewFromInt(120)

	tests := []struct {
		name   string
		kind   domain.Kind
		period string
		opts   DraftOptions
	}{
		{"bad assessment year", domain.KindITR, "2025", DraftOptions{}},
		{"bad regime", domain.KindITR, "2025-26", DraftOptions{Regime: "flat"}},
		{"annual return on a month", domain.KindGST, "2025-04", DraftOptions{ReturnType: domain.ReturnGSTR9}},
		{"monthly return on a year", domain.KindGST, "2024-25", DraftOptions{ReturnType: domain.ReturnGSTR3B}},
		{"rate out of range", domain.KindGST, "2025-04", DraftOptions{RatePercent: &rate}},
		{"foreign line item", domain.KindGST, "2025-04", DraftOptions{LineItems: salary(1)}},
		{"unknown kind", domain.Kind("VAT"), "2025-04", DraftOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.CreateDraft(tt.kind, tt.period, domain.Identity{}, tt.opts)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSubmitRequiresLineItems(t *testing.T) {
	m := newTestMachine()
	rec := itrDraft(t, m, nil)

	got, err := m.Transition(rec, domain.StatusDocumentsPending, domain.RoleFiler, TransitionPayload{})
	assert.ErrorIs(t, err, domain.ErrIncompleteFiling)
	assert.Same(t, rec, got)
	assert.Equal(t, domain.StatusDraft, got.Status)
}

func TestSubmitRequiresIdentity(t *testing.T) {
	m := newTestMachine()
	rec, err := m.CreateDraft(domain.KindGST, "2025-04", domain.Identity{TradeName: "Acme"}, DraftOptions{
		LineItems: domain.LineItems{domain.ItemB2BSales: money.NewMoneyFromInt(1000)},
	})
	require.NoError(t, err)

	_, err = m.Transition(rec, domain.StatusDocumentsPending, domain.RoleFiler, TransitionPayload{})
	assert.ErrorIs(t, err, domain.ErrIncompleteFiling)
	assert.Contains(t, err.Error(), "GSTIN")
}

func TestSecondFilingIsRejected(t *testing.T) {
	m := newTestMachine()
	rec := advance(t, m, itrDraft(t, m, salary(800000)), domain.StatusFiled)
	require.Equal(t, "ITR-ACK-1", rec.AcknowledgmentNo)
	require.NotNil(t, rec.FiledAt)

	got, err := m.Transition(rec, domain.StatusFiled, domain.RoleAdmin, TransitionPayload{AcknowledgmentNo: "OTHER"})
	assert.ErrorIs(t, err, domain.ErrAlreadyFiled)
	assert.Equal(t, "ITR-ACK-1", got.AcknowledgmentNo)
	assert.Equal(t, domain.StatusFiled, got.Status)
}

func TestFiledAcceptsSuppliedAcknowledgment(t *testing.T) {
	m := newTestMachine()
	rec := advance(t, m, itrDraft(t, m, salary(800000)), domain.StatusProcessing)

	filed, err := m.Transition(rec, domain.StatusFiled, domain.RoleReviewer, TransitionPayload{AcknowledgmentNo: "123456789012345"})
	require.NoError(t, err)
	assert.Equal(t, "123456789012345", filed.AcknowledgmentNo)
	assert.Equal(t, fixedNow, *filed.FiledAt)
	assert.Nil(t, rec.FiledAt, "input record must not change")
}

func TestProcessingRecordIsLocked(t *testing.T) {
	m := newTestMachine()
	rec := advance(t, m, itrDraft(t, m, salary(800000)), domain.StatusProcessing)

	got, err := m.UpdateLineItems(rec, domain.RoleFiler, LineItemPatch{Set: salary(1)})
	assert.ErrorIs(t, err, domain.ErrRecordLocked)
	assert.Same(t, rec, got)
	assert.True(t, got.LineItems.Get(domain.ItemSalaryIncome).Equal(money.NewMoneyFromInt(800000)))
}

func TestAdminOverride(t *testing.T) {
	m := newTestMachine()
	rec := advance(t, m, itrDraft(t, m, salary(800000)), domain.StatusCAAssigned)

	_, err := m.UpdateLineItems(rec, domain.RoleReviewer, LineItemPatch{Set: salary(1), AdminOverride: true})
	assert.ErrorIs(t, err, domain.ErrActorNotPermitted)

	updated, err := m.UpdateLineItems(rec, domain.RoleAdmin, LineItemPatch{Set: salary(1000000), AdminOverride: true})
	require.NoError(t, err)
	assert.True(t, updated.Derived.TotalTax.Equal(money.NewMoneyFromInt(62400)))

	filed := advance(t, m, updated, domain.StatusFiled)
	_, err = m.UpdateLineItems(filed, domain.RoleAdmin, LineItemPatch{Set: salary(1), AdminOverride: true})
	assert.ErrorIs(t, err, domain.ErrRecordLocked)
}

func TestUpdateLineItemsRecomputes(t *testing.T) {
	m := newTestMachine()
	rec := itrDraft(t, m, salary(1000000))
	old := domain.RegimeOld

	updated, err := m.UpdateLineItems(rec, domain.RoleFiler, LineItemPatch{
		Set:    domain.LineItems{domain.ItemSection80C: money.NewMoneyFromInt(150000)},
		Regime: &old,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RegimeOld, updated.ITR.Regime)
	assert.True(t, updated.Derived.Deductions.Equal(money.NewMoneyFromInt(150000)))
	assert.True(t, updated.Derived.TaxableAmount.Equal(money.NewMoneyFromInt(850000)))

	removed, err := m.UpdateLineItems(updated, domain.RoleFiler, LineItemPatch{Remove: []string{domain.ItemSection80C}})
	require.NoError(t, err)
	assert.True(t, removed.Derived.Deductions.IsZero())
	assert.Equal(t, domain.RegimeNew, rec.ITR.Regime, "input record must not change")
}

func TestUpdateLineItemsRejectsBadPatches(t *testing.T) {
	m := newTestMachine()
	rec := itrDraft(t, m, salary(1000000))
	rate := decimal.NewFromInt(5)

	tests := []struct {
		name  string
		role  domain.Role
		patch LineItemPatch
		want  error
	}{
		{"empty patch", domain.RoleFiler, LineItemPatch{}, domain.ErrInvalidInput},
		{"negative amount", domain.RoleFiler, LineItemPatch{Set: salary(-1)}, domain.ErrInvalidInput},
		{"unknown key", domain.RoleFiler, LineItemPatch{Remove: []string{"bonus"}}, domain.ErrInvalidInput},
		{"rate on ITR", domain.RoleFiler, LineItemPatch{RatePercent: &rate}, domain.ErrInvalidInput},
		{"reviewer edit", domain.RoleReviewer, LineItemPatch{Set: salary(1)}, domain.ErrActorNotPermitted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.UpdateLineItems(rec, tt.role, tt.patch)
			assert.ErrorIs(t, err, tt.want)
			assert.Same(t, rec, got)
		})
	}
}

func TestTransitionSideEffects(t *testing.T) {
	m := newTestMachine()
	rec := advance(t, m, itrDraft(t, m, salary(800000)), domain.StatusUnderReview)

	_, err := m.Transition(rec, domain.StatusCAAssigned, domain.RoleReviewer, TransitionPayload{})
	assert.ErrorIs(t, err, domain.ErrIncompleteFiling)

	rec, err = m.Transition(rec, domain.StatusCAAssigned, domain.RoleReviewer, TransitionPayload{AssignedTo: "ca-42", Remarks: "docs ok"})
	require.NoError(t, err)
	assert.Equal(t, "ca-42", rec.AssignedTo)

	rec = advance(t, m, rec, domain.StatusAcknowledged)
	assert.Equal(t, fixedNow, *rec.VerifiedAt)

	rec, err = m.Transition(rec, domain.StatusCompleted, domain.RoleReviewer, TransitionPayload{Remarks: "closed"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, *rec.CompletedAt)
	assert.Equal(t, "docs ok\nclosed", rec.Remarks)
	assert.True(t, rec.Status.IsTerminal())
}

func TestRejection(t *testing.T) {
	m := newTestMachine()
	draft := itrDraft(t, m, salary(500000))

	rejected, err := m.Transition(draft, domain.StatusRejected, domain.RoleFiler, TransitionPayload{Reason: "duplicate"})
	require.NoError(t, err)
	assert.Equal(t, "duplicate", rejected.RejectionReason)

	_, err = m.Transition(rejected, domain.StatusDraft, domain.RoleAdmin, TransitionPayload{})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	review := advance(t, m, draft, domain.StatusUnderReview)
	_, err = m.Transition(review, domain.StatusRejected, domain.RoleFiler, TransitionPayload{})
	assert.ErrorIs(t, err, domain.ErrActorNotPermitted)
	_, err = m.Transition(review, domain.StatusRejected, domain.RoleReviewer, TransitionPayload{})
	assert.NoError(t, err)
}

func TestRoleRules(t *testing.T) {
	m := newTestMachine()
	draft := itrDraft(t, m, salary(500000))

	_, err := m.Transition(draft, domain.StatusDocumentsPending, domain.RoleReviewer, TransitionPayload{})
	assert.ErrorIs(t, err, domain.ErrActorNotPermitted)
	_, err = m.Transition(draft, domain.StatusDocumentsPending, domain.RoleAdmin, TransitionPayload{})
	assert.NoError(t, err)

	review := advance(t, m, draft, domain.StatusUnderReview)
	_, err = m.Transition(review, domain.StatusCAAssigned, domain.RoleFiler, TransitionPayload{AssignedTo: "x"})
	assert.ErrorIs(t, err, domain.ErrActorNotPermitted)
	_, err = m.Transition(review, domain.StatusCAAssigned, domain.Role("GUEST"), TransitionPayload{AssignedTo: "x"})
	assert.ErrorIs(t, err, domain.ErrActorNotPermitted)
}

func TestRefundBranchIsGSTOnly(t *testing.T) {
	m := newTestMachine()
	itr := advance(t, m, itrDraft(t, m, salary(500000)), domain.StatusAcknowledged)
	_, err := m.Transition(itr, domain.StatusRefundInitiated, domain.RoleAdmin, TransitionPayload{})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	gst, err := m.CreateDraft(domain.KindGST, "2025-04", domain.Identity{GSTIN: "27ABCDE1234F1Z5"}, DraftOptions{
		LineItems: domain.LineItems{domain.ItemITCIGST: money.NewMoneyFromInt(5000)},
	})
	require.NoError(t, err)
	gst = advance(t, m, gst, domain.StatusAcknowledged)
	assert.Equal(t, "GST-ACK-2", gst.AcknowledgmentNo)

	gst, err = m.Transition(gst, domain.StatusRefundInitiated, domain.RoleReviewer, TransitionPayload{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAcknowledged.Progress(), gst.Status.Progress())
	gst, err = m.Transition(gst, domain.StatusCompleted, domain.RoleReviewer, TransitionPayload{})
	require.NoError(t, err)
	assert.NotNil(t, gst.CompletedAt)
}

// Every pair of statuses: only table edges succeed, everything else is an
// illegal transition that leaves the record as it was.
func TestTransitionOnlyAlongTableEdges(t *testing.T) {
	m := newTestMachine()
	for _, kind := range []domain.Kind{domain.KindITR, domain.KindGST} {
		for _, from := range domain.AllStatuses() {
			for _, to := range domain.AllStatuses() {
				rec := &domain.FilingRecord{
					ID:        "edge",
					Kind:      kind,
					Status:    from,
					PeriodKey: "2025-26",
					LineItems: domain.LineItems{},
				}
				if kind == domain.KindGST {
					rec.PeriodKey = "2025-04"
					rec.GST = &domain.GSTDetails{GSTIN: "27ABCDE1234F1Z5", RatePercent: DefaultGSTRate}
					rec.LineItems[domain.ItemB2BSales] = money.NewMoneyFromInt(100)
				} else {
					rec.ITR = &domain.ITRDetails{PAN: "ABCDE1234F"}
					rec.LineItems[domain.ItemSalaryIncome] = money.NewMoneyFromInt(100)
				}

				got, err := m.Transition(rec, to, domain.RoleAdmin, TransitionPayload{AssignedTo: "ca"})
				if from.CanTransitionTo(kind, to) {
					require.NoError(t, err, "%s %s -> %s", kind, from, to)
					assert.Equal(t, to, got.Status)
					continue
				}
				require.Error(t, err, "%s %s -> %s", kind, from, to)
				if to != domain.StatusFiled {
					assert.ErrorIs(t, err, domain.ErrIllegalTransition)
				}
				assert.Equal(t, from, got.Status)
			}
		}
	}
}

func TestCheckDelete(t *testing.T) {
	m := newTestMachine()
	draft := itrDraft(t, m, salary(1))
	assert.NoError(t, m.CheckDelete(draft, domain.RoleFiler))
	assert.ErrorIs(t, m.CheckDelete(draft, domain.RoleReviewer), domain.ErrActorNotPermitted)

	pending := advance(t, m, draft, domain.StatusDocumentsPending)
	assert.ErrorIs(t, m.CheckDelete(pending, domain.RoleAdmin), domain.ErrDeleteNotAllowed)
}
