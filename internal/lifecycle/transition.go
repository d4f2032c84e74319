package lifecycle

import (
	"strings"

	"github.com/taxportal/filing-engine/internal/domain"
)

// TransitionPayload carries the optional data of a status change.
type TransitionPayload struct {
	// AcknowledgmentNo is accepted at FILED; one is issued when empty.
	AcknowledgmentNo string `json:"acknowledgmentNo,omitempty"`
	// AssignedTo names the reviewer at CA_ASSIGNED.
	AssignedTo string `json:"assignedTo,omitempty"`
	// Reason is stored as the rejection reason at REJECTED.
	Reason  string `json:"reason,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// Transition moves rec to target. On success the returned record carries the
// new status, stamped timestamps and freshly derived totals. On failure rec is
// returned unchanged together with the error.
func (m *Machine) Transition(rec *domain.FilingRecord, target domain.Status, role domain.Role, payload TransitionPayload) (*domain.FilingRecord, error) {
	from := rec.Status

	if target == domain.StatusFiled && (rec.FiledAt != nil || rec.AcknowledgmentNo != "") {
		return rec, domain.Newf(domain.CodeAlreadyFiled, "filing %s was already filed with acknowledgment %q", rec.ID, rec.AcknowledgmentNo)
	}
	if !from.CanTransitionTo(rec.Kind, target) {
		return rec, domain.Newf(domain.CodeIllegalTransition, "%s filing cannot move from %s to %s", rec.Kind, from, target)
	}
	if !roleMayTransition(role, from, target) {
		return rec, domain.Newf(domain.CodeActorNotPermitted, "%s cannot move a filing from %s to %s", role, from, target)
	}

	next := rec.Clone()
	now := m.Now()

	switch target {
	case domain.StatusDocumentsPending:
		if !rec.IdentityComplete() {
			return rec, domain.Newf(domain.CodeIncompleteFiling, "%s is required before submitting", identityField(rec.Kind))
		}
		if !rec.LineItems.HasNonZero() {
			return rec, domain.Newf(domain.CodeIncompleteFiling, "at least one non-zero line item is required before submitting")
		}
	case domain.StatusCAAssigned:
		assignee := strings.TrimSpace(payload.AssignedTo)
		if assignee == "" {
			assignee = rec.AssignedTo
		}
		if assignee == "" {
			return rec, domain.Newf(domain.CodeIncompleteFiling, "an assignee is required to assign a reviewer")
		}
		next.AssignedTo = assignee
	case domain.StatusFiled:
		ack := strings.TrimSpace(payload.AcknowledgmentNo)
		if ack == "" {
			if m.Acks == nil {
				return rec, domain.Newf(domain.CodeIncompleteFiling, "an acknowledgment number is required to file")
			}
			ack = m.Acks.Issue(rec.Kind)
		}
		next.AcknowledgmentNo = ack
		next.FiledAt = &now
	case domain.StatusAcknowledged:
		next.VerifiedAt = &now
	case domain.StatusCompleted:
		next.CompletedAt = &now
	case domain.StatusRejected:
		next.RejectionReason = strings.TrimSpace(payload.Reason)
	}

	if r := strings.TrimSpace(payload.Remarks); r != "" {
		if next.Remarks == "" {
			next.Remarks = r
		} else {
			next.Remarks += "\n" + r
		}
	}

	derived, err := m.Engine.Derive(next)
	if err != nil {
		return rec, err
	}
	next.Derived = derived
	next.Status = target
	next.UpdatedAt = now

	m.Logger.Infof("filing %s: %s -> %s by %s", rec.ID, from, target, role)
	return next, nil
}

// roleMayTransition: the filer owns the record while it is editable, the
// reviewer afterwards. Admins may do anything the table allows.
func roleMayTransition(role domain.Role, from, target domain.Status) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleFiler:
		return from.IsEditable()
	case domain.RoleReviewer:
		return target == domain.StatusRejected || !from.IsEditable()
	}
	return false
}

func identityField(kind domain.Kind) string {
	if kind == domain.KindGST {
		return "GSTIN"
	}
	return "PAN"
}
