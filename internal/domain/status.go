package domain

import "strings"

// Status is the lifecycle state of a filing.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusDocumentsPending Status = "DOCUMENTS_PENDING"
	StatusUnderReview      Status = "UNDER_REVIEW"
	StatusCAAssigned       Status = "CA_ASSIGNED"
	StatusProcessing       Status = "PROCESSING"
	StatusFiled            Status = "FILED"
	StatusAcknowledged     Status = "ACKNOWLEDGED"
	StatusCompleted        Status = "COMPLETED"
	StatusRejected         Status = "REJECTED"
	StatusRefundInitiated  Status = "REFUND_INITIATED"
)

// LinearOrder is the canonical order used for progress display.
var LinearOrder = []Status{
	StatusDraft,
	StatusDocumentsPending,
	StatusUnderReview,
	StatusCAAssigned,
	StatusProcessing,
	StatusFiled,
	StatusAcknowledged,
	StatusCompleted,
}

// AllStatuses lists every status, linear chain first.
func AllStatuses() []Status {
	return append(append([]Status(nil), LinearOrder...), StatusRejected, StatusRefundInitiated)
}

// ParseStatus accepts any casing and hyphens in place of underscores.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !st.IsValid() {
		return "", Newf(CodeInvalidInput, "unknown status %q", s)
	}
	return st, nil
}

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusDocumentsPending, StatusUnderReview, StatusCAAssigned, StatusProcessing,
		StatusFiled, StatusAcknowledged, StatusCompleted, StatusRejected, StatusRefundInitiated:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// IsEditable reports whether line items may be changed by the filer in s.
func (s Status) IsEditable() bool {
	return s == StatusDraft || s == StatusDocumentsPending
}

// IsFiled reports whether s is at or beyond FILED on the filing path.
func (s Status) IsFiled() bool {
	switch s {
	case StatusFiled, StatusAcknowledged, StatusRefundInitiated, StatusCompleted:
		return true
	}
	return false
}

// Progress returns the index of s in LinearOrder. REFUND_INITIATED reports
// the ACKNOWLEDGED step; REJECTED reports -1.
func (s Status) Progress() int {
	if s == StatusRefundInitiated {
		s = StatusAcknowledged
	}
	for i, st := range LinearOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo is the single transition table for every filing kind.
// REJECTED is reachable from every non-terminal status; the refund branch
// exists only for GST filings.
func (s Status) CanTransitionTo(kind Kind, target Status) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == StatusRejected {
		return true
	}
	switch s {
	case StatusDraft:
		return target == StatusDocumentsPending
	case StatusDocumentsPending:
		return target == StatusUnderReview
	case StatusUnderReview:
		return target == StatusCAAssigned
	case StatusCAAssigned:
		return target == StatusProcessing
	case StatusProcessing:
		return target == StatusFiled
	case StatusFiled:
		return target == StatusAcknowledged
	case StatusAcknowledged:
		return target == StatusCompleted || (kind == KindGST && target == StatusRefundInitiated)
	case StatusRefundInitiated:
		return target == StatusCompleted
	}
	return false
}

// NextStatuses lists the targets reachable from s in one step.
func (s Status) NextStatuses(kind Kind) []Status {
	var next []Status
	for _, t := range AllStatuses() {
		if s.CanTransitionTo(kind, t) {
			next = append(next, t)
		}
	}
	return next
}
