package service

import (
	"context"
	"fmt"
	"io"

	"github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/domain"
	"github.com/taxportal/filing-engine/internal/lifecycle"
	"github.com/taxportal/filing-engine/internal/ports"
)

// TransitionRecorder is told about every attempted status change. outcome is
// "ok" or the error code.
type TransitionRecorder interface {
	ObserveTransition(kind domain.Kind, from, to domain.Status, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTransition(domain.Kind, domain.Status, domain.Status, string) {}

// FilingService loads filings, applies lifecycle rules and saves the result
// with the version it loaded. Concurrent writers lose with VERSION_CONFLICT;
// retrying is up to the caller.
type FilingService struct {
	repo     ports.FilingRepository
	machine  *lifecycle.Machine
	sheets   ports.SheetGenerator
	recorder TransitionRecorder
	logger   calculation.Logger
}

// NewFilingService wires the service. sheets and recorder may be nil.
func NewFilingService(repo ports.FilingRepository, machine *lifecycle.Machine, sheets ports.SheetGenerator, recorder TransitionRecorder, logger calculation.Logger) *FilingService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &FilingService{repo: repo, machine: machine, sheets: sheets, recorder: recorder, logger: logger}
}

// CreateDraft creates and stores a new draft.
func (s *FilingService) CreateDraft(ctx context.Context, kind domain.Kind, periodKey string, identity domain.Identity, opts lifecycle.DraftOptions) (*domain.FilingRecord, error) {
	rec, err := s.machine.CreateDraft(kind, periodKey, identity, opts)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rec, 0); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the stored filing.
func (s *FilingService) Get(ctx context.Context, id string) (*domain.FilingRecord, error) {
	return s.repo.Get(ctx, id)
}

// UpdateLineItems patches the inputs of a filing. A non-zero ifVersion must
// match the stored version.
func (s *FilingService) UpdateLineItems(ctx context.Context, id string, role domain.Role, patch lifecycle.LineItemPatch, ifVersion int64) (*domain.FilingRecord, error) {
	rec, err := s.load(ctx, id, ifVersion)
	if err != nil {
		return nil, err
	}
	next, err := s.machine.UpdateLineItems(rec, role, patch)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, next, rec.Version); err != nil {
		return nil, err
	}
	return next, nil
}

// Transition moves a filing to target.
func (s *FilingService) Transition(ctx context.Context, id string, target domain.Status, role domain.Role, payload lifecycle.TransitionPayload, ifVersion int64) (*domain.FilingRecord, error) {
	rec, err := s.load(ctx, id, ifVersion)
	if err != nil {
		return nil, err
	}
	next, err := s.machine.Transition(rec, target, role, payload)
	if err == nil {
		err = s.repo.Save(ctx, next, rec.Version)
	}
	if err != nil {
		s.recorder.ObserveTransition(rec.Kind, rec.Status, target, domain.Code(err))
		s.logger.Warnf("transition of %s from %s to %s failed: %v", id, rec.Status, target, err)
		return nil, err
	}
	s.recorder.ObserveTransition(rec.Kind, rec.Status, target, "ok")
	return next, nil
}

// Delete removes a draft filing.
func (s *FilingService) Delete(ctx context.Context, id string, role domain.Role, ifVersion int64) error {
	rec, err := s.load(ctx, id, ifVersion)
	if err != nil {
		return err
	}
	if err := s.machine.CheckDelete(rec, role); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, rec.Version); err != nil {
		return err
	}
	s.logger.Infof("deleted draft %s", id)
	return nil
}

// Sheet writes the computation sheet of a filing to w.
func (s *FilingService) Sheet(ctx context.Context, id string, w io.Writer) error {
	if s.sheets == nil {
		return fmt.Errorf("no sheet generator configured")
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.sheets.Generate(ctx, rec, w)
}

func (s *FilingService) load(ctx context.Context, id string, ifVersion int64) (*domain.FilingRecord, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ifVersion != 0 && ifVersion != rec.Version {
		return nil, domain.Newf(domain.CodeVersionConflict, "filing %s is at version %d, expected %d", id, rec.Version, ifVersion)
	}
	return rec, nil
}
