package ports

import (
	"context"
	"io"

	"github.com/taxportal/filing-engine/internal/domain"
)

// FilingRepository persists filing records. Implementations must make
// read-compare-write atomic per record: Save and Delete succeed only when the
// stored version equals expectedVersion and fail with VERSION_CONFLICT
// otherwise. An expectedVersion of 0 on Save creates the record.
type FilingRepository interface {
	Get(ctx context.Context, id string) (*domain.FilingRecord, error)
	Save(ctx context.Context, rec *domain.FilingRecord, expectedVersion int64) error
	Delete(ctx context.Context, id string, expectedVersion int64) error
}

// SheetGenerator renders a printable computation sheet of a filing.
type SheetGenerator interface {
	Generate(ctx context.Context, rec *domain.FilingRecord, w io.Writer) error
}
