package repository

import (
	"context"
	"errors"
	"time"

	"allotrack-backend/internal/domain"
)

// ErrNotFound is returned by lookups when no row matches. Callers that need
// to distinguish "missing" from infrastructure failure test with errors.Is.
var ErrNotFound = errors.New("record not found")

type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)
	// GetByTagOrSerial resolves the human-facing identifiers used at the
	// import boundary: asset tag first, serial number second.
	GetByTagOrSerial(ctx context.Context, identifier string) (*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Asset, int32, error)
	Count(ctx context.Context) (int64, error)
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	GetByCode(ctx context.Context, code string) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
	// AdjustAllotmentCounts applies deltas to the allotment counters in a
	// single statement so concurrent batches cannot lose updates.
	AdjustAllotmentCounts(ctx context.Context, orgID int64, totalDelta, activeDelta int32) error
	List(ctx context.Context) ([]domain.Organization, error)
}

type AllotmentRepository interface {
	Create(ctx context.Context, allotment *domain.Allotment) error
	GetByID(ctx context.Context, id int64) (*domain.Allotment, error)
	Update(ctx context.Context, allotment *domain.Allotment) error
	AppendExtension(ctx context.Context, ext *domain.Extension) error
	ListExtensions(ctx context.Context, allotmentID int64) ([]domain.Extension, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Allotment, int32, error)
	// ListOpenDueBefore returns ACTIVE and EXTENDED allotments whose due
	// date is before the cutoff, for the overdue sweep.
	ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Allotment, error)
	// NextNumber allocates the next allotment number atomically. Safe
	// under concurrent batches.
	NextNumber(ctx context.Context) (string, error)
}

type ImportReportRepository interface {
	Create(ctx context.Context, report *domain.ImportReport) error
	Update(ctx context.Context, report *domain.ImportReport) error
	GetByUploadID(ctx context.Context, uploadID string) (*domain.ImportReport, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.ImportReport, int32, error)
}

// Repositories bundles the aggregate repositories so transactional code
// paths receive a consistent, tx-bound set.
type Repositories struct {
	Assets        AssetRepository
	Organizations OrganizationRepository
	Allotments    AllotmentRepository
	ImportReports ImportReportRepository
}

// TxManager runs fn with repositories bound to a single database
// transaction. The transaction commits when fn returns nil and rolls back
// otherwise, so the Allotment/Asset/Organization writes of one lifecycle
// operation land together or not at all.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}
