package ports

import (
	"context"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

// AccountDirectory is the persistence collaborator the auth core consumes.
// Lookups return domain.ErrNotFound when no account matches; Insert returns
// domain.ErrDuplicateAccount when the backing unique email index rejects the
// write. Any other failure wraps domain.ErrDependencyUnavailable.
type AccountDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) (string, error)
}

// ContractorFilter narrows contractor browsing.
type ContractorFilter struct {
	Skills    []string // any-of match
	MinRating float64  // 0 = no lower bound
	MaxRate   float64  // 0 = no upper bound
	Limit     int
}

// AccountFilter narrows the admin account listing.
type AccountFilter struct {
	Role  domain.Role // empty = all roles
	Limit int
}

// AccountRepository extends the directory with the profile operations the
// marketplace handlers need.
type AccountRepository interface {
	AccountDirectory
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
	ListContractors(ctx context.Context, filter ContractorFilter) ([]*domain.Account, error)
	UpdateContractorProfile(ctx context.Context, id string, profile domain.ContractorProfile) (*domain.Account, error)
	IncrementCompletedProjects(ctx context.Context, id string) error
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}
