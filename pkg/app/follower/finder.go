package follower

import (
	"context"
	"math"

	domainFollower "github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/google/uuid"
)

//go:generate mockery --name=Finder --dir=. --output=./mocks --filename=follower_finder_mock.go --case=underscore --with-expecter
type Finder interface {
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]domainFollower.Follower, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domainFollower.Follower, error)
}

type finder struct {
	repo domainFollower.Repository
}

func NewFinder(repo domainFollower.Repository) Finder {
	return &finder{
		repo: repo,
	}
}

// List pages through the stored followers of userID. page is 1-based.
func (f *finder) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]domainFollower.Follower, int64, error) {
	return f.repo.List(ctx, userID, Offset(page, limit), limit)
}

func (f *finder) Get(ctx context.Context, userID, id uuid.UUID) (*domainFollower.Follower, error) {
	return f.repo.Get(ctx, userID, id)
}

// Offset converts a 1-based page into a row offset. Offsets that do not
// fit in an int saturate at math.MaxInt, which is past any result set.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
