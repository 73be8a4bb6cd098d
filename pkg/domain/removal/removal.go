package removal

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Removal is one entry of a user's removal history.
type Removal struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID   `json:"userId" gorm:"type:uuid;not null;index"`
	FollowerIDs FollowerIDs `json:"followerIds" gorm:"type:uuid[]"`
	Reason      string      `json:"reason" gorm:"type:text;not null"`
	Count       int         `json:"count" gorm:"not null"`
	Timestamp   time.Time   `json:"timestamp" gorm:"not null;index"`
}

func (r *Removal) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	return nil
}

func (r *Removal) TableName() string {
	return "removals"
}

// FollowerIDs maps to a postgres uuid[] column.
type FollowerIDs []uuid.UUID

func (ids FollowerIDs) Value() (driver.Value, error) {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return pq.Array(strs).Value()
}

func (ids *FollowerIDs) Scan(src interface{}) error {
	var strs []string
	if err := pq.Array(&strs).Scan(src); err != nil {
		return err
	}
	parsed := make(FollowerIDs, 0, len(strs))
	for _, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid follower id %q: %w", s, err)
		}
		parsed = append(parsed, id)
	}
	*ids = parsed
	return nil
}
