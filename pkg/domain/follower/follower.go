package follower

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follower is an account following a user on the connected platform.
// BotScore is a heuristic estimate and is recomputed on every sync.
type Follower struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	PlatformID     string    `json:"platformId" gorm:"type:text;not null"`
	Username       string    `json:"username" gorm:"type:text;not null"`
	DisplayName    string    `json:"displayName,omitempty" gorm:"type:text"`
	Bio            string    `json:"bio,omitempty" gorm:"type:text"`
	AvatarURL      string    `json:"avatarUrl,omitempty" gorm:"column:avatar_url;type:text"`
	FollowerCount  int       `json:"followerCount" gorm:"not null;default:0"`
	FollowingCount int       `json:"followingCount" gorm:"not null;default:0"`
	IsVerified     bool      `json:"isVerified" gorm:"not null;default:false"`
	IsPrivate      bool      `json:"isPrivate" gorm:"not null;default:false"`
	IsMutual       bool      `json:"isMutual" gorm:"not null;default:false"`
	BotScore       float64   `json:"botScore" gorm:"not null;default:0"`
	LastAnalyzed   time.Time `json:"lastAnalyzed"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (f *Follower) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	return nil
}

func (f *Follower) BeforeUpdate(tx *gorm.DB) error {
	f.UpdatedAt = time.Now()
	return nil
}

func (f *Follower) TableName() string {
	return "followers"
}

// FollowingRatio returns followerCount/followingCount and false when the
// account follows nobody.
func (f *Follower) FollowingRatio() (float64, bool) {
	if f.FollowingCount == 0 {
		return 0, false
	}
	return float64(f.FollowerCount) / float64(f.FollowingCount), true
}
