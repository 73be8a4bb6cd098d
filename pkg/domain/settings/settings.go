package settings

import (
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultMinFollowerThreshold = 100
	DefaultMaxFollowingRatio    = 10.0
	DefaultDataRetentionDays    = 30

	MaxFollowerThreshold = 10_000_000
	MaxFollowingRatio    = 1000.0
	MinRetentionDays     = 1
	MaxRetentionDays     = 365
)

type Settings struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex"`
	MinFollowerThreshold int       `json:"minFollowerThreshold" gorm:"not null"`
	MaxFollowingRatio    float64   `json:"maxFollowingRatio" gorm:"not null"`
	BotDetectionEnabled  bool      `json:"botDetectionEnabled" gorm:"not null"`
	MutualOnlyMode       bool      `json:"mutualOnlyMode" gorm:"not null"`
	EmailNotifications   bool      `json:"emailNotifications" gorm:"not null"`
	RemovalConfirmations bool      `json:"removalConfirmations" gorm:"not null"`
	DataRetentionDays    int       `json:"dataRetentionDays" gorm:"not null"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func Defaults(userID uuid.UUID) *Settings {
	return &Settings{
		UserID:               userID,
		MinFollowerThreshold: DefaultMinFollowerThreshold,
		MaxFollowingRatio:    DefaultMaxFollowingRatio,
		BotDetectionEnabled:  true,
		RemovalConfirmations: true,
		DataRetentionDays:    DefaultDataRetentionDays,
	}
}

func (s *Settings) Validate() error {
	if s.MinFollowerThreshold < 0 || s.MinFollowerThreshold > MaxFollowerThreshold {
		return domain.NewValidationError("minFollowerThreshold must be between 0 and %d", MaxFollowerThreshold)
	}
	if !(s.MaxFollowingRatio >= 0 && s.MaxFollowingRatio <= MaxFollowingRatio) {
		return domain.NewValidationError("maxFollowingRatio must be between 0 and %g", MaxFollowingRatio)
	}
	if s.DataRetentionDays < MinRetentionDays || s.DataRetentionDays > MaxRetentionDays {
		return domain.NewValidationError("dataRetentionDays must be between %d and %d", MinRetentionDays, MaxRetentionDays)
	}
	return nil
}

func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func (s *Settings) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}

func (s *Settings) TableName() string {
	return "user_settings"
}
