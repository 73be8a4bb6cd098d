package settings

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	domainSettings "github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Update is a partial settings change. Nil fields keep their stored value.
type Update struct {
	MinFollowerThreshold *int     `json:"minFollowerThreshold,omitempty"`
	MaxFollowingRatio    *float64 `json:"maxFollowingRatio,omitempty"`
	BotDetectionEnabled  *bool    `json:"botDetectionEnabled,omitempty"`
	MutualOnlyMode       *bool    `json:"mutualOnlyMode,omitempty"`
	EmailNotifications   *bool    `json:"emailNotifications,omitempty"`
	RemovalConfirmations *bool    `json:"removalConfirmations,omitempty"`
	DataRetentionDays    *int     `json:"dataRetentionDays,omitempty"`
}

func (u Update) IsEmpty() bool {
	return u.MinFollowerThreshold == nil &&
		u.MaxFollowingRatio == nil &&
		u.BotDetectionEnabled == nil &&
		u.MutualOnlyMode == nil &&
		u.EmailNotifications == nil &&
		u.RemovalConfirmations == nil &&
		u.DataRetentionDays == nil
}

func (u Update) applyTo(s *domainSettings.Settings) {
	if u.MinFollowerThreshold != nil {
		s.MinFollowerThreshold = *u.MinFollowerThreshold
	}
	if u.MaxFollowingRatio != nil {
		s.MaxFollowingRatio = *u.MaxFollowingRatio
	}
	if u.BotDetectionEnabled != nil {
		s.BotDetectionEnabled = *u.BotDetectionEnabled
	}
	if u.MutualOnlyMode != nil {
		s.MutualOnlyMode = *u.MutualOnlyMode
	}
	if u.EmailNotifications != nil {
		s.EmailNotifications = *u.EmailNotifications
	}
	if u.RemovalConfirmations != nil {
		s.RemovalConfirmations = *u.RemovalConfirmations
	}
	if u.DataRetentionDays != nil {
		s.DataRetentionDays = *u.DataRetentionDays
	}
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=settings_service_mock.go --case=underscore --with-expecter
type Service interface {
	// Get returns the stored settings of userID, or the defaults when the
	// user never saved any.
	Get(ctx context.Context, userID uuid.UUID) (*domainSettings.Settings, error)
	Update(ctx context.Context, userID uuid.UUID, update Update) (*domainSettings.Settings, error)
	EnsureDefaults(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	logger *logrus.Logger
	repo   domainSettings.Repository
}

func NewService(logger *logrus.Logger, repo domainSettings.Repository) Service {
	return &service{
		logger: logger,
		repo:   repo,
	}
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*domainSettings.Settings, error) {
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return domainSettings.Defaults(userID), nil
		}
		return nil, err
	}
	return stored, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, update Update) (*domainSettings.Settings, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	next := *current
	update.applyTo(&next)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, &next); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to save settings")
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return &next, nil
}

func (s *service) EnsureDefaults(ctx context.Context, userID uuid.UUID) error {
	_, err := s.repo.Get(ctx, userID)
	if err == nil {
		return nil
	}
	if !domain.IsNotFoundError(err) {
		return err
	}
	return s.repo.Upsert(ctx, domainSettings.Defaults(userID))
}
