package request

import (
	appSettings "github.com/NeuralTrust/FollowerManager/pkg/app/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
)

const invalidSettings = "Invalid settings data"

type UpdateSettingsRequest struct {
	MinFollowerThreshold *int     `json:"minFollowerThreshold"`
	MaxFollowingRatio    *float64 `json:"maxFollowingRatio"`
	BotDetectionEnabled  *bool    `json:"botDetectionEnabled"`
	MutualOnlyMode       *bool    `json:"mutualOnlyMode"`
	EmailNotifications   *bool    `json:"emailNotifications"`
	RemovalConfirmations *bool    `json:"removalConfirmations"`
	DataRetentionDays    *int     `json:"dataRetentionDays"`
}

func (r UpdateSettingsRequest) Validate() error {
	verr := &ValidationError{Message: invalidSettings}
	if r.MinFollowerThreshold != nil {
		if v := *r.MinFollowerThreshold; v < 0 || v > settings.MaxFollowerThreshold {
			verr.add("minFollowerThreshold", "must be between 0 and %d", settings.MaxFollowerThreshold)
		}
	}
	if r.MaxFollowingRatio != nil {
		if v := *r.MaxFollowingRatio; !(v >= 0 && v <= settings.MaxFollowingRatio) {
			verr.add("maxFollowingRatio", "must be between 0 and %g", settings.MaxFollowingRatio)
		}
	}
	if r.DataRetentionDays != nil {
		if v := *r.DataRetentionDays; v < settings.MinRetentionDays || v > settings.MaxRetentionDays {
			verr.add("dataRetentionDays", "must be between %d and %d", settings.MinRetentionDays, settings.MaxRetentionDays)
		}
	}
	return verr.orNil()
}

func (r UpdateSettingsRequest) ToUpdate() appSettings.Update {
	return appSettings.Update{
		MinFollowerThreshold: r.MinFollowerThreshold,
		MaxFollowingRatio:    r.MaxFollowingRatio,
		BotDetectionEnabled:  r.BotDetectionEnabled,
		MutualOnlyMode:       r.MutualOnlyMode,
		EmailNotifications:   r.EmailNotifications,
		RemovalConfirmations: r.RemovalConfirmations,
		DataRetentionDays:    r.DataRetentionDays,
	}
}
