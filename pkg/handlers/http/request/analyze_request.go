package request

import (
	"github.com/NeuralTrust/FollowerManager/pkg/app/filter"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
)

const invalidFilter = "Invalid filter parameters"

// AnalyzeRequest is a filter config where omitted fields take the defaults.
type AnalyzeRequest struct {
	NonMutualOnly        *bool    `json:"nonMutualOnly"`
	MinFollowerThreshold *int     `json:"minFollowerThreshold"`
	MaxFollowingRatio    *float64 `json:"maxFollowingRatio"`
	BotDetectionEnabled  *bool    `json:"botDetectionEnabled"`
	UnknownContactsOnly  *bool    `json:"unknownContactsOnly"`
	VerifiedOnly         *bool    `json:"verifiedOnly"`
	PrivateAccountsOnly  *bool    `json:"privateAccountsOnly"`
}

func (r AnalyzeRequest) Validate() error {
	verr := &ValidationError{Message: invalidFilter}
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
	return verr.orNil()
}

func (r AnalyzeRequest) ToConfig() filter.Config {
	cfg := filter.DefaultConfig()
	if r.NonMutualOnly != nil {
		cfg.NonMutualOnly = *r.NonMutualOnly
	}
	if r.MinFollowerThreshold != nil {
		cfg.MinFollowerThreshold = *r.MinFollowerThreshold
	}
	if r.MaxFollowingRatio != nil {
		cfg.MaxFollowingRatio = *r.MaxFollowingRatio
	}
	if r.BotDetectionEnabled != nil {
		cfg.BotDetectionEnabled = *r.BotDetectionEnabled
	}
	if r.UnknownContactsOnly != nil {
		cfg.UnknownContactsOnly = *r.UnknownContactsOnly
	}
	if r.VerifiedOnly != nil {
		cfg.VerifiedOnly = *r.VerifiedOnly
	}
	if r.PrivateAccountsOnly != nil {
		cfg.PrivateAccountsOnly = *r.PrivateAccountsOnly
	}
	return cfg
}
