package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
)

const (
	DefaultMinFollowerThreshold = settings.DefaultMinFollowerThreshold
	DefaultMaxFollowingRatio    = settings.DefaultMaxFollowingRatio
)

// Config selects which followers survive the pipeline. Every enabled
// predicate must pass. UnknownContactsOnly is accepted and reported but has
// no predicate yet.
type Config struct {
	NonMutualOnly        bool    `json:"nonMutualOnly"`
	MinFollowerThreshold int     `json:"minFollowerThreshold"`
	MaxFollowingRatio    float64 `json:"maxFollowingRatio"`
	BotDetectionEnabled  bool    `json:"botDetectionEnabled"`
	UnknownContactsOnly  bool    `json:"unknownContactsOnly"`
	VerifiedOnly         bool    `json:"verifiedOnly"`
	PrivateAccountsOnly  bool    `json:"privateAccountsOnly"`
}

func DefaultConfig() Config {
	return Config{
		MinFollowerThreshold: DefaultMinFollowerThreshold,
		MaxFollowingRatio:    DefaultMaxFollowingRatio,
		BotDetectionEnabled:  true,
	}
}

// FromSettings seeds a config from a user's stored preferences.
func FromSettings(s *settings.Settings) Config {
	cfg := DefaultConfig()
	if s == nil {
		return cfg
	}
	cfg.NonMutualOnly = s.MutualOnlyMode
	cfg.MinFollowerThreshold = s.MinFollowerThreshold
	cfg.MaxFollowingRatio = s.MaxFollowingRatio
	cfg.BotDetectionEnabled = s.BotDetectionEnabled
	return cfg
}

// Validate rejects out-of-range thresholds. The pipeline never clamps.
func (c Config) Validate() error {
	if c.MinFollowerThreshold < 0 || c.MinFollowerThreshold > settings.MaxFollowerThreshold {
		return domain.NewValidationError("minFollowerThreshold must be between 0 and %d, got %d",
			settings.MaxFollowerThreshold, c.MinFollowerThreshold)
	}
	if !(c.MaxFollowingRatio >= 0 && c.MaxFollowingRatio <= settings.MaxFollowingRatio) {
		return domain.NewValidationError("maxFollowingRatio must be between 0 and %g, got %v",
			settings.MaxFollowingRatio, c.MaxFollowingRatio)
	}
	return nil
}

func (c Config) IsActive() bool {
	return c.NonMutualOnly ||
		c.MinFollowerThreshold > 0 ||
		c.MaxFollowingRatio < settings.MaxFollowingRatio ||
		c.BotDetectionEnabled ||
		c.UnknownContactsOnly ||
		c.VerifiedOnly ||
		c.PrivateAccountsOnly
}

// Summary renders the enabled filters for display.
func (c Config) Summary() string {
	var active []string
	if c.NonMutualOnly {
		active = append(active, "Non-mutual only")
	}
	if c.MinFollowerThreshold > 0 {
		active = append(active, fmt.Sprintf("Min %d followers", c.MinFollowerThreshold))
	}
	if c.MaxFollowingRatio < settings.MaxFollowingRatio {
		active = append(active, fmt.Sprintf("Max %s:1 ratio", strconv.FormatFloat(c.MaxFollowingRatio, 'f', -1, 64)))
	}
	if c.BotDetectionEnabled {
		active = append(active, "Bot detection")
	}
	if c.UnknownContactsOnly {
		active = append(active, "Unknown contacts")
	}
	if c.VerifiedOnly {
		active = append(active, "Verified only")
	}
	if c.PrivateAccountsOnly {
		active = append(active, "Private accounts")
	}
	if len(active) == 0 {
		return "No filters applied"
	}
	return "Active filters: " + strings.Join(active, ", ")
}
