package filter

import (
	"fmt"

	"github.com/NeuralTrust/FollowerManager/pkg/app/botdetection"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
)

// BotGate chooses how the bot predicate decides.
type BotGate string

const (
	// BotGateRecompute runs the detector on every record.
	BotGateRecompute BotGate = "recompute"
	// BotGateStored trusts the persisted BotScore, which may be stale.
	BotGateStored BotGate = "stored"
)

func ParseBotGate(s string) (BotGate, error) {
	switch BotGate(s) {
	case "", BotGateRecompute:
		return BotGateRecompute, nil
	case BotGateStored:
		return BotGateStored, nil
	}
	return "", fmt.Errorf("unknown bot gate %q", s)
}

//go:generate mockery --name=Pipeline --dir=. --output=./mocks --filename=pipeline_mock.go --case=underscore
type Pipeline interface {
	Apply(records []follower.Follower, cfg Config) []follower.Follower
	Matches(f *follower.Follower, cfg Config) bool
}

type pipeline struct {
	detector botdetection.Detector
	gate     BotGate
}

func NewPipeline(detector botdetection.Detector, gate BotGate) Pipeline {
	if gate == "" {
		gate = BotGateRecompute
	}
	return &pipeline{
		detector: detector,
		gate:     gate,
	}
}

// Apply returns the records that pass every enabled predicate, in input order.
// The input slice is not modified.
func (p *pipeline) Apply(records []follower.Follower, cfg Config) []follower.Follower {
	out := make([]follower.Follower, 0, len(records))
	for i := range records {
		if p.Matches(&records[i], cfg) {
			out = append(out, records[i])
		}
	}
	return out
}

func (p *pipeline) Matches(f *follower.Follower, cfg Config) bool {
	if cfg.NonMutualOnly && f.IsMutual {
		return false
	}
	if f.FollowerCount < cfg.MinFollowerThreshold {
		return false
	}
	if ratio, ok := f.FollowingRatio(); ok && ratio > cfg.MaxFollowingRatio {
		return false
	}
	if cfg.BotDetectionEnabled && p.isBot(f) {
		return false
	}
	if cfg.VerifiedOnly && !f.IsVerified {
		return false
	}
	if cfg.PrivateAccountsOnly && !f.IsPrivate {
		return false
	}
	return true
}

func (p *pipeline) isBot(f *follower.Follower) bool {
	if p.gate == BotGateStored {
		return f.BotScore > botdetection.BotThreshold
	}
	return p.detector.Detect(f).IsBot
}
