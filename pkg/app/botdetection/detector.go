package botdetection

import (
	"math"
	"regexp"
	"strings"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
)

// BotThreshold is the score above which an account is classified as a bot.
const BotThreshold = 0.6

const (
	usernameWeight     = 0.3
	bioPatternWeight   = 0.2
	bioKeywordWeight   = 0.1
	bioEmojiWeight     = 0.1
	bioCap             = 0.4
	maxBioEmojis       = 5
	highRatioWeight    = 0.3
	lowRatioWeight     = 0.2
	activityWeight     = 0.2
	avatarWeight       = 0.2
	unverifiedWeight   = 0.1
	unverifiedMinReach = 10000
)

const (
	ReasonUsername   = "Suspicious username pattern"
	ReasonBio        = "Suspicious bio content"
	ReasonRatio      = "Unusual follower/following ratio"
	ReasonActivity   = "Suspicious account age vs activity"
	ReasonAvatar     = "Default or suspicious avatar"
	ReasonUnverified = "High follower count without verification"
)

var (
	usernamePatterns = compileAll(
		`(?i)^[a-z]+\d{4,}$`,
		`(?i)^\d+[a-z]+\d+$`,
		`(?i)^[a-z]{2,}\d{2,}[a-z]{2,}$`,
		`(?i)^[a-z]+\d+[a-z]+$`,
		`(?i)^[a-z]{1,2}\d{6,}$`,
		`(?i)^\d{8,}$`,
		`(?i)^[a-z]+\d{3,}[a-z]+\d{3,}$`,
	)

	bioPatterns = compileAll(
		`(?i)follow.*back`,
		`(?i)follow.*me`,
		`(?i)dm.*me`,
		`(?i)link.*bio`,
		`(?i)check.*bio`,
		`(?i)click.*link`,
		`(?i)promote.*your`,
		`(?i)buy.*followers`,
		`(?i)increase.*followers`,
	)

	avatarPatterns = compileAll(
		`(?i)default.*avatar`,
		`(?i)profile.*default`,
		`(?i)avatar.*default`,
	)

	emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)

	suspiciousKeywords = []string{
		"bot", "spam", "fake", "promote", "marketing", "business", "dm", "link", "bio",
		"followback", "f4f", "l4l", "follow4follow", "like4like",
	}
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Result is the outcome of scoring one follower. Reasons holds one entry per
// heuristic that contributed, in evaluation order.
type Result struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
	IsBot   bool     `json:"isBot"`
}

//go:generate mockery --name=Detector --dir=. --output=./mocks --filename=detector_mock.go --case=underscore
type Detector interface {
	Detect(f *follower.Follower) Result
}

type detector struct{}

// NewDetector returns the heuristic scorer. It is stateless and safe for
// concurrent use.
func NewDetector() Detector {
	return &detector{}
}

func (d *detector) Detect(f *follower.Follower) Result {
	var (
		score   float64
		reasons = make([]string, 0, 6)
	)

	add := func(contribution float64, reason string) {
		if contribution > 0 {
			score += contribution
			reasons = append(reasons, reason)
		}
	}

	add(usernameScore(f.Username), ReasonUsername)
	if f.Bio != "" {
		add(bioScore(f.Bio), ReasonBio)
	}
	add(ratioScore(f), ReasonRatio)
	add(activityScore(f), ReasonActivity)
	add(avatarScore(f.AvatarURL), ReasonAvatar)
	add(verificationScore(f), ReasonUnverified)

	score = math.Min(score, 1.0)
	return Result{
		Score:   score,
		Reasons: reasons,
		IsBot:   score > BotThreshold,
	}
}

func usernameScore(username string) float64 {
	for _, p := range usernamePatterns {
		if p.MatchString(username) {
			return usernameWeight
		}
	}
	return 0
}

func bioScore(bio string) float64 {
	var score float64
	for _, p := range bioPatterns {
		if p.MatchString(bio) {
			score += bioPatternWeight
		}
	}

	lower := strings.ToLower(bio)
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			score += bioKeywordWeight
		}
	}

	if len(emojiPattern.FindAllStringIndex(bio, -1)) > maxBioEmojis {
		score += bioEmojiWeight
	}

	return math.Min(score, bioCap)
}

func ratioScore(f *follower.Follower) float64 {
	ratio, ok := f.FollowingRatio()
	if !ok {
		return 0
	}
	switch {
	case ratio > 50:
		return highRatioWeight
	case ratio < 0.01 && f.FollowingCount > 1000:
		return lowRatioWeight
	case f.FollowingCount > f.FollowerCount*10 && f.FollowingCount > 500:
		return lowRatioWeight
	}
	return 0
}

// activityScore stands in for an account-age check; the platform profile
// carries no creation date so it flags high activity on both sides instead.
func activityScore(f *follower.Follower) float64 {
	if f.FollowerCount > 1000 && f.FollowingCount > 500 {
		return activityWeight
	}
	return 0
}

func avatarScore(avatarURL string) float64 {
	if avatarURL == "" {
		return avatarWeight
	}
	for _, p := range avatarPatterns {
		if p.MatchString(avatarURL) {
			return avatarWeight
		}
	}
	return 0
}

func verificationScore(f *follower.Follower) float64 {
	if !f.IsVerified && f.FollowerCount > unverifiedMinReach {
		return unverifiedWeight
	}
	return 0
}
