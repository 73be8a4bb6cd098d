package botdetection

type Severity string

const (
	SeverityVeryUnlikely Severity = "very_unlikely"
	SeverityLow          Severity = "low"
	SeverityModerate     Severity = "moderate"
	SeverityHigh         Severity = "high"
	SeverityVeryLikely   Severity = "very_likely"
)

// SeverityOf buckets a score into half-open bands of width 0.2.
func SeverityOf(score float64) Severity {
	switch {
	case score < 0.2:
		return SeverityVeryUnlikely
	case score < 0.4:
		return SeverityLow
	case score < 0.6:
		return SeverityModerate
	case score < 0.8:
		return SeverityHigh
	default:
		return SeverityVeryLikely
	}
}

func (s Severity) Label() string {
	switch s {
	case SeverityVeryUnlikely:
		return "Very unlikely to be a bot"
	case SeverityLow:
		return "Low bot probability"
	case SeverityModerate:
		return "Moderate bot probability"
	case SeverityHigh:
		return "High bot probability"
	default:
		return "Very likely to be a bot"
	}
}

// Color is the display class the web client renders the severity with.
func (s Severity) Color() string {
	switch s {
	case SeverityVeryUnlikely:
		return "text-green-600"
	case SeverityLow:
		return "text-yellow-600"
	case SeverityModerate:
		return "text-orange-600"
	case SeverityHigh:
		return "text-red-600"
	default:
		return "text-red-800"
	}
}

func Description(score float64) string {
	return SeverityOf(score).Label()
}
