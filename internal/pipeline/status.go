package pipeline

// Status is the single switch governing which operations are allowed.
// Exactly one status holds at any time.
type Status int

const (
	StatusIdle Status = iota
	StatusAnalyzing
	StatusReady
	StatusProducing
	StatusComplete
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAnalyzing:
		return "analyzing"
	case StatusReady:
		return "ready"
	case StatusProducing:
		return "producing"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailureReason says which stage a failed attempt died in.
type FailureReason int

const (
	FailureNone FailureReason = iota
	FailureAnalysis
	FailureProduction
)

func (r FailureReason) String() string {
	switch r {
	case FailureNone:
		return ""
	case FailureAnalysis:
		return "analysis"
	case FailureProduction:
		return "production"
	default:
		return "unknown"
	}
}

// busy reports whether an external operation is in flight. While busy, every
// mutating call is rejected rather than queued.
func (s Status) busy() bool {
	return s == StatusAnalyzing || s == StatusProducing
}
