package sound

// LoadState tracks one asset through loading. Transitions only move forward:
// Pending -> Loading -> Ready | Failed.
type LoadState int32

const (
	StatePending LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether loading has finished, successfully or not.
func (s LoadState) Terminal() bool {
	return s == StateReady || s == StateFailed
}
