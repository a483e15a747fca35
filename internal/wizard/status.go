package wizard

// PlacementStatus tracks the review step's order placement protocol.
// The only recovery edge is FAILED -> PLACING (a full retry of both
// remote calls); SUCCEEDED is terminal.
type PlacementStatus string

const (
	PlacementIdle      PlacementStatus = "IDLE"
	PlacementPlacing   PlacementStatus = "PLACING"
	PlacementFailed    PlacementStatus = "FAILED"
	PlacementSucceeded PlacementStatus = "SUCCEEDED"
)

func (s PlacementStatus) IsTerminal() bool {
	return s == PlacementSucceeded
}

// String representation (for logging)
func (s PlacementStatus) String() string {
	return string(s)
}

func canPlace(s PlacementStatus) bool {
	return s == PlacementIdle || s == PlacementFailed
}

// PlacementState is the externally visible placement status plus the
// human-readable failure message, if any.
type PlacementState struct {
	Status  PlacementStatus `json:"status"`
	Message string          `json:"message,omitempty"`
}
