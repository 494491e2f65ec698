package dto

type StatusOutput struct {
	SessionID        string
	Phase            string
	DurationMinutes  int
	RemainingSeconds int
	Running          bool
	// EndTime is epoch milliseconds, zero while paused.
	EndTime int64
	Display string
	Expired bool
	Visible bool
}

type DurationInput struct {
	SessionID string
	// Minutes is raw user input; it is coerced to a non-negative integer.
	Minutes string
}
