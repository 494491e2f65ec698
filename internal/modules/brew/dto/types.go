package dto

import "time"

type CreateInput struct {
	Name  string
	Style string
}

// PhaseInput carries a phase form. Nil fields were not edited.
type PhaseInput struct {
	Notes              *string
	Temperature        *string
	InitialTemperature *string
	FinalTemperature   *string
	TempUnit           *string
	Gravity            *string
	PreBoilGravity     *string
	PostBoilGravity    *string
	PreBoilVolume      *string
	PostBoilVolume     *string
	WaterBottlesCount  *string
	BottleVolume       *string
}

type SavePhaseInput struct {
	SessionID string
	Phase     string
	Edit      PhaseInput
}

type TransitionInput struct {
	SessionID string
	// FromPhase is the phase the caller is looking at. Empty means the
	// persisted current phase.
	FromPhase string
	Edit      PhaseInput
}

type PhaseDataOutput struct {
	Phase              string
	Notes              string
	Temperature        string
	InitialTemperature string
	FinalTemperature   string
	TempUnit           string
	Gravity            string
	PreBoilGravity     string
	PostBoilGravity    string
	PreBoilVolume      string
	PostBoilVolume     string
	WaterBottlesCount  int
	BottleVolume       string
	TotalWater         string
	Converted          map[string]string
	Recorded           bool
	// Fields is the form layout for the phase with display values filled in.
	Fields []FieldOutput
}

type FieldOutput struct {
	Key         string
	Label       string
	Value       string
	Temperature bool
}

type SessionOutput struct {
	ID           string
	Name         string
	Style        string
	CreatedAt    time.Time
	CurrentPhase string
	Description  string
	Step         int
	TotalSteps   int
	Progress     float64
	Completed    bool
	Phases       []PhaseDataOutput
	TimerRunning bool
}

type TransitionOutput struct {
	Session    SessionOutput
	From       string
	To         string
	Transition bool
}

type ImportInput struct {
	Path string
}

type ImportOutput struct {
	Imported int
	Skipped  []string
}

type ExportInput struct {
	SessionID string
}

type ExportOutput struct {
	SessionID string
	Path      string
}
