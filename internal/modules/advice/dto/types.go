package dto

type AskInput struct {
	SessionID string
	Question  string
	// Notes overrides the stored notes of the current phase, e.g. unsaved
	// text from an open form.
	Notes *string
}

type AskOutput struct {
	SessionID string
	Phase     string
	Text      string
	Fallback  bool
	Provider  string
}

type DoctorOutput struct {
	Provider string
	Ready    bool
	Name     string
	Version  string
	Model    string
	Error    string
}
