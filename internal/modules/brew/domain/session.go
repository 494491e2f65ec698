package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const SchemaVersion = 1

// CollectionKey is the store key holding the whole session collection.
const CollectionKey = "brewlog_sessions"

// Session is one brew-tracking record spanning all phases. Its JSON form is the
// persisted schema; field names match the original local-storage records so
// exported collections can be imported unchanged.
type Session struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Style        string              `json:"style"`
	CreatedAt    time.Time           `json:"createdAt"`
	CurrentPhase Phase               `json:"currentPhase"`
	Data         map[Phase]PhaseData `json:"data"`

	TimerEndTime          *int64 `json:"timerEndTime,omitempty"`
	TimerRemainingSeconds *int   `json:"timerRemainingSeconds,omitempty"`
	TimerDurationMinutes  *int   `json:"timerDurationMinutes,omitempty"`
	TimerIsRunning        bool   `json:"timerIsRunning,omitempty"`
}

func NewSession(id, name, style string, createdAt time.Time) (Session, error) {
	s := Session{
		ID:           strings.TrimSpace(id),
		Name:         strings.TrimSpace(name),
		Style:        strings.TrimSpace(style),
		CreatedAt:    createdAt,
		CurrentPhase: FirstPhase(),
		Data:         map[Phase]PhaseData{},
	}
	if s.Name == "" {
		return Session{}, fmt.Errorf("name is required")
	}
	if s.Style == "" {
		return Session{}, fmt.Errorf("style is required")
	}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if err := s.CurrentPhase.Validate(); err != nil {
		return err
	}
	for phase := range s.Data {
		if err := phase.Validate(); err != nil {
			return fmt.Errorf("data: %w", err)
		}
	}
	return nil
}

// Normalize repairs a decoded record so it satisfies the session invariants.
// Each repair is described in the returned notes.
func (s Session) Normalize() (Session, []string) {
	out := s.Clone()
	var notes []string
	if err := out.CurrentPhase.Validate(); err != nil {
		notes = append(notes, fmt.Sprintf("current phase %q reset to %s", string(out.CurrentPhase), FirstPhase()))
		out.CurrentPhase = FirstPhase()
	}
	for phase := range out.Data {
		if phase.Validate() != nil {
			notes = append(notes, fmt.Sprintf("dropped data for unknown phase %q", string(phase)))
			delete(out.Data, phase)
		}
	}
	if out.TimerRemainingSeconds != nil && *out.TimerRemainingSeconds < 0 {
		notes = append(notes, "negative remaining seconds clamped to 0")
		zero := 0
		out.TimerRemainingSeconds = &zero
	}
	if out.TimerDurationMinutes != nil && *out.TimerDurationMinutes < 0 {
		notes = append(notes, "negative duration clamped to 0")
		zero := 0
		out.TimerDurationMinutes = &zero
	}
	return out, notes
}

// PhaseData returns the readings for p. ok is false when p was never recorded.
func (s Session) PhaseData(p Phase) (PhaseData, bool) {
	d, ok := s.Data[p]
	return d, ok
}

// ApplyEdit overlays e onto the readings of phase p.
func (s *Session) ApplyEdit(p Phase, e PhaseEdit) {
	if s.Data == nil {
		s.Data = map[Phase]PhaseData{}
	}
	current := s.Data[p]
	s.Data[p] = current.Apply(e)
}

// RecordedPhases lists phases with data, in brewing order.
func (s Session) RecordedPhases() []Phase {
	out := make([]Phase, 0, len(s.Data))
	for _, p := range PhaseOrder {
		if _, ok := s.Data[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy safe to mutate.
func (s Session) Clone() Session {
	out := s
	out.Data = make(map[Phase]PhaseData, len(s.Data))
	for p, d := range s.Data {
		out.Data[p] = d.clone()
	}
	if s.TimerEndTime != nil {
		v := *s.TimerEndTime
		out.TimerEndTime = &v
	}
	if s.TimerRemainingSeconds != nil {
		v := *s.TimerRemainingSeconds
		out.TimerRemainingSeconds = &v
	}
	if s.TimerDurationMinutes != nil {
		v := *s.TimerDurationMinutes
		out.TimerDurationMinutes = &v
	}
	return out
}

// LeadingInt parses the leading integer of raw the way a lenient form input
// does: "12", "12.7" and "12abc" give 12; anything without leading digits gives 0.
func LeadingInt(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	start := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return n
}

func atoi(raw string) int { return LeadingInt(raw) }

func itoa(n int) string { return strconv.Itoa(n) }
