package domain

import (
	"fmt"
	"strings"
)

type Phase string

const (
	PhaseMashing      Phase = "Mashing"
	PhaseSparging     Phase = "Sparging"
	PhaseBoiling      Phase = "Boiling"
	PhaseChilling     Phase = "Chilling"
	PhaseFermentation Phase = "Fermentation"
	PhaseSecondary    Phase = "Secondary"
	PhaseBottling     Phase = "Bottling"
	PhaseCompleted    Phase = "Completed"
)

// PhaseOrder is the fixed brewing sequence. Completed is terminal.
var PhaseOrder = [...]Phase{
	PhaseMashing,
	PhaseSparging,
	PhaseBoiling,
	PhaseChilling,
	PhaseFermentation,
	PhaseSecondary,
	PhaseBottling,
	PhaseCompleted,
}

var phaseDescriptions = map[Phase]string{
	PhaseMashing:      "Soaking grains in hot water to convert starch to sugar.",
	PhaseSparging:     "Rinsing grains to extract remaining sugars.",
	PhaseBoiling:      "Boiling wort and adding hops.",
	PhaseChilling:     "Rapidly cooling the wort.",
	PhaseFermentation: "Yeast converting sugar to alcohol.",
	PhaseSecondary:    "Conditioning and clarifying.",
	PhaseBottling:     "Carbonating and packaging.",
	PhaseCompleted:    "Brew day finished!",
}

func FirstPhase() Phase { return PhaseOrder[0] }

func LastPhase() Phase { return PhaseOrder[len(PhaseOrder)-1] }

// ParsePhase accepts a phase name in any letter case.
func ParsePhase(raw string) (Phase, error) {
	raw = strings.TrimSpace(raw)
	for _, p := range PhaseOrder {
		if strings.EqualFold(string(p), raw) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown phase %q", raw)
}

func (p Phase) Validate() error {
	if p.Index() < 0 {
		return fmt.Errorf("unknown phase %q", string(p))
	}
	return nil
}

// Index is the position of p in PhaseOrder, or -1 for an unknown phase.
func (p Phase) Index() int {
	for i, candidate := range PhaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the successor of p. ok is false at the terminal phase.
func (p Phase) Next() (Phase, bool) {
	idx := p.Index()
	if idx < 0 || idx >= len(PhaseOrder)-1 {
		return p, false
	}
	return PhaseOrder[idx+1], true
}

// Prev returns the predecessor of p. ok is false at the first phase.
func (p Phase) Prev() (Phase, bool) {
	idx := p.Index()
	if idx <= 0 {
		return p, false
	}
	return PhaseOrder[idx-1], true
}

func (p Phase) Terminal() bool { return p == LastPhase() }

func (p Phase) Description() string { return phaseDescriptions[p] }

// Step is the 1-based position shown as "Step n of 8".
func (p Phase) Step() int { return p.Index() + 1 }

// ProgressPercent is the share of the sequence reached, counting p as done.
func (p Phase) ProgressPercent() float64 {
	return float64(p.Step()) / float64(len(PhaseOrder)) * 100
}

// TimerVisible reports whether the phase timer is offered for p.
func (p Phase) TimerVisible() bool {
	return p == PhaseMashing || p == PhaseBoiling
}
