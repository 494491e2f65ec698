package in

import (
	"context"
	"fmt"
	"strings"

	brewdto "brewlog/internal/modules/brew/dto"
	brewin "brewlog/internal/modules/brew/port/in"
)

type CLIHandler struct {
	usecase brewin.Usecase
}

func NewCLIHandler(usecase brewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, name, style string) (brewdto.SessionOutput, error) {
	return h.usecase.Create(ctx, brewdto.CreateInput{Name: name, Style: style})
}

func (h CLIHandler) List(ctx context.Context) ([]brewdto.SessionOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, sessionID string) (brewdto.SessionOutput, error) {
	return h.usecase.Get(ctx, sessionID)
}

func (h CLIHandler) SavePhase(ctx context.Context, sessionID, phase string, assignments []string) (brewdto.SessionOutput, error) {
	edit, err := ParseAssignments(assignments)
	if err != nil {
		return brewdto.SessionOutput{}, err
	}
	if phase == "" {
		current, err := h.usecase.Get(ctx, sessionID)
		if err != nil {
			return brewdto.SessionOutput{}, err
		}
		phase = current.CurrentPhase
	}
	return h.usecase.SavePhase(ctx, brewdto.SavePhaseInput{SessionID: sessionID, Phase: phase, Edit: edit})
}

func (h CLIHandler) Advance(ctx context.Context, sessionID, fromPhase string, assignments []string) (brewdto.TransitionOutput, error) {
	edit, err := ParseAssignments(assignments)
	if err != nil {
		return brewdto.TransitionOutput{}, err
	}
	return h.usecase.Advance(ctx, brewdto.TransitionInput{SessionID: sessionID, FromPhase: fromPhase, Edit: edit})
}

func (h CLIHandler) Retreat(ctx context.Context, sessionID, fromPhase string, assignments []string) (brewdto.TransitionOutput, error) {
	edit, err := ParseAssignments(assignments)
	if err != nil {
		return brewdto.TransitionOutput{}, err
	}
	return h.usecase.Retreat(ctx, brewdto.TransitionInput{SessionID: sessionID, FromPhase: fromPhase, Edit: edit})
}

func (h CLIHandler) Import(ctx context.Context, path string) (brewdto.ImportOutput, error) {
	return h.usecase.Import(ctx, brewdto.ImportInput{Path: path})
}

func (h CLIHandler) Delete(ctx context.Context, sessionID string) error {
	return h.usecase.Delete(ctx, sessionID)
}

func (h CLIHandler) Export(ctx context.Context, sessionID string) (brewdto.ExportOutput, error) {
	return h.usecase.Export(ctx, brewdto.ExportInput{SessionID: sessionID})
}

// ParseAssignments turns repeated --set key=value flags into a phase edit.
// Keys use the persisted field names, e.g. notes or preBoilGravity.
func ParseAssignments(assignments []string) (brewdto.PhaseInput, error) {
	edit := brewdto.PhaseInput{}
	for _, raw := range assignments {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return brewdto.PhaseInput{}, fmt.Errorf("invalid assignment %q (want key=value)", raw)
		}
		if err := assign(&edit, key, value); err != nil {
			return brewdto.PhaseInput{}, err
		}
	}
	return edit, nil
}

func assign(edit *brewdto.PhaseInput, key, value string) error {
	v := value
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "notes":
		edit.Notes = &v
	case "temperature", "temp":
		edit.Temperature = &v
	case "initialtemperature":
		edit.InitialTemperature = &v
	case "finaltemperature":
		edit.FinalTemperature = &v
	case "tempunit", "unit":
		edit.TempUnit = &v
	case "gravity":
		edit.Gravity = &v
	case "preboilgravity":
		edit.PreBoilGravity = &v
	case "postboilgravity":
		edit.PostBoilGravity = &v
	case "preboilvolume":
		edit.PreBoilVolume = &v
	case "postboilvolume":
		edit.PostBoilVolume = &v
	case "waterbottlescount", "bottles":
		edit.WaterBottlesCount = &v
	case "bottlevolume":
		edit.BottleVolume = &v
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return nil
}
