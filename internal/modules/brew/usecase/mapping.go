package usecase

import (
	"brewlog/internal/modules/brew/domain"
	brewdto "brewlog/internal/modules/brew/dto"
)

// ToOutput flattens a session for presentation. Phases lists every phase in
// brewing order with absence defaults applied.
func ToOutput(session domain.Session) brewdto.SessionOutput {
	phase := session.CurrentPhase
	out := brewdto.SessionOutput{
		ID:           session.ID,
		Name:         session.Name,
		Style:        session.Style,
		CreatedAt:    session.CreatedAt,
		CurrentPhase: string(phase),
		Description:  phase.Description(),
		Step:         phase.Step(),
		TotalSteps:   len(domain.PhaseOrder),
		Progress:     phase.ProgressPercent(),
		Completed:    phase.Terminal(),
		TimerRunning: session.TimerIsRunning,
	}
	for _, p := range domain.PhaseOrder {
		data, recorded := session.PhaseData(p)
		out.Phases = append(out.Phases, phaseOutput(p, data, recorded))
	}
	return out
}

func phaseOutput(p domain.Phase, d domain.PhaseData, recorded bool) brewdto.PhaseDataOutput {
	converted := map[string]string{}
	fields := domain.FieldsFor(p)
	formFields := make([]brewdto.FieldOutput, 0, len(fields))
	for _, f := range fields {
		formFields = append(formFields, brewdto.FieldOutput{Key: string(f), Label: f.Label(), Value: d.Value(f), Temperature: f.Temperature()})
		if !f.Temperature() {
			continue
		}
		if c := domain.ConvertTemperature(d.Value(f), d.Unit()); c != "" {
			converted[string(f)] = c
		}
	}
	return brewdto.PhaseDataOutput{
		Phase:              string(p),
		Notes:              d.Notes,
		Temperature:        d.Temperature,
		InitialTemperature: d.InitialTemperature,
		FinalTemperature:   d.FinalTemperature,
		TempUnit:           string(d.Unit()),
		Gravity:            d.Gravity,
		PreBoilGravity:     d.PreBoilGravity,
		PostBoilGravity:    d.PostBoilGravity,
		PreBoilVolume:      d.PreBoilVolume,
		PostBoilVolume:     d.PostBoilVolume,
		WaterBottlesCount:  d.Bottles(),
		BottleVolume:       d.BottleSize(),
		TotalWater:         d.TotalWater(),
		Converted:          converted,
		Recorded:           recorded,
		Fields:             formFields,
	}
}

func toEdit(in brewdto.PhaseInput) domain.PhaseEdit {
	edit := domain.PhaseEdit{}
	set := func(f domain.Field, v *string) {
		if v != nil {
			edit.Set(f, *v)
		}
	}
	set(domain.FieldNotes, in.Notes)
	set(domain.FieldTemperature, in.Temperature)
	set(domain.FieldInitialTemperature, in.InitialTemperature)
	set(domain.FieldFinalTemperature, in.FinalTemperature)
	set(domain.FieldTempUnit, in.TempUnit)
	set(domain.FieldGravity, in.Gravity)
	set(domain.FieldPreBoilGravity, in.PreBoilGravity)
	set(domain.FieldPostBoilGravity, in.PostBoilGravity)
	set(domain.FieldPreBoilVolume, in.PreBoilVolume)
	set(domain.FieldPostBoilVolume, in.PostBoilVolume)
	set(domain.FieldWaterBottlesCount, in.WaterBottlesCount)
	set(domain.FieldBottleVolume, in.BottleVolume)
	return edit
}
