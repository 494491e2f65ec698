package domain

// Field names a PhaseData entry that a phase form shows.
type Field string

const (
	FieldNotes              Field = "notes"
	FieldTemperature        Field = "temperature"
	FieldInitialTemperature Field = "initialTemperature"
	FieldFinalTemperature   Field = "finalTemperature"
	FieldTempUnit           Field = "tempUnit"
	FieldGravity            Field = "gravity"
	FieldPreBoilGravity     Field = "preBoilGravity"
	FieldPostBoilGravity    Field = "postBoilGravity"
	FieldPreBoilVolume      Field = "preBoilVolume"
	FieldPostBoilVolume     Field = "postBoilVolume"
	FieldWaterBottlesCount  Field = "waterBottlesCount"
	FieldBottleVolume       Field = "bottleVolume"
)

var fieldLabels = map[Field]string{
	FieldNotes:              "Notes",
	FieldTemperature:        "Temperature",
	FieldInitialTemperature: "Initial Strike Temperature",
	FieldFinalTemperature:   "Final Mash Temperature",
	FieldTempUnit:           "Unit (C/F)",
	FieldGravity:            "Gravity (SG)",
	FieldPreBoilGravity:     "Pre-Boil Gravity (SG)",
	FieldPostBoilGravity:    "Post-Boil Gravity (OG)",
	FieldPreBoilVolume:      "Pre-Boil Volume",
	FieldPostBoilVolume:     "Post-Boil Volume",
	FieldWaterBottlesCount:  "Water Bottles",
	FieldBottleVolume:       "Bottle Size (L)",
}

func (f Field) Label() string { return fieldLabels[f] }

// Temperature reports whether the field holds a reading in the phase's unit.
func (f Field) Temperature() bool {
	return f == FieldTemperature || f == FieldInitialTemperature || f == FieldFinalTemperature
}

// FieldsFor lists the form fields recorded during phase p, notes last.
func FieldsFor(p Phase) []Field {
	var fields []Field
	switch p {
	case PhaseMashing, PhaseSparging, PhaseBoiling, PhaseChilling, PhaseFermentation:
		fields = append(fields, FieldTempUnit)
	}
	switch p {
	case PhaseMashing:
		fields = append(fields, FieldWaterBottlesCount, FieldBottleVolume, FieldInitialTemperature, FieldFinalTemperature)
	case PhaseSparging, PhaseBoiling, PhaseChilling, PhaseFermentation:
		fields = append(fields, FieldTemperature)
	}
	if p == PhaseBoiling {
		fields = append(fields, FieldPreBoilGravity, FieldPreBoilVolume, FieldPostBoilGravity, FieldPostBoilVolume)
	}
	if p == PhaseFermentation || p == PhaseBottling {
		fields = append(fields, FieldGravity)
	}
	return append(fields, FieldNotes)
}

// Value returns the display value of f in d, applying absence defaults.
func (d PhaseData) Value(f Field) string {
	switch f {
	case FieldNotes:
		return d.Notes
	case FieldTemperature:
		return d.Temperature
	case FieldInitialTemperature:
		return d.InitialTemperature
	case FieldFinalTemperature:
		return d.FinalTemperature
	case FieldTempUnit:
		return string(d.Unit())
	case FieldGravity:
		return d.Gravity
	case FieldPreBoilGravity:
		return d.PreBoilGravity
	case FieldPostBoilGravity:
		return d.PostBoilGravity
	case FieldPreBoilVolume:
		return d.PreBoilVolume
	case FieldPostBoilVolume:
		return d.PostBoilVolume
	case FieldWaterBottlesCount:
		return itoa(d.Bottles())
	case FieldBottleVolume:
		return d.BottleSize()
	}
	return ""
}

// Set records raw for field f on the edit. Invalid bottle counts become 0.
func (e *PhaseEdit) Set(f Field, raw string) {
	v := raw
	switch f {
	case FieldNotes:
		e.Notes = &v
	case FieldTemperature:
		e.Temperature = &v
	case FieldInitialTemperature:
		e.InitialTemperature = &v
	case FieldFinalTemperature:
		e.FinalTemperature = &v
	case FieldTempUnit:
		unit := TempUnit(v)
		e.TempUnit = &unit
	case FieldGravity:
		e.Gravity = &v
	case FieldPreBoilGravity:
		e.PreBoilGravity = &v
	case FieldPostBoilGravity:
		e.PostBoilGravity = &v
	case FieldPreBoilVolume:
		e.PreBoilVolume = &v
	case FieldPostBoilVolume:
		e.PostBoilVolume = &v
	case FieldWaterBottlesCount:
		n := atoi(v)
		e.WaterBottlesCount = &n
	case FieldBottleVolume:
		e.BottleVolume = &v
	}
}
