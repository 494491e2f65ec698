package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type TempUnit string

const (
	Celsius    TempUnit = "C"
	Fahrenheit TempUnit = "F"

	DefaultTempUnit     = Fahrenheit
	DefaultBottleVolume = "1.5"
)

func ParseTempUnit(raw string) (TempUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(raw, "°"))) {
	case "C":
		return Celsius, nil
	case "F":
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q (want C|F)", raw)
	}
}

// PhaseData holds the readings recorded for one phase. An empty string or nil
// pointer means "not recorded yet", never zero.
type PhaseData struct {
	Notes              string   `json:"notes"`
	Temperature        string   `json:"temperature,omitempty"`
	InitialTemperature string   `json:"initialTemperature,omitempty"`
	FinalTemperature   string   `json:"finalTemperature,omitempty"`
	TempUnit           TempUnit `json:"tempUnit,omitempty"`
	Gravity            string   `json:"gravity,omitempty"`
	PreBoilGravity     string   `json:"preBoilGravity,omitempty"`
	PostBoilGravity    string   `json:"postBoilGravity,omitempty"`
	PreBoilVolume      string   `json:"preBoilVolume,omitempty"`
	PostBoilVolume     string   `json:"postBoilVolume,omitempty"`
	WaterBottlesCount  *int     `json:"waterBottlesCount,omitempty"`
	BottleVolume       string   `json:"bottleVolume,omitempty"`
}

// Unit is the recorded unit, F when absent.
func (d PhaseData) Unit() TempUnit {
	if d.TempUnit == "" {
		return DefaultTempUnit
	}
	return d.TempUnit
}

// Bottles is the recorded bottle count, 0 when absent.
func (d PhaseData) Bottles() int {
	if d.WaterBottlesCount == nil || *d.WaterBottlesCount < 0 {
		return 0
	}
	return *d.WaterBottlesCount
}

// BottleSize is the recorded per-bottle volume in litres, 1.5 when absent.
func (d PhaseData) BottleSize() string {
	if strings.TrimSpace(d.BottleVolume) == "" {
		return DefaultBottleVolume
	}
	return d.BottleVolume
}

// TotalWater is bottles × bottle size, formatted with two decimals. An
// unparseable bottle size counts as zero.
func (d PhaseData) TotalWater() string {
	size, err := strconv.ParseFloat(strings.TrimSpace(d.BottleSize()), 64)
	if err != nil {
		size = 0
	}
	return strconv.FormatFloat(float64(d.Bottles())*size, 'f', 2, 64)
}

func (d PhaseData) clone() PhaseData {
	out := d
	if d.WaterBottlesCount != nil {
		n := *d.WaterBottlesCount
		out.WaterBottlesCount = &n
	}
	return out
}

// PhaseEdit carries the fields a caller changed for one phase. Nil fields are
// left untouched when the edit is applied.
type PhaseEdit struct {
	Notes              *string
	Temperature        *string
	InitialTemperature *string
	FinalTemperature   *string
	TempUnit           *TempUnit
	Gravity            *string
	PreBoilGravity     *string
	PostBoilGravity    *string
	PreBoilVolume      *string
	PostBoilVolume     *string
	WaterBottlesCount  *int
	BottleVolume       *string
}

// Empty reports whether the edit changes nothing.
func (e PhaseEdit) Empty() bool {
	return e == PhaseEdit{}
}

// EditFrom builds an edit that replaces every field with the values of d.
func EditFrom(d PhaseData) PhaseEdit {
	unit := d.Unit()
	bottles := d.Bottles()
	bottleSize := d.BottleSize()
	return PhaseEdit{
		Notes:              &d.Notes,
		Temperature:        &d.Temperature,
		InitialTemperature: &d.InitialTemperature,
		FinalTemperature:   &d.FinalTemperature,
		TempUnit:           &unit,
		Gravity:            &d.Gravity,
		PreBoilGravity:     &d.PreBoilGravity,
		PostBoilGravity:    &d.PostBoilGravity,
		PreBoilVolume:      &d.PreBoilVolume,
		PostBoilVolume:     &d.PostBoilVolume,
		WaterBottlesCount:  &bottles,
		BottleVolume:       &bottleSize,
	}
}

// Apply overlays the set fields of e onto d. Negative bottle counts are
// coerced to zero and unknown units are ignored.
func (d PhaseData) Apply(e PhaseEdit) PhaseData {
	out := d.clone()
	if e.Notes != nil {
		out.Notes = *e.Notes
	}
	setString(&out.Temperature, e.Temperature)
	setString(&out.InitialTemperature, e.InitialTemperature)
	setString(&out.FinalTemperature, e.FinalTemperature)
	setString(&out.Gravity, e.Gravity)
	setString(&out.PreBoilGravity, e.PreBoilGravity)
	setString(&out.PostBoilGravity, e.PostBoilGravity)
	setString(&out.PreBoilVolume, e.PreBoilVolume)
	setString(&out.PostBoilVolume, e.PostBoilVolume)
	setString(&out.BottleVolume, e.BottleVolume)
	if e.TempUnit != nil {
		if unit, err := ParseTempUnit(string(*e.TempUnit)); err == nil {
			out.TempUnit = unit
		}
	}
	if e.WaterBottlesCount != nil {
		n := *e.WaterBottlesCount
		if n < 0 {
			n = 0
		}
		out.WaterBottlesCount = &n
	}
	return out
}

// setString stores a reading without surrounding blanks.
func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// ConvertTemperature renders value (given in unit) in the other scale with one
// decimal, e.g. "152" F → "66.7 °C". Empty or non-numeric input yields "".
func ConvertTemperature(value string, unit TempUnit) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ""
	}
	if unit == Celsius {
		return strconv.FormatFloat(v*9/5+32, 'f', 1, 64) + " °F"
	}
	return strconv.FormatFloat((v-32)*5/9, 'f', 1, 64) + " °C"
}
