package main

import (
	"fmt"
	"strings"
)

var phaseTips = map[string]string{
	"Mashing":      "Hold the mash at 148-158 °F (64-70 °C) for about 60 minutes. Lower temperatures give a drier beer, higher ones more body.",
	"Sparging":     "Rinse with water at about 168 °F (76 °C) and stop once the runnings drop below 1.010 gravity to avoid tannins.",
	"Boiling":      "Keep a rolling boil with the lid off so DMS can escape. Add bittering hops early and aroma hops in the last 15 minutes.",
	"Chilling":     "Cool the wort below 80 °F (27 °C) as fast as you can and keep everything that touches it sanitized.",
	"Fermentation": "Keep ales at 64-68 °F (18-20 °C). Fermentation is done when gravity holds steady for three days.",
	"Secondary":    "Rack gently off the trub and avoid splashing; oxygen now causes stale flavours.",
	"Bottling":     "Use about 1 oz (28 g) of priming sugar per gallon and condition at room temperature for two weeks.",
	"Completed":    "Chill a bottle, pour it off the yeast layer and take notes on how it turned out.",
}

// Advise answers from a fixed set of per-phase rules. Questions about
// temperature always get both scales.
func Advise(phase, question string) string {
	tip, ok := phaseTips[phase]
	if !ok {
		return "Tell me which phase you are in and I can help."
	}
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "sanit") || strings.Contains(q, "clean"):
		return fmt.Sprintf("During %s: sanitize anything that touches cooled wort. %s", phase, tip)
	case strings.Contains(q, "temp") || strings.Contains(q, "hot") || strings.Contains(q, "cold"):
		return fmt.Sprintf("During %s, temperature matters most. %s", phase, tip)
	default:
		return tip
	}
}
