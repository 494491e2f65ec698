package domain

import (
	"errors"
	"fmt"
	"strings"
)

const SystemInstruction = `You are an expert master brewer. 
You assist home brewers during their brew day. 
Keep answers concise, practical, and safe. 
If a user asks about temperatures, provide both Celsius and Fahrenheit.
The user is currently in a specific phase of brewing, so tailor your advice to that context.`

// Fallback replies shown instead of advice. They are returned as ordinary
// text, never as errors.
const (
	FallbackEmpty   = "I couldn't generate advice at this moment."
	FallbackFailure = "Sorry, I'm having trouble connecting to the Brewmind."
)

var (
	ErrAdvisorDisabled  = errors.New("advisor is disabled")
	ErrEmptyAnswer      = errors.New("advisor returned no text")
	ErrPluginDisabled   = errors.New("advisor plugin is disabled")
	ErrChecksumMismatch = errors.New("advisor plugin checksum mismatch")
)

// Query is one advice request as sent to an advisor.
type Query struct {
	Phase    string
	Question string
	Context  string
}

func NewQuery(phase, question, context string) (Query, error) {
	q := Query{Phase: strings.TrimSpace(phase), Question: strings.TrimSpace(question), Context: context}
	if q.Question == "" {
		return Query{}, fmt.Errorf("question is required")
	}
	return q, nil
}

// Prompt is the user turn sent with SystemInstruction.
func (q Query) Prompt() string {
	return fmt.Sprintf("Current Phase: %s. \nBrew Details: %s. \nUser Question: %s", q.Phase, q.Context, q.Question)
}

// BrewContext summarises the brew for the advisor.
func BrewContext(name, style, phase, notes string) string {
	return fmt.Sprintf("Beer Name: %s, Style: %s. Current Phase: %s. Phase Notes: %s", name, style, phase, notes)
}

// Answer is the text shown to the brewer. Fallback marks a canned reply.
type Answer struct {
	Text     string
	Fallback bool
	Provider string
}

// Resolve turns an advisor result into an Answer. It never fails.
func Resolve(provider, text string, err error) Answer {
	if err != nil {
		return Answer{Text: FallbackFailure, Fallback: true, Provider: provider}
	}
	if strings.TrimSpace(text) == "" {
		return Answer{Text: FallbackEmpty, Fallback: true, Provider: provider}
	}
	return Answer{Text: strings.TrimSpace(text), Provider: provider}
}
