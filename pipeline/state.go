package pipeline

import (
	"fmt"

	"github.com/BaSui01/clinicalflow/structured"
)

// Phase is a pipeline state machine phase.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseGenerating Phase = "generating"
	PhaseValidating Phase = "validating"
	PhaseCorrecting Phase = "correcting"
	PhaseSuccess    Phase = "success"   // terminal
	PhaseExhausted  Phase = "exhausted" // terminal
)

// validTransitions lists the legal phase transitions.
var validTransitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseGenerating, PhaseExhausted},
	PhaseGenerating: {PhaseValidating, PhaseExhausted},
	PhaseValidating: {PhaseSuccess, PhaseCorrecting, PhaseExhausted},
	PhaseCorrecting: {PhaseValidating, PhaseExhausted},
}

// CanTransition reports whether from -> to is legal.
func CanTransition(from, to Phase) bool {
	for _, p := range validTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseExhausted
}

// ErrInvalidTransition is an illegal phase transition.
type ErrInvalidTransition struct {
	From Phase
	To   Phase
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid pipeline transition: %s -> %s", e.From, e.To)
}

// Item is one unit of work: an identifier and the text to analyse.
type Item struct {
	Identifier string
	Text       string
}

// State is the per-item pipeline record. Transitions return a new State and
// never modify the receiver or the slices it shares with earlier states.
type State struct {
	Identifier string
	InputText  string
	Variant    string
	Phase      Phase

	// Prompt is the prompt the next generation call sends.
	Prompt string
	// RawResponse is the latest oracle text; nil until a call succeeds.
	RawResponse *string
	Output      *structured.ClinicalOutput
	Errors      []string
	Violations  structured.ValidationErrors
	// AttemptCount counts correction attempts only.
	AttemptCount int
}

// NewState returns the Idle state for item.
func NewState(item Item, variant string) State {
	return State{
		Identifier: item.Identifier,
		InputText:  item.Text,
		Variant:    variant,
		Phase:      PhaseIdle,
		Errors:     []string{},
	}
}

func (s State) to(p Phase) State {
	if !CanTransition(s.Phase, p) {
		panic(ErrInvalidTransition{From: s.Phase, To: p})
	}
	s.Phase = p
	return s
}

// generate moves Idle to Generating with the rendered initial prompt.
func (s State) generate(prompt string) State {
	next := s.to(PhaseGenerating)
	next.Prompt = prompt
	return next
}

// received records a raw response and moves to Validating. Errors left from
// the previous validation round are cleared.
func (s State) received(raw string) State {
	next := s.to(PhaseValidating)
	next.RawResponse = &raw
	next.Errors = []string{}
	next.Violations = nil
	return next
}

// succeeded terminates with a validated output.
func (s State) succeeded(out *structured.ClinicalOutput) State {
	next := s.to(PhaseSuccess)
	next.Output = out
	next.Errors = []string{}
	next.Violations = nil
	return next
}

// rejected records validation errors and either schedules a correction or
// terminates when the retry limit is reached.
func (s State) rejected(violations structured.ValidationErrors, retryLimit int) State {
	msgs := violations.Messages()
	vs := make(structured.ValidationErrors, len(violations))
	copy(vs, violations)

	if s.AttemptCount >= retryLimit {
		next := s.to(PhaseExhausted)
		next.Errors = msgs
		next.Violations = vs
		return next
	}

	next := s.to(PhaseCorrecting)
	next.Errors = msgs
	next.Violations = vs
	next.Prompt = structured.BuildCorrectionPrompt(s.InputText, deref(s.RawResponse), msgs)
	next.AttemptCount++
	return next
}

// failed terminates on a failure outside validation. Errors already present,
// such as the validation errors a correction was addressing, are kept and
// the failure is appended.
func (s State) failed(message string) State {
	next := s.to(PhaseExhausted)
	errs := make([]string, 0, len(s.Errors)+1)
	errs = append(errs, s.Errors...)
	next.Errors = append(errs, message)
	return next
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
