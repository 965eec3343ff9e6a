package pipeline

import "github.com/BaSui01/clinicalflow/structured"

// Result is the terminal record produced for every item.
// Exactly one of Output and Errors is populated.
type Result struct {
	Identifier string                     `json:"file"`
	Success    bool                       `json:"ok"`
	Errors     []string                   `json:"errors"`
	Output     *structured.ClinicalOutput `json:"output"`
	Attempts   int                        `json:"attempts"`

	Phase       Phase  `json:"-"`
	RawResponse string `json:"-"`
}

// ResultFrom converts a terminal state into a Result. A state that is not
// terminal, or a success without output, is reported as a failure.
func ResultFrom(s State) Result {
	r := Result{
		Identifier:  s.Identifier,
		Attempts:    s.AttemptCount,
		Phase:       s.Phase,
		RawResponse: deref(s.RawResponse),
	}
	switch {
	case s.Phase == PhaseSuccess && s.Output != nil:
		r.Success = true
		r.Output = s.Output
		r.Errors = []string{}
	case len(s.Errors) > 0:
		r.Errors = append([]string(nil), s.Errors...)
	default:
		r.Errors = []string{"pipeline ended in phase " + string(s.Phase) + " without output"}
	}
	return r
}

// failureResult is the record for an item whose run could not complete.
func failureResult(identifier, message string) Result {
	return Result{
		Identifier: identifier,
		Errors:     []string{message},
		Phase:      PhaseExhausted,
	}
}

// Summary aggregates a batch.
type Summary struct {
	PromptVersion string   `json:"prompt_version"`
	Total         int      `json:"total"`
	OK            int      `json:"ok"`
	Failed        int      `json:"failed"`
	Results       []Result `json:"results"`
}

// Summarize counts outcomes. Results keep their order.
func Summarize(variant string, results []Result) Summary {
	s := Summary{
		PromptVersion: variant,
		Total:         len(results),
		Results:       results,
	}
	if s.Results == nil {
		s.Results = []Result{}
	}
	for _, r := range results {
		if r.Success {
			s.OK++
		} else {
			s.Failed++
		}
	}
	return s
}
