package structured

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ViolationKind classifies a validation error.
type ViolationKind string

const (
	ViolationDecode      ViolationKind = "decode"
	ViolationMissing     ViolationKind = "missing"
	ViolationType        ViolationKind = "type"
	ViolationCardinality ViolationKind = "cardinality"
	ViolationEnum        ViolationKind = "enum"
)

// ParseError represents a validation error with field path.
type ParseError struct {
	Path    string        `json:"path"`
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is the ordered list of violations found in one candidate.
// A nil value means the candidate passed.
type ValidationErrors []ParseError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return "validation failed"
	case 1:
		return e[0].Error()
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(e.Messages(), "; "))
}

// Messages renders every violation as "path: message", in order.
func (e ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(e))
	for i := range e {
		msgs = append(msgs, e[i].Error())
	}
	return msgs
}

// Kinds returns the kind of every violation, in order.
func (e ValidationErrors) Kinds() []ViolationKind {
	kinds := make([]ViolationKind, len(e))
	for i := range e {
		kinds[i] = e[i].Kind
	}
	return kinds
}

// Validate decodes candidate and checks it against Contract. It returns the
// output when every constraint holds, otherwise every violation found.
// A decode failure short-circuits with a single error.
func Validate(candidate string) (*ClinicalOutput, ValidationErrors) {
	if strings.TrimSpace(candidate) == "" {
		return nil, ValidationErrors{{Kind: ViolationDecode, Message: "empty payload: expected a JSON object"}}
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &root); err != nil {
		return nil, ValidationErrors{{Kind: ViolationDecode, Message: fmt.Sprintf("malformed JSON: %v", err)}}
	}
	if root == nil {
		return nil, ValidationErrors{{Kind: ViolationDecode, Message: "malformed JSON: expected an object, got null"}}
	}

	w := &walker{
		objects: map[string]map[string]json.RawMessage{"": root},
		values:  make(map[string]any, len(Contract)),
	}
	for _, f := range Contract {
		w.check(f)
	}
	if len(w.errs) > 0 {
		return nil, w.errs
	}
	return w.build(), nil
}

type walker struct {
	objects map[string]map[string]json.RawMessage
	values  map[string]any
	errs    ValidationErrors
}

func (w *walker) fail(path string, kind ViolationKind, format string, args ...any) {
	w.errs = append(w.errs, ParseError{Path: path, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (w *walker) check(f FieldConstraint) {
	parent, name := splitPath(f.Path)
	obj, ok := w.objects[parent]
	if !ok {
		// Parent already reported as missing or mistyped.
		return
	}
	raw, present := obj[name]
	if !present {
		w.fail(f.Path, ViolationMissing, "field required")
		return
	}

	switch f.Kind {
	case KindObject:
		if !w.expect(f.Path, raw, "object") {
			return
		}
		var m map[string]json.RawMessage
		_ = json.Unmarshal(raw, &m)
		w.objects[f.Path] = m

	case KindString:
		if s, ok := w.decodeString(f.Path, raw); ok {
			w.values[f.Path] = s
		}

	case KindBool:
		if !w.expect(f.Path, raw, "boolean") {
			return
		}
		var b bool
		_ = json.Unmarshal(raw, &b)
		w.values[f.Path] = b

	case KindEnum:
		s, ok := w.decodeString(f.Path, raw)
		if !ok {
			return
		}
		for _, allowed := range f.Enum {
			if s == allowed {
				w.values[f.Path] = s
				return
			}
		}
		w.fail(f.Path, ViolationEnum, "value %q is not one of %s", s, quoteAll(f.Enum))

	case KindStringList:
		w.checkList(f, raw)
	}
}

func (w *walker) checkList(f FieldConstraint, raw json.RawMessage) {
	if !w.expect(f.Path, raw, "array") {
		return
	}
	var items []json.RawMessage
	_ = json.Unmarshal(raw, &items)

	list := make([]string, 0, len(items))
	itemsOK := true
	for i, item := range items {
		s, ok := w.decodeString(fmt.Sprintf("%s[%d]", f.Path, i), item)
		if !ok {
			itemsOK = false
			continue
		}
		list = append(list, s)
	}

	n := len(items)
	switch {
	case f.Min > 0 && n < f.Min:
		w.fail(f.Path, ViolationCardinality, "must contain at least %d items, got %d", f.Min, n)
		return
	case f.Max > 0 && n > f.Max:
		w.fail(f.Path, ViolationCardinality, "must contain at most %d items, got %d", f.Max, n)
		return
	}
	if itemsOK {
		w.values[f.Path] = list
	}
}

func (w *walker) decodeString(path string, raw json.RawMessage) (string, bool) {
	if !w.expect(path, raw, "string") {
		return "", false
	}
	var s string
	_ = json.Unmarshal(raw, &s)
	return s, true
}

// expect records a type violation when raw is not of the wanted JSON type.
func (w *walker) expect(path string, raw json.RawMessage, want string) bool {
	if got := jsonType(raw); got != want {
		w.fail(path, ViolationType, "expected %s, got %s", want, got)
		return false
	}
	return true
}

func (w *walker) build() *ClinicalOutput {
	return &ClinicalOutput{
		Analysis:   w.values["analysis"].(string),
		Themes:     w.values["themes"].([]string),
		Signifiers: w.values["signifiers"].([]string),
		Hypotheses: w.values["hypotheses"].([]string),
		Questions:  w.values["questions"].([]string),
		RiskAssessment: RiskAssessment{
			Level:   RiskLevel(w.values["risk_assessment.level"].(string)),
			Signals: w.values["risk_assessment.signals"].([]string),
		},
		ClinicalReport: ClinicalReport{
			Required: w.values["clinical_report.required"].(bool),
			Summary:  w.values["clinical_report.summary"].(string),
		},
	}
}

func splitPath(path string) (parent, name string) {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}

// jsonType names the JSON type of an already well-formed value.
func jsonType(raw json.RawMessage) string {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return "nothing"
	}
	switch b[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
