package structured

// RiskLevel is the enumerated risk classification of an analysis.
type RiskLevel string

// Declared risk levels. Matching is exact and case-sensitive.
const (
	RiskLow    RiskLevel = "baixo"
	RiskMedium RiskLevel = "médio"
	RiskHigh   RiskLevel = "alto"
)

// RiskLevels returns the declared enumeration in ascending severity.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh}
}

// Valid reports whether l is one of the declared levels.
func (l RiskLevel) Valid() bool {
	for _, v := range RiskLevels() {
		if l == v {
			return true
		}
	}
	return false
}

// RiskAssessment pairs a risk level with the signals that justify it.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Signals []string  `json:"signals"`
}

// ClinicalReport flags whether a formal report is needed.
type ClinicalReport struct {
	Required bool   `json:"required"`
	Summary  string `json:"summary"`
}

// ClinicalOutput is the validated analysis. Only the Validator constructs it.
type ClinicalOutput struct {
	Analysis       string         `json:"analysis"`
	Themes         []string       `json:"themes"`
	Signifiers     []string       `json:"signifiers"`
	Hypotheses     []string       `json:"hypotheses"`
	Questions      []string       `json:"questions"`
	RiskAssessment RiskAssessment `json:"risk_assessment"`
	ClinicalReport ClinicalReport `json:"clinical_report"`
}

// FieldKind is the JSON shape a contract field must have.
type FieldKind string

const (
	KindString     FieldKind = "string"
	KindBool       FieldKind = "boolean"
	KindStringList FieldKind = "string-list"
	KindObject     FieldKind = "object"
	KindEnum       FieldKind = "enum"
)

// FieldConstraint is one row of the schema contract.
// Min and Max bound list cardinality; zero Max means unbounded.
type FieldConstraint struct {
	Path        string
	Kind        FieldKind
	Min         int
	Max         int
	Enum        []string
	Description string
}

// Bounded reports whether the field carries a cardinality bound.
func (f FieldConstraint) Bounded() bool {
	return f.Kind == KindStringList && (f.Min > 0 || f.Max > 0)
}

// Contract is the static field-constraint table for ClinicalOutput.
// Parent objects precede their children; the validator relies on that order.
var Contract = []FieldConstraint{
	{Path: "analysis", Kind: KindString, Description: "Structured clinical analysis"},
	{Path: "themes", Kind: KindStringList, Min: 3, Max: 6, Description: "Central themes"},
	{Path: "signifiers", Kind: KindStringList, Min: 3, Max: 8, Description: "Recurring signifiers"},
	{Path: "hypotheses", Kind: KindStringList, Min: 2, Max: 4, Description: "Clinical hypotheses"},
	{Path: "questions", Kind: KindStringList, Min: 3, Max: 6, Description: "Suggested follow-up questions"},
	{Path: "risk_assessment", Kind: KindObject},
	{Path: "risk_assessment.level", Kind: KindEnum, Enum: riskLevelStrings(), Description: "Risk level"},
	{Path: "risk_assessment.signals", Kind: KindStringList, Description: "Observed signals indicating the risk level"},
	{Path: "clinical_report", Kind: KindObject},
	{Path: "clinical_report.required", Kind: KindBool},
	{Path: "clinical_report.summary", Kind: KindString, Description: "Report summary when required"},
}

func riskLevelStrings() []string {
	levels := RiskLevels()
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

// Lookup returns the constraint for a path.
func Lookup(path string) (FieldConstraint, bool) {
	for _, f := range Contract {
		if f.Path == path {
			return f, true
		}
	}
	return FieldConstraint{}, false
}
