// =============================================================================
// 📦 Test fixtures - model responses
// =============================================================================
// Canned raw model responses for validator and pipeline tests.
// =============================================================================
package fixtures

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// 🎯 Valid payloads
// =============================================================================

// ValidJSON is a payload satisfying every contract constraint.
const ValidJSON = `{
  "analysis": "O relato gira em torno da perda e da culpa.",
  "themes": ["perda", "culpa", "solidão"],
  "signifiers": ["vazio", "pai", "noite"],
  "hypotheses": ["luto não elaborado", "identificação com o objeto perdido"],
  "questions": ["Quando começou?", "Com quem fala sobre isso?", "O que a noite lembra?"],
  "risk_assessment": {"level": "médio", "signals": ["insônia", "isolamento"]},
  "clinical_report": {"required": false, "summary": ""}
}`

// AlternateValidJSON is a second valid payload with distinct content.
const AlternateValidJSON = `{
  "analysis": "Narrativa marcada por ansiedade antecipatória.",
  "themes": ["trabalho", "medo", "controle", "família"],
  "signifiers": ["prazo", "falha", "chefe", "mãe"],
  "hypotheses": ["defesa obsessiva", "superego severo", "deslocamento"],
  "questions": ["O que seria falhar?", "Quem cobra mais?", "Como dorme?"],
  "risk_assessment": {"level": "baixo", "signals": []},
  "clinical_report": {"required": true, "summary": "Encaminhar para avaliação."}
}`

// Fenced wraps payload in a markdown json fence with chatter around it.
func Fenced(payload string) string {
	return "Aqui está a análise:\n```json\n" + payload + "\n```\nEspero ter ajudado."
}

// =============================================================================
// 🧨 Invalid payloads
// =============================================================================

// TooFewThemesJSON violates the themes lower bound.
var TooFewThemesJSON = WithField(ValidJSON, "themes", []string{"perda", "culpa"})

// UnknownRiskJSON carries an out-of-enumeration risk level.
var UnknownRiskJSON = WithField(ValidJSON, "risk_assessment", map[string]any{
	"level":   "extremo",
	"signals": []string{"ideação"},
})

// MalformedJSON is not parseable.
const MalformedJSON = `{"analysis": "incompleto", "themes": [`

// WithField returns payload with one top-level field replaced by value.
// A nil value removes the field.
func WithField(payload, field string, value any) string {
	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		panic(fmt.Sprintf("fixtures: invalid base payload: %v", err))
	}
	if value == nil {
		delete(doc, field)
	} else {
		doc[field] = value
	}
	out, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("fixtures: marshal: %v", err))
	}
	return string(out)
}

// Items returns n distinct list entries.
func Items(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%d", prefix, i+1)
	}
	return out
}

// Narrative returns a short input text for tests.
func Narrative(words ...string) string {
	if len(words) == 0 {
		return "Tenho sonhado com meu pai todas as noites desde que ele partiu."
	}
	return strings.Join(words, " ")
}
