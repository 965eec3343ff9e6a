package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BaSui01/clinicalflow/pipeline"
	"github.com/BaSui01/clinicalflow/structured"
)

const ruleWidth = 60

// Formatter renders results for a single output stream.
type Formatter struct {
	r      *lipgloss.Renderer
	styles Styles
}

// New returns a Formatter whose colour profile is detected from w.
func New(w io.Writer) *Formatter {
	return NewWithRenderer(lipgloss.NewRenderer(w))
}

// NewWithRenderer returns a Formatter bound to r.
func NewWithRenderer(r *lipgloss.Renderer) *Formatter {
	return &Formatter{r: r, styles: NewStyles(r)}
}

// Result renders one terminal result.
func (f *Formatter) Result(res pipeline.Result) string {
	if !res.Success || res.Output == nil {
		return f.failure(res)
	}
	return f.report(res.Identifier, res.Attempts, res.Output)
}

// Summary renders the batch counts line.
func (f *Formatter) Summary(s pipeline.Summary) string {
	ok := f.styles.Success.Render(fmt.Sprintf("ok=%d", s.OK))
	failed := fmt.Sprintf("failed=%d", s.Failed)
	if s.Failed > 0 {
		failed = f.styles.Error.Render(failed)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, ok, " ", failed)
}

// Banner renders the interactive-mode header.
func (f *Formatter) Banner(variant string) string {
	var b strings.Builder
	b.WriteString(f.rule("─") + "\n")
	b.WriteString(f.styles.Title.Render("MODO INTERATIVO [" + strings.ToUpper(variant) + "]") + "\n")
	b.WriteString(f.styles.Muted.Render("Digite 'sair' ou 'exit' para encerrar.") + "\n")
	b.WriteString(f.rule("─"))
	return b.String()
}

func (f *Formatter) failure(res pipeline.Result) string {
	lines := []string{f.styles.Error.Bold(true).Render("Erro ao processar " + res.Identifier + ":")}
	if len(res.Errors) == 0 {
		lines = append(lines, f.styles.Bullet.Render("- sem detalhes"))
	}
	for _, e := range res.Errors {
		lines = append(lines, f.styles.Bullet.Render("- "+e))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) report(identifier string, attempts int, out *structured.ClinicalOutput) string {
	s := f.styles
	var sections []string

	sections = append(sections,
		f.rule("─"),
		s.Title.Render("RELATÓRIO CLÍNICO · "+identifier),
		f.rule("─"),
	)

	sections = append(sections,
		s.Section.Render("ANÁLISE:"),
		s.Body.Render(orDefault(out.Analysis, "Nenhuma análise gerada.")),
	)

	sections = append(sections,
		s.Section.Render("MAPA ESTRUTURAL:"),
		s.Body.Render(s.Label.Render("Temas: ")+joinOr(out.Themes)),
		s.Body.Render(s.Label.Render("Significantes: ")+joinOr(out.Signifiers)),
	)

	sections = append(sections, s.Section.Render("HIPÓTESES:"))
	sections = append(sections, f.bullets(out.Hypotheses, "Nenhuma hipótese gerada.")...)

	risk := out.RiskAssessment
	sections = append(sections, s.Section.Render("AVALIAÇÃO DE RISCO: ")+riskBadge(f.r, risk.Level))
	if len(risk.Signals) > 0 {
		sections = append(sections, s.Body.Render(s.Label.Render("Sinais: ")+strings.Join(risk.Signals, ", ")))
	}

	if out.ClinicalReport.Required {
		sections = append(sections,
			s.Section.Inherit(s.Report).Render("LAUDO NECESSÁRIO"),
			s.Body.Render(s.Label.Render("Resumo: ")+orDefault(out.ClinicalReport.Summary, "Sem resumo.")),
		)
	} else {
		sections = append(sections, s.Section.Inherit(s.NoReport).Render("LAUDO NÃO NECESSÁRIO"))
	}

	sections = append(sections, s.Section.Render("PERGUNTAS SUGERIDAS:"))
	sections = append(sections, f.bullets(out.Questions, "Nenhuma pergunta sugerida.")...)

	if attempts > 0 {
		sections = append(sections, s.Muted.Render(fmt.Sprintf("correções aplicadas: %d", attempts)))
	}
	sections = append(sections, f.rule("─"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (f *Formatter) bullets(items []string, empty string) []string {
	if len(items) == 0 {
		return []string{f.styles.Bullet.Render("- " + empty)}
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = f.styles.Bullet.Render("- " + item)
	}
	return out
}

func (f *Formatter) rule(ch string) string {
	return f.styles.Rule.Render(strings.Repeat(ch, ruleWidth))
}

func joinOr(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, ", ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
