package structured

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Placeholder is the single substitution point of a prompt template.
const Placeholder = "{INPUT}"

// FallbackTemplate is used when no template file exists for a variant.
const FallbackTemplate = "Faça uma análise psicanalítica do texto: " + Placeholder

// Known prompt variants.
const (
	VariantMinimal    = "v0"
	VariantBasic      = "v1"
	VariantStructured = "v2"
	DefaultVariant    = VariantStructured
)

// Variants lists the prompt variants the CLI accepts.
func Variants() []string {
	return []string{VariantMinimal, VariantBasic, VariantStructured}
}

// IsKnownVariant reports whether v is an accepted prompt variant.
func IsKnownVariant(v string) bool {
	for _, known := range Variants() {
		if v == known {
			return true
		}
	}
	return false
}

// Render substitutes input into every placeholder of template.
func Render(template, input string) string {
	return strings.ReplaceAll(template, Placeholder, input)
}

// PromptSource supplies the template text for a prompt variant.
type PromptSource interface {
	Template(variant string) string
}

// DirPromptSource loads prompt_<variant>.txt files from a directory.
type DirPromptSource struct {
	dir    string
	logger *zap.Logger
}

// NewDirPromptSource creates a template source rooted at dir.
func NewDirPromptSource(dir string, logger *zap.Logger) *DirPromptSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirPromptSource{dir: dir, logger: logger.With(zap.String("component", "prompts"))}
}

// Path returns the file a variant is read from.
func (s *DirPromptSource) Path(variant string) string {
	return filepath.Join(s.dir, fmt.Sprintf("prompt_%s.txt", variant))
}

// Template returns the variant's template, or FallbackTemplate when the file
// cannot be read. It never fails.
func (s *DirPromptSource) Template(variant string) string {
	path := s.Path(variant)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("prompt template not found, using fallback",
				zap.String("variant", variant),
				zap.String("path", path),
			)
		} else {
			s.logger.Warn("prompt template unreadable, using fallback",
				zap.String("variant", variant),
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return FallbackTemplate
	}
	if !strings.Contains(string(data), Placeholder) {
		s.logger.Warn("prompt template has no placeholder, input will not be embedded",
			zap.String("variant", variant),
			zap.String("placeholder", Placeholder),
		)
	}
	return string(data)
}

// StaticPromptSource returns the same template for every variant.
type StaticPromptSource string

// Template implements PromptSource.
func (s StaticPromptSource) Template(string) string {
	if s == "" {
		return FallbackTemplate
	}
	return string(s)
}
