package gemini

import (
	"strings"

	"google.golang.org/genai"

	"github.com/BaSui01/clinicalflow/structured"
)

// ResponseSchema builds the response schema descriptor from the contract table.
func ResponseSchema() *genai.Schema {
	root := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
	objects := map[string]*genai.Schema{"": root}

	for _, f := range structured.Contract {
		parentPath, name := "", f.Path
		if i := strings.LastIndex(f.Path, "."); i >= 0 {
			parentPath, name = f.Path[:i], f.Path[i+1:]
		}
		parent, ok := objects[parentPath]
		if !ok {
			continue
		}

		s := fieldSchema(f)
		parent.Properties[name] = s
		parent.Required = append(parent.Required, name)
		parent.PropertyOrdering = append(parent.PropertyOrdering, name)
		if f.Kind == structured.KindObject {
			objects[f.Path] = s
		}
	}
	return root
}

func fieldSchema(f structured.FieldConstraint) *genai.Schema {
	switch f.Kind {
	case structured.KindBool:
		return &genai.Schema{Type: genai.TypeBoolean, Description: f.Description}
	case structured.KindEnum:
		return &genai.Schema{Type: genai.TypeString, Format: "enum", Enum: f.Enum, Description: f.Description}
	case structured.KindObject:
		return &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}, Description: f.Description}
	case structured.KindStringList:
		s := &genai.Schema{
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: f.Description,
		}
		if f.Min > 0 {
			s.MinItems = genai.Ptr[int64](int64(f.Min))
		}
		if f.Max > 0 {
			s.MaxItems = genai.Ptr[int64](int64(f.Max))
		}
		return s
	default:
		return &genai.Schema{Type: genai.TypeString, Description: f.Description}
	}
}

// SafetyOverrides disables blocking on every category clinical text trips.
func SafetyOverrides() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryCivicIntegrity,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}
