package structured

import "strings"

// BuildCorrectionPrompt asks the model to repair a previous invalid answer.
// The input text and the previous raw response are embedded verbatim and
// every error gets its own line. Nothing is truncated.
func BuildCorrectionPrompt(inputText, previousRaw string, errs []string) string {
	var sb strings.Builder

	sb.WriteString("CORRECTION REQUIRED: your previous answer did not pass schema validation.\n\n")

	sb.WriteString("ORIGINAL TEXT:\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\n")

	sb.WriteString("YOUR PREVIOUS OUTPUT (INVALID):\n")
	sb.WriteString(previousRaw)
	sb.WriteString("\n\n")

	sb.WriteString("ERRORS REPORTED BY THE VALIDATOR:\n")
	for _, e := range errs {
		sb.WriteString("- ")
		sb.WriteString(strings.ReplaceAll(e, "\n", " "))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("TASK:\n")
	sb.WriteString("Regenerate the complete JSON document, fixing ONLY the errors listed above.\n")
	sb.WriteString("Keep every other field as it was and preserve the original schema exactly:\n")
	sb.WriteString("same field names, same types, same list size limits and enumeration values.\n")
	sb.WriteString("Respond with the JSON object only.\n")

	return sb.String()
}
