// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package render formats pipeline results for the interactive console.

Formatter renders one pipeline.Result as a clinical report block: the
analysis text, the structural map (themes and signifiers), hypotheses, the
risk level coloured by severity, the report flag and the suggested
questions. Failed results render their accumulated error list instead.

Colour output follows the terminal profile detected by lipgloss for the
target writer; non-terminal writers receive plain text.
*/
package render
