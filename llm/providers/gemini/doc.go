// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package gemini implements llm.Generator on top of the official Google GenAI
SDK (google.golang.org/genai).

# Request shape

Every call asks for application/json output, sends a response schema derived
from structured.Contract and disables the default content filters on the
dangerous content, harassment, hate speech, sexually explicit and civic
integrity categories, since clinical risk narratives legitimately trigger
them.

# Failures

SDK and HTTP errors are mapped to *llm.GenerationFailure codes. The provider
never retries and never caches; one Generate call is one outbound request,
bounded by the configured timeout.
*/
package gemini
