// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package structured defines the clinical analysis schema contract and the pure
steps that turn raw model text into a validated ClinicalOutput.

# Main types

  - ClinicalOutput / RiskAssessment / ClinicalReport: the validated record
  - Contract / FieldConstraint: static field table (type, cardinality, enum)
  - ParseError / ValidationErrors: violation records with field path and kind;
    Validate returns ValidationErrors and Messages renders the correction lines
  - PromptSource: template lookup per prompt variant with a hardcoded fallback

# Steps

  - Normalize strips markdown fences around a payload
  - Validate decodes and checks every contract row, collecting all violations
  - BuildCorrectionPrompt asks the model to repair only the reported problems

None of these perform I/O except DirPromptSource.
*/
package structured
