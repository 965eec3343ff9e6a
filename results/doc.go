// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package results consumes terminal pipeline results.

  - JSONWriter writes the batch summary
    {prompt_version, total, ok, failed, results} as indented UTF-8 JSON.
  - Store keeps a run history table through gorm, one row per item, grouped
    by a UUID run id.
*/
package results
