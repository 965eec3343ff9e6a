// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package types holds the shared, dependency-free types of clinicalflow.

# Contents

  - Error / ErrorCode: structured errors carrying code, HTTP status,
    retryability and provider
  - Context helpers: WithRunID / WithIdentifier / WithPromptVariant

Every other package may import types; types imports nothing internal.
*/
package types
