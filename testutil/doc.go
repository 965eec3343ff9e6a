// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package testutil provides shared helpers for clinicalflow tests.

# Helpers

  - TestContext / CancelledContext: contexts
    cleaned up with t.Cleanup
  - WriteFile: writes a fixture file below t.TempDir()

# Subpackages

  - testutil/mocks: ScriptedGenerator replays scripted responses and
    failures and records every prompt it receives
  - testutil/fixtures: valid and invalid model payloads

# Usage

	gen := mocks.NewScriptedGenerator(
		mocks.Reply(fixtures.TooFewThemesJSON),
		mocks.Reply(fixtures.ValidJSON),
	)
*/
package testutil
