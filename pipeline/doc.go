// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package pipeline implements the self-correcting extraction loop.

Each item moves through an explicit state machine:

	Idle -> Generating -> Validating -> Success
	                          |
	                          +-> Correcting -> Validating (loop)
	                          +-> Exhausted

Validation failures, including empty or unparseable text, trigger a
correction prompt while AttemptCount is below the retry limit. Generation
failures and cancellation end the item immediately without consuming a
retry. At most RetryLimit+1 generation calls are made per item.

State values are never mutated in place: every transition returns a new
State. Machine.Run always yields a terminal Result; RunBatch fans items out
over an errgroup and returns results in input order.
*/
package pipeline
