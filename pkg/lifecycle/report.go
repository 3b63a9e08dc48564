/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package lifecycle

import (
	"github.com/unikorn-cloud/kong-lifecycle/pkg/adminapi"
)

// CaseResult is the outcome of a single test case.
type CaseResult struct {
	Name    string
	Err     error
	Skipped bool
}

// Passed returns true if the case ran and met every expectation.
func (r CaseResult) Passed() bool {
	return !r.Skipped && r.Err == nil
}

// TeardownReport records what cleanup achieved.
type TeardownReport struct {
	Route   adminapi.DeleteOutcome
	Service adminapi.DeleteOutcome

	// Residual lists resources that could still be read after teardown
	// and need removing by hand.
	Residual []string
}

// Clean returns true if nothing was left behind.
func (r *TeardownReport) Clean() bool {
	return r != nil && len(r.Residual) == 0
}

// Report is the outcome of a whole run.
type Report struct {
	SetupErr error
	Cases    []CaseResult
	Teardown *TeardownReport
}

// Failures returns the cases that ran and failed.
func (r *Report) Failures() []CaseResult {
	var failures []CaseResult

	for _, c := range r.Cases {
		if c.Err != nil {
			failures = append(failures, c)
		}
	}

	return failures
}

// OK returns true if setup succeeded and every case passed.  Teardown
// residuals are reported but do not fail a run.
func (r *Report) OK() bool {
	return r.SetupErr == nil && len(r.Failures()) == 0
}
