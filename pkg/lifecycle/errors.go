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

// Package lifecycle runs the create, verify and teardown phases of an admin
// API resource lifecycle check.
//
// Setup removes anything left behind by an earlier run and creates the
// parent service.  The test cases create a route bound to that service and
// read both back to prove they were persisted.  Teardown deletes the route
// then the service, falling back to a list-and-match lookup when deletion by
// name fails, and finally polls until neither can be read.  Cleanup never
// fails a run; anything left behind is reported for manual removal.
package lifecycle

import (
	"errors"
)

var (
	// ErrSetup is raised when the parent service cannot be created.
	ErrSetup = errors.New("setup failed")

	// ErrAssertion is raised when a test case expectation is not met.
	ErrAssertion = errors.New("assertion failed")

	// ErrCasePanicked is raised when a test case panics for a reason other
	// than a failed expectation.
	ErrCasePanicked = errors.New("test case panicked")
)
