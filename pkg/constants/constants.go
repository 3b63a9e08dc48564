/*
Copyright 2024-2025 the Unikorn Authors.
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

package constants

var (
	// Application is the application name.
	//nolint:gochecknoglobals
	Application = "kong-lifecycle"

	// Version is the application version set via the Makefile.
	//nolint:gochecknoglobals
	Version = "0.0.0"

	// Revision is the git revision set via the Makefile.
	//nolint:gochecknoglobals
	Revision = "unknown"
)

// VersionString returns a canonical version string.
func VersionString() string {
	return Application + "/" + Version + " (revision/" + Revision + ")"
}
