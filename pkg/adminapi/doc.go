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

// Package adminapi provides a client for the subset of the Kong Admin API
// exercised by the lifecycle harness.
//
// # Separate Client Implementation
//
// This package maintains its own HTTP client rather than driving the admin
// API through the go-kong client, borrowing only its entity types. Having an
// independent client keeps every status code and response body directly
// visible to the harness, which needs to branch on them (for example to
// decide whether a deletion requires the list-and-match fallback).
//
// Test-specific features include:
//   - W3C trace context propagation for request correlation
//   - Optional request and response logging
//   - Separate timeouts for deletions, which may cascade
//   - Transparent pagination when listing entities
package adminapi
