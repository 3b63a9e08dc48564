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

package adminapi

import (
	"errors"
)

var (
	// ErrNotFound is raised when the admin API reports an entity is absent.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is raised when an entity with the same unique key exists.
	ErrConflict = errors.New("resource conflict")

	// ErrUnexpectedStatus is raised when the admin API returns a status
	// code the operation does not handle.
	ErrUnexpectedStatus = errors.New("unexpected status code")
)
