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

package adminapi

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoints contains all admin API endpoint patterns.
type Endpoints struct {
	prefix string
}

// NewEndpoints creates a new Endpoints instance, optionally scoped to
// a workspace.
func NewEndpoints(workspace string) *Endpoints {
	e := &Endpoints{}

	if workspace = strings.Trim(workspace, "/"); workspace != "" {
		e.prefix = "/" + url.PathEscape(workspace)
	}

	return e
}

// Status endpoint, which is never workspace scoped.
func (e *Endpoints) Status() string {
	return "/status"
}

// Service endpoints.
func (e *Endpoints) Services() string {
	return e.prefix + "/services"
}

func (e *Endpoints) Service(nameOrID string) string {
	return fmt.Sprintf("%s/services/%s", e.prefix, url.PathEscape(nameOrID))
}

// Route endpoints.
func (e *Endpoints) Routes() string {
	return e.prefix + "/routes"
}

func (e *Endpoints) Route(nameOrID string) string {
	return fmt.Sprintf("%s/routes/%s", e.prefix, url.PathEscape(nameOrID))
}

func (e *Endpoints) ServiceRoutes(serviceNameOrID string) string {
	return fmt.Sprintf("%s/services/%s/routes", e.prefix, url.PathEscape(serviceNameOrID))
}

// Page appends pagination parameters to a list endpoint.
func Page(path string, size int, offset string) string {
	values := url.Values{}
	values.Set("size", fmt.Sprint(size))

	if offset != "" {
		values.Set("offset", offset)
	}

	return path + "?" + values.Encode()
}
