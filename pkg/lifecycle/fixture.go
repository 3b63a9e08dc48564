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

package lifecycle

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/kong/go-kong/kong"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/config"

	"k8s.io/utils/ptr"
)

// Fixture describes the resources a run creates.
type Fixture struct {
	Service *kong.Service
	Route   *kong.Route
}

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

// NewFixture builds the resource definitions from configuration.
// The service is defined with discrete protocol, host and port fields rather
// than a URL, which the admin API would otherwise have to parse.
func NewFixture(c *config.Config) *Fixture {
	serviceName := c.ServiceName
	routeName := c.RouteName

	if c.UniqueNames {
		serviceName = generateRandomName(serviceName)
		routeName = generateRandomName(routeName)
	}

	return &Fixture{
		Service: &kong.Service{
			Name:     ptr.To(serviceName),
			Protocol: ptr.To(c.UpstreamProtocol),
			Host:     ptr.To(c.UpstreamHost),
			Port:     ptr.To(c.UpstreamPort),
		},
		Route: &kong.Route{
			Name:      ptr.To(routeName),
			Paths:     kong.StringSlice(c.RoutePaths...),
			Methods:   kong.StringSlice(c.RouteMethods...),
			StripPath: ptr.To(c.RouteStripPath),
		},
	}
}

// ServiceName returns the name of the fixture's service.
func (f *Fixture) ServiceName() string {
	return ptr.Deref(f.Service.Name, "")
}

// RouteName returns the name of the fixture's route.
func (f *Fixture) RouteName() string {
	return ptr.Deref(f.Route.Name, "")
}

// UpstreamURL reconstructs the upstream URL a service proxies to.
func UpstreamURL(service *kong.Service) string {
	return fmt.Sprintf("%s://%s:%d", ptr.Deref(service.Protocol, ""), ptr.Deref(service.Host, ""), ptr.Deref(service.Port, 0))
}

// State carries what the admin API returned from one phase to the next.
// It lives for a single run.
type State struct {
	ServiceName string
	RouteName   string
	ServiceID   string
	RouteID     string

	// Service is the service as returned on creation.
	Service *kong.Service

	// Route is the route as returned on creation.
	Route *kong.Route
}

func newState(f *Fixture) *State {
	return &State{
		ServiceName: f.ServiceName(),
		RouteName:   f.RouteName(),
	}
}
