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
	"context"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kong/go-kong/kong"
	"github.com/onsi/gomega"
	"github.com/samber/lo"

	"k8s.io/utils/ptr"
)

// Case is a single test case run between setup and teardown.
type Case struct {
	Name string
	Run  func(ctx context.Context, g gomega.Gomega, state *State)
}

// Cases returns the test cases in the order they run.  Later cases depend
// on the route created by earlier ones.
func (r *Runner) Cases() []Case {
	return []Case{
		{
			Name: "service is created with the requested upstream",
			Run: func(_ context.Context, g gomega.Gomega, state *State) {
				ExpectServiceEchoed(g, state.Service, r.fixture.Service)
			},
		},
		{
			Name: "route is created and bound to the service",
			Run:  r.CreateRoute,
		},
		{
			Name: "route is persisted",
			Run:  r.VerifyRoute,
		},
		{
			Name: "service is persisted",
			Run:  r.VerifyService,
		},
	}
}

// values dereferences a go-kong string slice.
func values(in []*string) []string {
	return lo.Map(in, func(s *string, _ int) string {
		return ptr.Deref(s, "")
	})
}

// ExpectServiceEchoed asserts a service returned by the admin API matches
// the definition it was created from.
func ExpectServiceEchoed(g gomega.Gomega, actual, expected *kong.Service) {
	g.Expect(actual).NotTo(gomega.BeNil(), "service was not created")
	g.Expect(actual.ID).To(gomega.HaveValue(gomega.Not(gomega.BeEmpty())), "service has no ID")
	g.Expect(actual.Name).To(gomega.HaveValue(gomega.Equal(ptr.Deref(expected.Name, ""))), "service name mismatch")
	g.Expect(actual.Protocol).To(gomega.HaveValue(gomega.Equal(ptr.Deref(expected.Protocol, ""))), "service protocol mismatch")
	g.Expect(actual.Host).To(gomega.HaveValue(gomega.Equal(ptr.Deref(expected.Host, ""))), "service host mismatch")
	g.Expect(actual.Port).To(gomega.HaveValue(gomega.Equal(ptr.Deref(expected.Port, 0))), "service port mismatch")
	g.Expect(UpstreamURL(actual)).To(gomega.Equal(UpstreamURL(expected)), "service upstream URL mismatch")
}

// ExpectRouteEchoed asserts a route returned by the admin API matches the
// definition it was created from, and is bound to the expected service.
func ExpectRouteEchoed(g gomega.Gomega, actual, expected *kong.Route, serviceID string) {
	g.Expect(actual).NotTo(gomega.BeNil(), "route was not created")
	g.Expect(actual.Name).To(gomega.HaveValue(gomega.Equal(ptr.Deref(expected.Name, ""))), "route name mismatch")
	g.Expect(cmp.Diff(values(expected.Paths), values(actual.Paths))).To(gomega.BeEmpty(), "route paths mismatch")
	g.Expect(cmp.Diff(values(expected.Methods), values(actual.Methods), cmpopts.SortSlices(func(a, b string) bool { return a < b }))).To(gomega.BeEmpty(), "route methods mismatch")
	g.Expect(actual.StripPath).To(gomega.HaveValue(gomega.Equal(ptr.Deref(expected.StripPath, false))), "route strip_path mismatch")
	ExpectRouteBound(g, actual, serviceID)
}

// ExpectRouteBound asserts a route references the expected service.
func ExpectRouteBound(g gomega.Gomega, route *kong.Route, serviceID string) {
	g.Expect(route.Service).NotTo(gomega.BeNil(), "route has no service reference")
	g.Expect(route.Service.ID).To(gomega.HaveValue(gomega.Equal(serviceID)), "route service ID mismatch")
}

// CreateRoute creates the route under the service recorded during setup.
// Creation must answer 201 Created, which the client enforces.
func (r *Runner) CreateRoute(ctx context.Context, g gomega.Gomega, state *State) {
	route, err := r.client.CreateRoute(ctx, state.ServiceName, r.fixture.Route)
	g.Expect(err).NotTo(gomega.HaveOccurred(), "route creation failed")

	state.Route = route
	state.RouteID = ptr.Deref(route.ID, "")

	ExpectRouteEchoed(g, route, r.fixture.Route, state.ServiceID)
}

// VerifyRoute re-reads the route to prove it was persisted, not merely
// echoed by the create call.
func (r *Runner) VerifyRoute(ctx context.Context, g gomega.Gomega, state *State) {
	route, err := r.client.GetRoute(ctx, state.RouteName)
	g.Expect(err).NotTo(gomega.HaveOccurred(), "route could not be read")
	g.Expect(values(route.Paths)).To(gomega.ContainElements(values(r.fixture.Route.Paths)), "persisted route paths mismatch")

	ExpectRouteBound(g, route, state.ServiceID)
}

// VerifyService re-reads the service to prove its upstream was persisted.
func (r *Runner) VerifyService(ctx context.Context, g gomega.Gomega, state *State) {
	service, err := r.client.GetService(ctx, state.ServiceName)
	g.Expect(err).NotTo(gomega.HaveOccurred(), "service could not be read")
	g.Expect(service.ID).To(gomega.HaveValue(gomega.Equal(state.ServiceID)), "persisted service ID mismatch")
	g.Expect(service.Protocol).To(gomega.HaveValue(gomega.Equal(ptr.Deref(r.fixture.Service.Protocol, ""))), "persisted service protocol mismatch")
	g.Expect(service.Host).To(gomega.HaveValue(gomega.Equal(ptr.Deref(r.fixture.Service.Host, ""))), "persisted service host mismatch")
	g.Expect(service.Port).To(gomega.HaveValue(gomega.Equal(ptr.Deref(r.fixture.Service.Port, 0))), "persisted service port mismatch")
}
