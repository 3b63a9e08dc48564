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
	"fmt"
	"time"

	"github.com/onsi/gomega"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/adminapi"
	"github.com/unikorn-cloud/kong-lifecycle/pkg/config"

	"k8s.io/utils/ptr"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Options tune a runner.
type Options struct {
	// ConsistencyInterval is how often to check deletions are visible.
	ConsistencyInterval time.Duration

	// ConsistencyTimeout bounds how long to wait for deletions to be visible.
	ConsistencyTimeout time.Duration
}

// OptionsFromConfig extracts runner options from harness configuration.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		ConsistencyInterval: c.ConsistencyInterval,
		ConsistencyTimeout:  c.ConsistencyTimeout,
	}
}

// Runner drives a single resource lifecycle against an admin API.
type Runner struct {
	client  adminapi.ClientInterface
	fixture *Fixture
	options Options
}

// NewRunner returns a new runner.
func NewRunner(client adminapi.ClientInterface, fixture *Fixture, options Options) *Runner {
	if options.ConsistencyInterval <= 0 {
		options.ConsistencyInterval = 250 * time.Millisecond
	}

	if options.ConsistencyTimeout <= 0 {
		options.ConsistencyTimeout = 5 * time.Second
	}

	return &Runner{
		client:  client,
		fixture: fixture,
		options: options,
	}
}

// Fixture returns the resources the runner creates.
func (r *Runner) Fixture() *Fixture {
	return r.fixture
}

// Setup removes anything left over from a previous run, route first as it
// references the service, then creates the service.  The returned state is
// always usable by Teardown, even when an error is returned.
func (r *Runner) Setup(ctx context.Context) (*State, error) {
	logger := log.FromContext(ctx).WithValues("phase", "setup")
	ctx = log.IntoContext(ctx, logger)

	state := newState(r.fixture)

	r.remove(ctx, r.routes(), state.RouteName)
	r.remove(ctx, r.services(), state.ServiceName)

	service, err := r.client.CreateService(ctx, r.fixture.Service)
	if err != nil {
		return state, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	state.Service = service
	state.ServiceID = ptr.Deref(service.ID, "")

	logger.Info("service created", "name", state.ServiceName, "id", state.ServiceID)

	return state, nil
}

// Teardown deletes the route then the service and checks neither remains.
// It always runs every step, and never fails.
func (r *Runner) Teardown(ctx context.Context, state *State) *TeardownReport {
	logger := log.FromContext(ctx).WithValues("phase", "teardown")
	ctx = log.IntoContext(ctx, logger)

	routes := r.routes()
	services := r.services()

	report := &TeardownReport{
		Route:   r.remove(ctx, routes, state.RouteName),
		Service: r.remove(ctx, services, state.ServiceName),
	}

	report.Residual = r.awaitAbsence(ctx, []probe{
		{
			resource: resourceName(services.kind, state.ServiceName),
			exists: func(ctx context.Context) error {
				return services.get(ctx, state.ServiceName)
			},
		},
		{
			resource: resourceName(routes.kind, state.RouteName),
			exists: func(ctx context.Context) error {
				return routes.get(ctx, state.RouteName)
			},
		},
	})

	return report
}

// Run executes setup, every test case and teardown, in that order.
// Teardown runs to completion even if the context is cancelled.
func (r *Runner) Run(ctx context.Context) *Report {
	log := log.FromContext(ctx)

	report := &Report{}

	state, err := r.Setup(ctx)
	if err != nil {
		log.Error(err, "setup failed, skipping test cases")

		report.SetupErr = err
	}

	for _, c := range r.Cases() {
		if err != nil {
			report.Cases = append(report.Cases, CaseResult{Name: c.Name, Skipped: true})
			continue
		}

		result := runCase(ctx, c, state)
		if result.Err != nil {
			log.Error(result.Err, "test case failed", "case", c.Name)
		} else {
			log.Info("test case passed", "case", c.Name)
		}

		report.Cases = append(report.Cases, result)
	}

	report.Teardown = r.Teardown(context.WithoutCancel(ctx), state)

	return report
}

// caseFailure is raised by the fail handler to abort a test case.
type caseFailure struct {
	message string
}

// runCase runs a test case, a failed expectation aborting that case only.
func runCase(ctx context.Context, c Case, state *State) (result CaseResult) {
	result.Name = c.Name

	defer func() {
		if r := recover(); r != nil {
			if failure, ok := r.(caseFailure); ok {
				result.Err = fmt.Errorf("%w: %s", ErrAssertion, failure.message)
				return
			}

			result.Err = fmt.Errorf("%w: %v", ErrCasePanicked, r)
		}
	}()

	g := gomega.NewGomega(func(message string, _ ...int) {
		panic(caseFailure{message: message})
	})

	c.Run(ctx, g, state)

	return result
}
