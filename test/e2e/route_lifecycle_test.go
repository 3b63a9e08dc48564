//nolint:testpackage,revive // dot imports standard for Ginkgo
package e2e

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/adminapi"
	"github.com/unikorn-cloud/kong-lifecycle/pkg/lifecycle"
)

var _ = Describe("Service and Route Lifecycle", Ordered, func() {
	var (
		runner *lifecycle.Runner
		state  *lifecycle.State
	)

	BeforeAll(func() {
		c := adminapi.NewFromConfig(cfg)
		runner = lifecycle.NewRunner(c, lifecycle.NewFixture(cfg), lifecycle.OptionsFromConfig(cfg))

		s, err := runner.Setup(context.Background())
		state = s

		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if state == nil {
			return
		}

		report := runner.Teardown(context.Background(), state)

		for _, resource := range report.Residual {
			AddReportEntry("residual resource", resource)
		}
	})

	Context("When the service has been created", func() {
		It("should echo the requested upstream", func() {
			lifecycle.ExpectServiceEchoed(Default, state.Service, runner.Fixture().Service)
		})
	})

	Context("When a route is created for the service", func() {
		It("should be bound to the service", func() {
			runner.CreateRoute(ctx, Default, state)
		})

		It("should be persisted", func() {
			runner.VerifyRoute(ctx, Default, state)
		})

		It("should not remove the service", func() {
			runner.VerifyService(ctx, Default, state)
		})
	})

	Context("When the service still has routes", func() {
		It("should refuse to delete it", func() {
			outcome, err := client.DeleteService(ctx, state.ServiceName)
			Expect(err).To(HaveOccurred())
			Expect(outcome).To(Equal(adminapi.OutcomeNeedsFallback))
		})
	})
})
