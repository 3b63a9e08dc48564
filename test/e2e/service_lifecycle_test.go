//nolint:testpackage,revive // dot imports standard for Ginkgo
package e2e

import (
	"github.com/kong/go-kong/kong"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/adminapi"
	"github.com/unikorn-cloud/kong-lifecycle/pkg/lifecycle"

	"k8s.io/utils/ptr"
)

var _ = Describe("Service Lifecycle", func() {
	var fixture *lifecycle.Fixture

	BeforeEach(func() {
		c := *cfg
		c.UniqueNames = true
		c.ServiceName = "service-only"
		fixture = lifecycle.NewFixture(&c)
	})

	Context("When creating a service", func() {
		Describe("Given a valid upstream", func() {
			It("should create, read and delete it", func() {
				service, err := client.CreateService(ctx, fixture.Service)
				Expect(err).NotTo(HaveOccurred())

				DeferCleanup(func() {
					_, _ = client.DeleteService(ctx, fixture.ServiceName())
				})

				lifecycle.ExpectServiceEchoed(Default, service, fixture.Service)

				persisted, err := client.GetService(ctx, fixture.ServiceName())
				Expect(err).NotTo(HaveOccurred())
				Expect(persisted.ID).To(Equal(service.ID))

				services, err := client.ListServices(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(services).To(ContainElement(HaveField("Name", HaveValue(Equal(fixture.ServiceName())))))

				outcome, err := client.DeleteService(ctx, fixture.ServiceName())
				Expect(err).NotTo(HaveOccurred())
				Expect(outcome).To(Equal(adminapi.OutcomeDeleted))
			})
		})

		Describe("Given a duplicate name", func() {
			It("should report a conflict", func() {
				_, err := client.CreateService(ctx, fixture.Service)
				Expect(err).NotTo(HaveOccurred())

				DeferCleanup(func() {
					_, _ = client.DeleteService(ctx, fixture.ServiceName())
				})

				_, err = client.CreateService(ctx, fixture.Service)
				Expect(err).To(MatchError(adminapi.ErrConflict))
			})
		})

		Describe("Given an invalid upstream", func() {
			It("should be rejected", func() {
				invalid := fixture.Service.DeepCopy()
				invalid.Port = ptr.To(70000)

				_, err := client.CreateService(ctx, invalid)
				Expect(err).To(MatchError(adminapi.ErrUnexpectedStatus))
				Expect(err.Error()).To(ContainSubstring("400"))
			})
		})
	})

	Context("When deleting a service that doesn't exist", func() {
		It("should not need a fallback", func() {
			// Kong answers 204 for absent entities, the fake answers 404.
			outcome, err := client.DeleteService(ctx, fixture.ServiceName())
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(BeElementOf(adminapi.OutcomeNotFound, adminapi.OutcomeDeleted))
		})
	})

	Context("When reading a route that doesn't exist", func() {
		It("should report it as not found", func() {
			_, err := client.GetRoute(ctx, "missing-"+fixture.ServiceName())
			Expect(err).To(MatchError(adminapi.ErrNotFound))
		})
	})

	Context("When creating a route for a service that doesn't exist", func() {
		It("should be rejected", func() {
			_, err := client.CreateRoute(ctx, fixture.ServiceName(), &kong.Route{
				Name:  ptr.To("orphan-" + fixture.ServiceName()),
				Paths: kong.StringSlice("/orphan"),
			})
			Expect(err).To(MatchError(adminapi.ErrNotFound))
		})
	})
})
