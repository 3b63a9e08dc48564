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
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/kong/go-kong/kong"
	"github.com/onsi/gomega"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/adminapi"
	"github.com/unikorn-cloud/kong-lifecycle/pkg/adminapi/mock"

	"k8s.io/utils/ptr"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var errTransport = errors.New("connection reset")

func newMockRunner(t *testing.T) (*Runner, *mock.MockClientInterface) {
	t.Helper()

	c := gomock.NewController(t)
	client := mock.NewMockClientInterface(c)

	options := Options{
		ConsistencyInterval: time.Millisecond,
		ConsistencyTimeout:  50 * time.Millisecond,
	}

	return NewRunner(client, &Fixture{}, options), client
}

// TestRemoveDeletedByName ensures no listing happens when deletion by name works.
func TestRemoveDeletedByName(t *testing.T) {
	t.Parallel()

	r, client := newMockRunner(t)

	client.EXPECT().DeleteRoute(gomock.Any(), "rt").Return(adminapi.OutcomeDeleted, nil)

	require.Equal(t, adminapi.OutcomeDeleted, r.remove(t.Context(), r.routes(), "rt"))
}

// TestRemoveNotFound ensures a missing entity is not looked up.
func TestRemoveNotFound(t *testing.T) {
	t.Parallel()

	r, client := newMockRunner(t)

	client.EXPECT().DeleteService(gomock.Any(), "svc").Return(adminapi.OutcomeNotFound, nil)

	require.Equal(t, adminapi.OutcomeNotFound, r.remove(t.Context(), r.services(), "svc"))
}

// TestRemoveFallback ensures a failed deletion by name is retried by ID.
func TestRemoveFallback(t *testing.T) {
	t.Parallel()

	r, client := newMockRunner(t)

	services := []*kong.Service{
		{ID: ptr.To("id-1"), Name: ptr.To("other")},
		{ID: ptr.To("id-2"), Name: ptr.To("svc")},
	}

	gomock.InOrder(
		client.EXPECT().DeleteService(gomock.Any(), "svc").Return(adminapi.OutcomeNeedsFallback, errTransport),
		client.EXPECT().ListServices(gomock.Any()).Return(services, nil),
		client.EXPECT().DeleteService(gomock.Any(), "id-2").Return(adminapi.OutcomeDeleted, nil),
	)

	require.Equal(t, adminapi.OutcomeDeleted, r.remove(t.Context(), r.services(), "svc"))
}

// TestRemoveFallbackAbsent ensures nothing is deleted when the listing
// doesn't contain the entity.
func TestRemoveFallbackAbsent(t *testing.T) {
	t.Parallel()

	r, client := newMockRunner(t)

	routes := []*kong.Route{
		{ID: ptr.To("id-1"), Name: ptr.To("other")},
	}

	gomock.InOrder(
		client.EXPECT().DeleteRoute(gomock.Any(), "rt").Return(adminapi.OutcomeNeedsFallback, errTransport),
		client.EXPECT().ListRoutes(gomock.Any()).Return(routes, nil),
	)

	require.Equal(t, adminapi.OutcomeNotFound, r.remove(t.Context(), r.routes(), "rt"))
}

// TestRemoveFallbackListFails ensures listing errors are not fatal.
func TestRemoveFallbackListFails(t *testing.T) {
	t.Parallel()

	r, client := newMockRunner(t)

	gomock.InOrder(
		client.EXPECT().DeleteRoute(gomock.Any(), "rt").Return(adminapi.OutcomeNeedsFallback, errTransport),
		client.EXPECT().ListRoutes(gomock.Any()).Return(nil, errTransport),
	)

	require.Equal(t, adminapi.OutcomeNeedsFallback, r.remove(t.Context(), r.routes(), "rt"))
}

// TestRemoveFallbackDeleteFails ensures a failed deletion by ID is reported.
func TestRemoveFallbackDeleteFails(t *testing.T) {
	t.Parallel()

	r, client := newMockRunner(t)

	services := []*kong.Service{
		{ID: ptr.To("id-1"), Name: ptr.To("svc")},
	}

	gomock.InOrder(
		client.EXPECT().DeleteService(gomock.Any(), "svc").Return(adminapi.OutcomeNeedsFallback, errTransport),
		client.EXPECT().ListServices(gomock.Any()).Return(services, nil),
		client.EXPECT().DeleteService(gomock.Any(), "id-1").Return(adminapi.OutcomeNeedsFallback, errTransport),
	)

	require.Equal(t, adminapi.OutcomeNeedsFallback, r.remove(t.Context(), r.services(), "svc"))
}

// recorder keeps every log line written through it.
type recorder struct {
	lock  sync.Mutex
	lines []string
}

func (r *recorder) logger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		r.lock.Lock()
		defer r.lock.Unlock()

		r.lines = append(r.lines, prefix+" "+args)
	}, funcr.Options{})
}

func (r *recorder) contains(s string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, line := range r.lines {
		if strings.Contains(line, s) {
			return true
		}
	}

	return false
}

// TestRemoveFallbackRaced ensures an entity that disappears between listing
// and deletion by ID is reported as gone, without asking for manual removal.
func TestRemoveFallbackRaced(t *testing.T) {
	t.Parallel()

	r, client := newMockRunner(t)

	logs := &recorder{}
	ctx := log.IntoContext(t.Context(), logs.logger())

	services := []*kong.Service{
		{ID: ptr.To("id-1"), Name: ptr.To("svc")},
	}

	gomock.InOrder(
		client.EXPECT().DeleteService(gomock.Any(), "svc").Return(adminapi.OutcomeNeedsFallback, errTransport),
		client.EXPECT().ListServices(gomock.Any()).Return(services, nil),
		client.EXPECT().DeleteService(gomock.Any(), "id-1").Return(adminapi.OutcomeNotFound, nil),
	)

	require.Equal(t, adminapi.OutcomeNotFound, r.remove(ctx, r.services(), "svc"))
	require.True(t, logs.contains("nothing to delete"))
	require.False(t, logs.contains("manual removal"))
}

// TestAwaitAbsence ensures resources are polled until they disappear.
func TestAwaitAbsence(t *testing.T) {
	t.Parallel()

	r, _ := newMockRunner(t)

	reads := 0

	probes := []probe{
		{
			resource: "services/svc",
			exists: func(context.Context) error {
				reads++

				if reads < 3 {
					return nil
				}

				return adminapi.ErrNotFound
			},
		},
	}

	require.Empty(t, r.awaitAbsence(t.Context(), probes))
	require.Equal(t, 3, reads)
}

// TestAwaitAbsenceResidual ensures resources that never go away, or can't be
// read, are reported.
func TestAwaitAbsenceResidual(t *testing.T) {
	t.Parallel()

	r, _ := newMockRunner(t)

	probes := []probe{
		{
			resource: "services/svc",
			exists: func(context.Context) error {
				return nil
			},
		},
		{
			resource: "routes/rt",
			exists: func(context.Context) error {
				return adminapi.ErrNotFound
			},
		},
		{
			resource: "routes/broken",
			exists: func(context.Context) error {
				return errTransport
			},
		},
	}

	require.Equal(t, []string{"services/svc", "routes/broken"}, r.awaitAbsence(t.Context(), probes))
}

// TestSetupIgnoresCleanupFailures ensures stale state that can't be removed
// doesn't stop the service being created.
func TestSetupIgnoresCleanupFailures(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	client := mock.NewMockClientInterface(c)

	fixture := &Fixture{
		Service: &kong.Service{Name: ptr.To("svc"), Host: ptr.To("example.com")},
		Route:   &kong.Route{Name: ptr.To("rt")},
	}

	r := NewRunner(client, fixture, Options{})

	gomock.InOrder(
		client.EXPECT().DeleteRoute(gomock.Any(), "rt").Return(adminapi.OutcomeNeedsFallback, errTransport),
		client.EXPECT().ListRoutes(gomock.Any()).Return(nil, errTransport),
		client.EXPECT().DeleteService(gomock.Any(), "svc").Return(adminapi.OutcomeNotFound, nil),
		client.EXPECT().CreateService(gomock.Any(), fixture.Service).Return(&kong.Service{ID: ptr.To("id-1"), Name: ptr.To("svc")}, nil),
	)

	state, err := r.Setup(t.Context())
	require.NoError(t, err)
	require.Equal(t, "id-1", state.ServiceID)
	require.Equal(t, "svc", state.ServiceName)
	require.Equal(t, "rt", state.RouteName)
}

// TestRunCasePanic ensures an unexpected panic fails only the case.
func TestRunCasePanic(t *testing.T) {
	t.Parallel()

	result := runCase(t.Context(), Case{
		Name: "boom",
		Run: func(context.Context, gomega.Gomega, *State) {
			panic("boom")
		},
	}, &State{})

	require.ErrorIs(t, result.Err, ErrCasePanicked)
	require.False(t, result.Passed())
}
