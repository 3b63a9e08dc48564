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
	"fmt"
	"slices"

	"github.com/kong/go-kong/kong"
	"github.com/samber/lo"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/adminapi"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/ptr"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// collection abstracts the per-kind operations cleanup needs.
type collection struct {
	kind   adminapi.Kind
	delete func(ctx context.Context, nameOrID string) (adminapi.DeleteOutcome, error)
	lookup func(ctx context.Context, name string) (string, bool, error)
	get    func(ctx context.Context, nameOrID string) error
}

func (r *Runner) routes() *collection {
	return &collection{
		kind:   adminapi.KindRoute,
		delete: r.client.DeleteRoute,
		lookup: func(ctx context.Context, name string) (string, bool, error) {
			routes, err := r.client.ListRoutes(ctx)
			if err != nil {
				return "", false, err
			}

			route, ok := lo.Find(routes, func(x *kong.Route) bool {
				return ptr.Deref(x.Name, "") == name
			})
			if !ok {
				return "", false, nil
			}

			return ptr.Deref(route.ID, ""), true, nil
		},
		get: func(ctx context.Context, nameOrID string) error {
			_, err := r.client.GetRoute(ctx, nameOrID)
			return err
		},
	}
}

func (r *Runner) services() *collection {
	return &collection{
		kind:   adminapi.KindService,
		delete: r.client.DeleteService,
		lookup: func(ctx context.Context, name string) (string, bool, error) {
			services, err := r.client.ListServices(ctx)
			if err != nil {
				return "", false, err
			}

			service, ok := lo.Find(services, func(x *kong.Service) bool {
				return ptr.Deref(x.Name, "") == name
			})
			if !ok {
				return "", false, nil
			}

			return ptr.Deref(service.ID, ""), true, nil
		},
		get: func(ctx context.Context, nameOrID string) error {
			_, err := r.client.GetService(ctx, nameOrID)
			return err
		},
	}
}

// remove deletes an entity by name, and if that can't be confirmed, looks it
// up by listing the collection and deletes it by ID.  Nothing here is fatal,
// every failure is logged and reflected in the returned outcome.
func (r *Runner) remove(ctx context.Context, c *collection, name string) adminapi.DeleteOutcome {
	log := log.FromContext(ctx).WithValues("kind", c.kind, "name", name)

	outcome, err := c.delete(ctx, name)

	switch outcome {
	case adminapi.OutcomeDeleted:
		log.Info("deleted by name")

		return outcome
	case adminapi.OutcomeNotFound:
		log.Info("nothing to delete")

		return outcome
	case adminapi.OutcomeNeedsFallback:
	}

	log.Info("deletion by name failed, looking up by listing", "warning", true, "error", errorString(err))

	id, ok, err := c.lookup(ctx, name)
	if err != nil {
		log.Error(err, "listing failed, manual removal may be required")

		return adminapi.OutcomeNeedsFallback
	}

	if !ok {
		log.Info("not present in listing, nothing to delete")

		return adminapi.OutcomeNotFound
	}

	outcome, err = c.delete(ctx, id)

	switch outcome {
	case adminapi.OutcomeDeleted:
		log.Info("deleted by ID", "id", id)
	case adminapi.OutcomeNotFound:
		log.Info("gone before deletion by ID, nothing to delete", "id", id)
	case adminapi.OutcomeNeedsFallback:
		log.Error(err, "deletion by ID failed, manual removal required", "id", id)
	}

	return outcome
}

// probe is a resource that should no longer exist.
type probe struct {
	resource string
	exists   func(ctx context.Context) error
}

// awaitAbsence polls until every resource reads as not found, or gives up
// after the consistency timeout.  It returns whatever is still present.
func (r *Runner) awaitAbsence(ctx context.Context, probes []probe) []string {
	log := log.FromContext(ctx)

	pending := slices.Clone(probes)

	condition := func(ctx context.Context) (bool, error) {
		pending = slices.DeleteFunc(pending, func(p probe) bool {
			return errors.Is(p.exists(ctx), adminapi.ErrNotFound)
		})

		return len(pending) == 0, nil
	}

	if err := wait.PollUntilContextTimeout(ctx, r.options.ConsistencyInterval, r.options.ConsistencyTimeout, true, condition); err == nil {
		log.Info("verified all resources removed")

		return nil
	}

	residual := make([]string, len(pending))

	for i, p := range pending {
		residual[i] = p.resource

		log.Error(nil, "resource still present after teardown, remove it manually", "resource", p.resource)
	}

	return residual
}

func resourceName(kind adminapi.Kind, name string) string {
	return fmt.Sprintf("%s/%s", kind, name)
}

func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
