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

//go:generate mockgen -source=interfaces.go -destination=mock/interfaces.go -package=mock

package adminapi

import (
	"context"

	"github.com/kong/go-kong/kong"
)

// ClientInterface is the set of admin API operations the lifecycle
// runner depends on.
type ClientInterface interface {
	Ping(ctx context.Context) error
	CreateService(ctx context.Context, service *kong.Service) (*kong.Service, error)
	GetService(ctx context.Context, nameOrID string) (*kong.Service, error)
	ListServices(ctx context.Context) ([]*kong.Service, error)
	DeleteService(ctx context.Context, nameOrID string) (DeleteOutcome, error)
	CreateRoute(ctx context.Context, serviceNameOrID string, route *kong.Route) (*kong.Route, error)
	GetRoute(ctx context.Context, nameOrID string) (*kong.Route, error)
	ListRoutes(ctx context.Context) ([]*kong.Route, error)
	DeleteRoute(ctx context.Context, nameOrID string) (DeleteOutcome, error)
}
