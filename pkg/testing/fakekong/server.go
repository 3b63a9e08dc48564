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

// Package fakekong implements an in-memory double of the Kong admin API
// endpoints used by the lifecycle harness, with hooks to inject the faults
// the harness has to tolerate.
package fakekong

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kong/go-kong/kong"

	"k8s.io/utils/ptr"
)

// Collections served by the fake.
const (
	CollectionServices = "services"
	CollectionRoutes   = "routes"
)

// Kong error codes.
const (
	codeSchemaViolation = 2
	codeNotFound        = 3
	codeForeignKey      = 4
	codeUniqueViolation = 5
)

const defaultPageSize = 100

// Request records a request the server received.
type Request struct {
	Method string
	Path   string
	Query  string
}

func (r Request) String() string {
	return r.Method + " " + r.Path
}

// lagged is a deleted entity that remains readable for a number of reads.
type lagged struct {
	collection string
	id         string
	name       string
	body       any
	reads      int
}

// Server is a fake admin API.
type Server struct {
	lock sync.Mutex

	services []*kong.Service
	routes   []*kong.Route
	lagging  []*lagged
	requests []Request

	deleteByNameStatus map[string]int
	readLag            int
	maxPageSize        int

	handler http.Handler
}

// New returns a new, empty, fake admin API.
func New() (*Server, error) {
	v, err := newValidator(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{
		deleteByNameStatus: map[string]int{},
		maxPageSize:        defaultPageSize,
	}

	router := chi.NewRouter()
	router.Use(s.record, v.middleware)

	router.Get("/status", s.status)

	router.Route("/services", func(r chi.Router) {
		r.Get("/", s.listServices)
		r.Post("/", s.createService)
		r.Get("/{service}", s.getService)
		r.Delete("/{service}", s.deleteService)
		r.Post("/{service}/routes", s.createRoute)
	})

	router.Route("/routes", func(r chi.Router) {
		r.Get("/", s.listRoutes)
		r.Get("/{route}", s.getRoute)
		r.Delete("/{route}", s.deleteRoute)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", codeNotFound, "Not found")
	})

	s.handler = router

	return s, nil
}

// NewTestServer starts a fake admin API that lives as long as the test.
func NewTestServer(t testing.TB) (*Server, string) {
	t.Helper()

	s, err := New()
	if err != nil {
		t.Fatalf("creating fake admin api: %v", err)
	}

	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)

	return s, server.URL
}

// Handler returns the HTTP handler serving the admin API.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// FailDeleteByName makes deletions in a collection that address an entity
// by name, rather than ID, fail with the given status.
func (s *Server) FailDeleteByName(collection string, status int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.deleteByNameStatus[collection] = status
}

// SetReadLag keeps deleted entities readable for n reads, simulating
// eventual consistency across a cluster.
func (s *Server) SetReadLag(n int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.readLag = n
}

// SetMaxPageSize caps the page size honoured by list endpoints.
func (s *Server) SetMaxPageSize(n int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.maxPageSize = n
}

// AddService seeds a service, returning the stored copy.
func (s *Server) AddService(service *kong.Service) *kong.Service {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.addService(service).DeepCopy()
}

// AddRoute seeds a route owned by a service.
func (s *Server) AddRoute(serviceNameOrID string, route *kong.Route) (*kong.Route, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	service := s.findService(serviceNameOrID)
	if service == nil {
		return nil, fmt.Errorf("service %s not found", serviceNameOrID)
	}

	return s.addRoute(service, route).DeepCopy(), nil
}

// Service returns a copy of a service, or nil if it doesn't exist.
func (s *Server) Service(nameOrID string) *kong.Service {
	s.lock.Lock()
	defer s.lock.Unlock()

	if service := s.findService(nameOrID); service != nil {
		return service.DeepCopy()
	}

	return nil
}

// Route returns a copy of a route, or nil if it doesn't exist.
func (s *Server) Route(nameOrID string) *kong.Route {
	s.lock.Lock()
	defer s.lock.Unlock()

	if route := s.findRoute(nameOrID); route != nil {
		return route.DeepCopy()
	}

	return nil
}

// Services returns a copy of all services.
func (s *Server) Services() []*kong.Service {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]*kong.Service, len(s.services))

	for i := range s.services {
		out[i] = s.services[i].DeepCopy()
	}

	return out
}

// Routes returns a copy of all routes.
func (s *Server) Routes() []*kong.Route {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]*kong.Route, len(s.routes))

	for i := range s.routes {
		out[i] = s.routes[i].DeepCopy()
	}

	return out
}

// Requests returns every request received so far, in order.
func (s *Server) Requests() []Request {
	s.lock.Lock()
	defer s.lock.Unlock()

	return slices.Clone(s.requests)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
		})
		s.lock.Unlock()

		next.ServeHTTP(w, r)
	})
}

func matches(id, name *string, nameOrID string) bool {
	return ptr.Deref(id, "") == nameOrID || (name != nil && *name == nameOrID)
}

func (s *Server) findService(nameOrID string) *kong.Service {
	for _, service := range s.services {
		if matches(service.ID, service.Name, nameOrID) {
			return service
		}
	}

	return nil
}

func (s *Server) findRoute(nameOrID string) *kong.Route {
	for _, route := range s.routes {
		if matches(route.ID, route.Name, nameOrID) {
			return route
		}
	}

	return nil
}

// readLagged returns a deleted entity that should still be visible.
func (s *Server) readLagged(collection, nameOrID string) any {
	for _, l := range s.lagging {
		if l.collection != collection || l.reads <= 0 {
			continue
		}

		if l.id == nameOrID || (l.name != "" && l.name == nameOrID) {
			l.reads--

			return l.body
		}
	}

	return nil
}

func (s *Server) addLagged(collection string, id, name *string, body any) {
	if s.readLag <= 0 {
		return
	}

	s.lagging = append(s.lagging, &lagged{
		collection: collection,
		id:         ptr.Deref(id, ""),
		name:       ptr.Deref(name, ""),
		body:       body,
		reads:      s.readLag,
	})
}

func (s *Server) addService(in *kong.Service) *kong.Service {
	service := in.DeepCopy()
	now := int(time.Now().Unix())

	if service.ID == nil {
		service.ID = ptr.To(uuid.NewString())
	}

	if service.Protocol == nil {
		service.Protocol = ptr.To("http")
	}

	if service.Port == nil {
		service.Port = ptr.To(80)
	}

	if service.Retries == nil {
		service.Retries = ptr.To(5)
	}

	if service.Enabled == nil {
		service.Enabled = ptr.To(true)
	}

	service.ConnectTimeout = ptr.To(60000)
	service.ReadTimeout = ptr.To(60000)
	service.WriteTimeout = ptr.To(60000)
	service.CreatedAt = ptr.To(now)
	service.UpdatedAt = ptr.To(now)

	s.services = append(s.services, service)

	return service
}

func (s *Server) addRoute(service *kong.Service, in *kong.Route) *kong.Route {
	route := in.DeepCopy()
	now := int(time.Now().Unix())

	if route.ID == nil {
		route.ID = ptr.To(uuid.NewString())
	}

	if route.Protocols == nil {
		route.Protocols = []*string{ptr.To("http"), ptr.To("https")}
	}

	if route.StripPath == nil {
		route.StripPath = ptr.To(true)
	}

	if route.PreserveHost == nil {
		route.PreserveHost = ptr.To(false)
	}

	route.RegexPriority = ptr.To(0)
	route.HTTPSRedirectStatusCode = ptr.To(426)
	route.Service = &kong.Service{ID: ptr.To(*service.ID)}
	route.CreatedAt = ptr.To(now)
	route.UpdatedAt = ptr.To(now)

	s.routes = append(s.routes, route)

	return route
}

// deleteFault returns a forced status for a deletion by name, or zero.
func (s *Server) deleteFault(collection, nameOrID string) int {
	if _, err := uuid.Parse(nameOrID); err == nil {
		return 0
	}

	return s.deleteByNameStatus[collection]
}

// page works out which slice of a collection to return.
func (s *Server) page(r *http.Request, length int) (int, int, *string, error) {
	size := defaultPageSize

	if value := r.URL.Query().Get("size"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, 0, nil, err
		}

		size = n
	}

	size = min(size, s.maxPageSize)

	start := 0

	if value := r.URL.Query().Get("offset"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return 0, 0, nil, fmt.Errorf("invalid offset %q", value)
		}

		start = min(n, length)
	}

	end := min(start+size, length)

	if end >= length {
		return start, end, nil, nil
	}

	return start, end, ptr.To(strconv.Itoa(end)), nil
}

type listBody struct {
	Data   any     `json:"data"`
	Next   *string `json:"next"`
	Offset string  `json:"offset,omitempty"`
}

func writeList[T any](w http.ResponseWriter, r *http.Request, s *Server, collection string, items []T) {
	start, end, offset, err := s.page(r, len(items))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset", codeSchemaViolation, err.Error())
		return
	}

	body := listBody{
		Data: slices.Clone(items[start:end]),
	}

	if offset != nil {
		body.Next = ptr.To(fmt.Sprintf("/%s?offset=%s", collection, *offset))
		body.Offset = *offset
	}

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"database": map[string]any{
			"reachable": true,
		},
		"server": map[string]any{
			"connections_accepted": 1,
		},
	})
}

func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	writeList(w, r, s, CollectionServices, s.services)
}

func (s *Server) createService(w http.ResponseWriter, r *http.Request) {
	var service kong.Service

	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", codeSchemaViolation, err.Error())
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if service.Name != nil && s.findService(*service.Name) != nil {
		writeError(w, http.StatusConflict, "unique constraint violation", codeUniqueViolation, fmt.Sprintf("UNIQUE violation detected on '{name=\"%s\"}'", *service.Name))
		return
	}

	writeJSON(w, http.StatusCreated, s.addService(&service))
}

func (s *Server) getService(w http.ResponseWriter, r *http.Request) {
	nameOrID := chi.URLParam(r, "service")

	s.lock.Lock()
	defer s.lock.Unlock()

	if service := s.findService(nameOrID); service != nil {
		writeJSON(w, http.StatusOK, service)
		return
	}

	if body := s.readLagged(CollectionServices, nameOrID); body != nil {
		writeJSON(w, http.StatusOK, body)
		return
	}

	writeError(w, http.StatusNotFound, "not found", codeNotFound, "Not found")
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) {
	nameOrID := chi.URLParam(r, "service")

	s.lock.Lock()
	defer s.lock.Unlock()

	if status := s.deleteFault(CollectionServices, nameOrID); status != 0 {
		writeError(w, status, "injected fault", 0, "deletion by name is unavailable")
		return
	}

	service := s.findService(nameOrID)
	if service == nil {
		writeError(w, http.StatusNotFound, "not found", codeNotFound, "Not found")
		return
	}

	for _, route := range s.routes {
		if route.Service != nil && ptr.Deref(route.Service.ID, "") == *service.ID {
			writeError(w, http.StatusBadRequest, "foreign key violation", codeForeignKey, "an existing 'routes' entity references this 'services' entity")
			return
		}
	}

	s.services = slices.DeleteFunc(s.services, func(x *kong.Service) bool {
		return x == service
	})

	s.addLagged(CollectionServices, service.ID, service.Name, service)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createRoute(w http.ResponseWriter, r *http.Request) {
	serviceNameOrID := chi.URLParam(r, "service")

	var route kong.Route

	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", codeSchemaViolation, err.Error())
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	service := s.findService(serviceNameOrID)
	if service == nil {
		writeError(w, http.StatusNotFound, "not found", codeNotFound, "Not found")
		return
	}

	if route.Name != nil && s.findRoute(*route.Name) != nil {
		writeError(w, http.StatusConflict, "unique constraint violation", codeUniqueViolation, fmt.Sprintf("UNIQUE violation detected on '{name=\"%s\"}'", *route.Name))
		return
	}

	writeJSON(w, http.StatusCreated, s.addRoute(service, &route))
}

func (s *Server) listRoutes(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	writeList(w, r, s, CollectionRoutes, s.routes)
}

func (s *Server) getRoute(w http.ResponseWriter, r *http.Request) {
	nameOrID := chi.URLParam(r, "route")

	s.lock.Lock()
	defer s.lock.Unlock()

	if route := s.findRoute(nameOrID); route != nil {
		writeJSON(w, http.StatusOK, route)
		return
	}

	if body := s.readLagged(CollectionRoutes, nameOrID); body != nil {
		writeJSON(w, http.StatusOK, body)
		return
	}

	writeError(w, http.StatusNotFound, "not found", codeNotFound, "Not found")
}

func (s *Server) deleteRoute(w http.ResponseWriter, r *http.Request) {
	nameOrID := chi.URLParam(r, "route")

	s.lock.Lock()
	defer s.lock.Unlock()

	if status := s.deleteFault(CollectionRoutes, nameOrID); status != 0 {
		writeError(w, status, "injected fault", 0, "deletion by name is unavailable")
		return
	}

	route := s.findRoute(nameOrID)
	if route == nil {
		writeError(w, http.StatusNotFound, "not found", codeNotFound, "Not found")
		return
	}

	s.routes = slices.DeleteFunc(s.routes, func(x *kong.Route) bool {
		return x == route
	})

	s.addLagged(CollectionRoutes, route.ID, route.Name, route)

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, name string, code int, message string) {
	body := map[string]any{
		"message": message,
		"name":    name,
	}

	if code != 0 {
		body["code"] = code
	}

	writeJSON(w, status, body)
}
