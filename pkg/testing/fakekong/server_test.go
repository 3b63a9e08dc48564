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

package fakekong_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/testing/fakekong"
)

func do(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	var out map[string]any

	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}

	return resp.StatusCode, out
}

// TestSchemaValidation ensures bodies are checked against the schema.
func TestSchemaValidation(t *testing.T) {
	t.Parallel()

	_, url := fakekong.NewTestServer(t)

	status, body := do(t, http.MethodPost, url+"/services", `{"name":"svc","protocol":"gopher","host":"example.com"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "schema violation", body["name"])

	status, _ = do(t, http.MethodPost, url+"/services", `{"name":"svc","port":80}`)
	require.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, http.MethodPost, url+"/services", `{"name":"svc","host":"example.com"}`)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "http", body["protocol"])
	require.InDelta(t, 80, body["port"], 0)

	status, _ = do(t, http.MethodPost, url+"/services/svc/routes", `{"name":"rt","paths":["no-slash"]}`)
	require.Equal(t, http.StatusBadRequest, status)
}

// TestForeignKey ensures a referenced service cannot be deleted.
func TestForeignKey(t *testing.T) {
	t.Parallel()

	_, url := fakekong.NewTestServer(t)

	status, _ := do(t, http.MethodPost, url+"/services", `{"name":"svc","host":"example.com"}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := do(t, http.MethodPost, url+"/services/svc/routes", `{"name":"rt","paths":["/x"]}`)
	require.Equal(t, http.StatusCreated, status)
	require.Contains(t, body, "service")

	status, body = do(t, http.MethodDelete, url+"/services/svc", "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "foreign key violation", body["name"])

	status, _ = do(t, http.MethodDelete, url+"/routes/rt", "")
	require.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, http.MethodDelete, url+"/services/svc", "")
	require.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, http.MethodDelete, url+"/services/svc", "")
	require.Equal(t, http.StatusNotFound, status)
}

// TestReadLag ensures deleted entities stay readable for the configured
// number of reads.
func TestReadLag(t *testing.T) {
	t.Parallel()

	server, url := fakekong.NewTestServer(t)
	server.SetReadLag(2)

	status, _ := do(t, http.MethodPost, url+"/services", `{"name":"svc","host":"example.com"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = do(t, http.MethodDelete, url+"/services/svc", "")
	require.Equal(t, http.StatusNoContent, status)
	require.Nil(t, server.Service("svc"))

	for range 2 {
		status, _ = do(t, http.MethodGet, url+"/services/svc", "")
		require.Equal(t, http.StatusOK, status)
	}

	status, _ = do(t, http.MethodGet, url+"/services/svc", "")
	require.Equal(t, http.StatusNotFound, status)
}

// TestUnknownPath ensures unknown paths answer like Kong does.
func TestUnknownPath(t *testing.T) {
	t.Parallel()

	_, url := fakekong.NewTestServer(t)

	status, body := do(t, http.MethodGet, url+"/upstreams", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Not found", body["message"])
}
