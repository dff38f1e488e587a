package hcloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/fipctl/internal/config"
	"github.com/imamik/fipctl/internal/fip"
)

// testServer creates an httptest server that can be used to mock Hetzner Cloud API responses.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux

	mu    sync.Mutex
	calls map[string]int
}

// newTestServer creates a new test server for mocking the Hetzner Cloud API.
func newTestServer() *testServer {
	ts := &testServer{
		mux:   http.NewServeMux(),
		calls: make(map[string]int),
	}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.calls[r.Method+" "+r.URL.Path]++
		ts.mu.Unlock()
		ts.mux.ServeHTTP(w, r)
	}))
	return ts
}

// close shuts down the test server.
func (ts *testServer) close() {
	ts.server.Close()
}

// client returns an hcloud.Client configured to use the test server.
func (ts *testServer) client() *hcloud.Client {
	return hcloud.NewClient(
		hcloud.WithToken("test-token"),
		hcloud.WithEndpoint(ts.server.URL),
	)
}

// realClient returns a RealClient configured to use the test server.
func (ts *testServer) realClient(opts ...ClientOption) *RealClient {
	opts = append([]ClientOption{
		WithHCloudClient(ts.client()),
		WithTimeouts(&config.Timeouts{
			Request: 10 * time.Second,
			Action:  10 * time.Second,
		}),
	}, opts...)
	return NewRealClient("test-token", opts...)
}

// handleFunc registers a handler for a specific path.
func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// callCount returns how often method+path was requested.
func (ts *testServer) callCount(method, path string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.calls[method+" "+path]
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// errorResponse writes a Hetzner API error body.
func errorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	jsonResponse(w, statusCode, map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func successAction(id int64, command string) schema.Action {
	return schema.Action{ID: id, Command: command, Status: "success", Progress: 100}
}

func floatingIP(id int64, ip string, server *int64, pool string) schema.FloatingIP {
	return schema.FloatingIP{
		ID:           id,
		Name:         "fip-" + ip,
		IP:           ip,
		Type:         "ipv4",
		Server:       server,
		HomeLocation: schema.Location{ID: 1, Name: "fsn1"},
		Labels:       map[string]string{DefaultPoolLabel: pool},
	}
}

// handleActions answers action polling with completed actions.
func (ts *testServer) handleActions() {
	ts.handleFunc("/actions", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ActionListResponse{
			Actions: []schema.Action{successAction(1, "poll")},
		})
	})
}

func TestRealClient_Authenticate_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			errorResponse(w, http.StatusUnauthorized, "unauthorized", "unable to authenticate")
			return
		}
		if r.URL.Query().Get("name") == "fsn1" {
			jsonResponse(w, http.StatusOK, schema.LocationListResponse{
				Locations: []schema.Location{{ID: 1, Name: "fsn1", NetworkZone: "eu-central"}},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.LocationListResponse{Locations: []schema.Location{}})
	})

	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		require.NoError(t, ts.realClient().Authenticate(ctx))
	})

	t.Run("unknown home location", func(t *testing.T) {
		err := ts.realClient(WithHomeLocation("xyz1")).Authenticate(ctx)
		assert.ErrorIs(t, err, fip.ErrNotFound)
	})

	t.Run("invalid token", func(t *testing.T) {
		bad := NewRealClient("wrong", WithHCloudClient(hcloud.NewClient(
			hcloud.WithToken("wrong"),
			hcloud.WithEndpoint(ts.server.URL),
		)))
		err := bad.Authenticate(ctx)
		assert.ErrorIs(t, err, fip.ErrAuthentication)
	})
}

func TestRealClient_FindServer_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	webID := int64(42)
	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("name") {
		case "web-1":
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{
				Servers: []schema.Server{{
					ID:   webID,
					Name: "web-1",
					PublicNet: schema.ServerPublicNet{
						IPv4:        schema.ServerPublicNetIPv4{IP: "198.51.100.7"},
						FloatingIPs: []int64{5},
					},
				}},
			})
		case "7":
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{
				Servers: []schema.Server{{ID: 99, Name: "7"}},
			})
		default:
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
		}
	})
	ts.handleFunc("/servers/42", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerGetResponse{
			Server: schema.Server{ID: webID, Name: "web-1"},
		})
	})
	ts.handleFunc("/servers/7", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerGetResponse{
			Server: schema.Server{ID: 7, Name: "db-1"},
		})
	})
	ts.handleFunc("/servers/404", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusNotFound, "not_found", "server not found")
	})
	ts.handleFunc("/floating_ips", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FloatingIPListResponse{
			FloatingIPs: []schema.FloatingIP{
				floatingIP(5, "10.0.0.5", &webID, "external"),
				floatingIP(6, "10.0.0.6", nil, "external"),
			},
		})
	})

	client := ts.realClient()
	ctx := context.Background()

	t.Run("by name with floating IP", func(t *testing.T) {
		server, err := client.FindServer(ctx, "web-1")
		require.NoError(t, err)
		assert.Equal(t, "42", server.ID)
		assert.Equal(t, "web-1", server.Name)
		assert.Equal(t, []string{"198.51.100.7"}, server.Addresses[NetworkPublic])
		assert.Equal(t, []string{"10.0.0.5"}, server.Addresses[NetworkFloating])
		assert.True(t, server.HasAddress("10.0.0.5"))
		assert.False(t, server.HasAddress("10.0.0.6"))
	})

	t.Run("by id", func(t *testing.T) {
		server, err := client.FindServer(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "web-1", server.Name)
	})

	t.Run("id and name match different servers", func(t *testing.T) {
		_, err := client.FindServer(ctx, "7")
		assert.ErrorIs(t, err, fip.ErrAmbiguous)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := client.FindServer(ctx, "404")
		assert.ErrorIs(t, err, fip.ErrNotFound)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := client.FindServer(ctx, "nonexistent")
		assert.ErrorIs(t, err, fip.ErrNotFound)
	})
}

func TestRealClient_ListFloatingIPs_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	serverID := int64(42)
	ts.handleFunc("/floating_ips", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FloatingIPListResponse{
			FloatingIPs: []schema.FloatingIP{
				floatingIP(5, "10.0.0.5", &serverID, "external"),
				floatingIP(6, "10.0.0.6", nil, "internal"),
			},
		})
	})

	fips, err := ts.realClient().ListFloatingIPs(context.Background())
	require.NoError(t, err)
	require.Len(t, fips, 2)

	assert.Equal(t, fip.FloatingIP{ID: "5", Name: "fip-10.0.0.5", Address: "10.0.0.5", Pool: "external", InstanceID: "42"}, *fips[0])
	assert.Equal(t, "internal", fips[1].Pool)
	assert.False(t, fips[1].IsAssigned())
}

func TestRealClient_CreateFloatingIP_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()
	ts.handleActions()

	var body map[string]any
	ts.handleFunc("/floating_ips", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		action := successAction(11, "create_floating_ip")
		jsonResponse(w, http.StatusCreated, schema.FloatingIPCreateResponse{
			FloatingIP: floatingIP(8, "10.0.0.8", nil, "external"),
			Action:     &action,
		})
	})

	created, err := ts.realClient(WithPoolLabel("pool")).CreateFloatingIP(context.Background(), "external")
	require.NoError(t, err)

	assert.Equal(t, "8", created.ID)
	assert.Equal(t, "10.0.0.8", created.Address)
	assert.Equal(t, "external", created.Pool)

	assert.Equal(t, "ipv4", body["type"])
	assert.Equal(t, "fsn1", body["home_location"])
	assert.Equal(t, map[string]any{"pool": "external", "managed-by": "fipctl"}, body["labels"])
}

func TestRealClient_CreateFloatingIP_ReverseDNS(t *testing.T) {
	ts := newTestServer()
	defer ts.close()
	ts.handleActions()

	ts.handleFunc("/floating_ips", func(w http.ResponseWriter, r *http.Request) {
		action := successAction(11, "create_floating_ip")
		jsonResponse(w, http.StatusCreated, schema.FloatingIPCreateResponse{
			FloatingIP: floatingIP(8, "10.0.0.8", nil, "external"),
			Action:     &action,
		})
	})

	var body map[string]any
	ts.handleFunc("/floating_ips/8/actions/change_dns_ptr", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]any{"action": successAction(12, "change_dns_ptr")})
	})

	c := ts.realClient(WithRDNSTemplate("{{ pool }}-{{ ip-labels }}.fip.example.com"))
	created, err := c.CreateFloatingIP(context.Background(), "external")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.8", created.Address)

	assert.Equal(t, "10.0.0.8", body["ip"])
	assert.Equal(t, "external-8-0-0-10.fip.example.com", body["dns_ptr"])
}

func TestRealClient_CreateFloatingIP_ReverseDNSFailure(t *testing.T) {
	ts := newTestServer()
	defer ts.close()
	ts.handleActions()

	ts.handleFunc("/floating_ips", func(w http.ResponseWriter, r *http.Request) {
		action := successAction(11, "create_floating_ip")
		jsonResponse(w, http.StatusCreated, schema.FloatingIPCreateResponse{
			FloatingIP: floatingIP(8, "10.0.0.8", nil, "external"),
			Action:     &action,
		})
	})
	ts.handleFunc("/floating_ips/8/actions/change_dns_ptr", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusForbidden, "forbidden", "no")
	})

	c := ts.realClient(WithRDNSTemplate("{{ pool }}.fip.example.com"))
	_, err := c.CreateFloatingIP(context.Background(), "external")
	require.Error(t, err)
	assert.ErrorIs(t, err, fip.ErrAllocation)
	assert.ErrorIs(t, err, fip.ErrAuthorization)
	assert.Contains(t, err.Error(), "10.0.0.8")
}

func TestRealClient_CreateFloatingIP_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"quota", http.StatusForbidden, "resource_limit_exceeded", fip.ErrAllocation},
		{"no space", http.StatusUnprocessableEntity, "no_space_left_in_location", fip.ErrAllocation},
		{"forbidden", http.StatusForbidden, "forbidden", fip.ErrAuthorization},
		{"unauthorized", http.StatusUnauthorized, "unauthorized", fip.ErrAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			defer ts.close()

			ts.handleFunc("/floating_ips", func(w http.ResponseWriter, r *http.Request) {
				errorResponse(w, tt.status, tt.code, tt.name)
			})

			_, err := ts.realClient().CreateFloatingIP(context.Background(), "external")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRealClient_DeleteFloatingIP_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/floating_ips/5", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ts.handleFunc("/floating_ips/6", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusNotFound, "not_found", "floating ip not found")
	})

	client := ts.realClient()
	ctx := context.Background()

	require.NoError(t, client.DeleteFloatingIP(ctx, "5"))
	assert.Equal(t, 1, ts.callCount(http.MethodDelete, "/floating_ips/5"))

	assert.ErrorIs(t, client.DeleteFloatingIP(ctx, "6"), fip.ErrNotFound)
	assert.ErrorIs(t, client.DeleteFloatingIP(ctx, "abc"), fip.ErrInvalidRequest)
}

func TestRealClient_AssignAndUnassign_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()
	ts.handleActions()

	serverID := int64(42)
	ts.handleFunc("/floating_ips", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FloatingIPListResponse{
			FloatingIPs: []schema.FloatingIP{
				floatingIP(5, "10.0.0.5", nil, "external"),
				floatingIP(6, "10.0.0.6", &serverID, "external"),
			},
		})
	})

	var assignBody map[string]any
	ts.handleFunc("/floating_ips/5/actions/assign", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&assignBody)
		jsonResponse(w, http.StatusCreated, schema.FloatingIPActionAssignResponse{
			Action: successAction(21, "assign_floating_ip"),
		})
	})
	ts.handleFunc("/floating_ips/6/actions/unassign", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusCreated, schema.FloatingIPActionUnassignResponse{
			Action: successAction(22, "unassign_floating_ip"),
		})
	})

	client := ts.realClient()
	ctx := context.Background()
	server := &fip.Server{ID: "42", Name: "web-1"}

	require.NoError(t, client.AddFloatingIP(ctx, server, "10.0.0.5"))
	assert.Equal(t, float64(42), assignBody["server"])

	require.NoError(t, client.RemoveFloatingIP(ctx, server, "10.0.0.6"))
	assert.Equal(t, 1, ts.callCount(http.MethodPost, "/floating_ips/6/actions/unassign"))

	err := client.AddFloatingIP(ctx, server, "10.0.0.99")
	assert.ErrorIs(t, err, fip.ErrNotFound)
}

func TestRealClient_ReconcileEndToEnd_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()
	ts.handleActions()

	webID := int64(42)
	var (
		mu       sync.Mutex
		records  = []schema.FloatingIP{floatingIP(5, "10.0.0.5", &webID, "external")}
		assigned []int64
	)

	ts.handleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.LocationListResponse{
			Locations: []schema.Location{{ID: 1, Name: "fsn1"}},
		})
	})
	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "web-1" {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{
			Servers: []schema.Server{{
				ID:   webID,
				Name: "web-1",
				PublicNet: schema.ServerPublicNet{
					IPv4:        schema.ServerPublicNetIPv4{IP: "198.51.100.7"},
					FloatingIPs: []int64{5},
				},
			}},
		})
	})
	ts.handleFunc("/floating_ips", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPost {
			created := floatingIP(9, "10.0.0.9", nil, "external")
			records = append(records, created)
			jsonResponse(w, http.StatusCreated, schema.FloatingIPCreateResponse{FloatingIP: created})
			return
		}
		jsonResponse(w, http.StatusOK, schema.FloatingIPListResponse{FloatingIPs: records})
	})
	ts.handleFunc("/floating_ips/9/actions/assign", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assigned = append(assigned, 9)
		jsonResponse(w, http.StatusCreated, schema.FloatingIPActionAssignResponse{
			Action: successAction(31, "assign_floating_ip"),
		})
	})

	r := fip.NewReconciler(ts.realClient())
	res, err := r.Reconcile(context.Background(), fip.Request{
		State:  fip.StatePresent,
		Server: "web-1",
		Pool:   "external",
	})
	require.NoError(t, err)

	assert.Equal(t, fip.Result{Changed: true, Address: "10.0.0.9"}, res)
	assert.Equal(t, 1, ts.callCount(http.MethodPost, "/floating_ips"))
	assert.Equal(t, []int64{9}, assigned)
}
