package hcloud

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/imamik/loadfleet/internal/config"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
)

// testServer creates an httptest server that can be used to mock Hetzner Cloud API responses.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

// newTestServer creates a new test server for mocking the Hetzner Cloud API.
// Every action the client waits for is reported as finished.
func newTestServer() *testServer {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	ts := &testServer{
		server: server,
		mux:    mux,
	}
	ts.handleFunc("/actions", func(w http.ResponseWriter, r *http.Request) {
		var actions []schema.Action
		for _, id := range r.URL.Query()["id"] {
			var n int64
			_ = json.Unmarshal([]byte(id), &n)
			actions = append(actions, schema.Action{ID: n, Status: "success", Progress: 100})
		}
		jsonResponse(w, http.StatusOK, schema.ActionListResponse{Actions: actions})
	})
	ts.handleFunc("/actions/", func(w http.ResponseWriter, r *http.Request) {
		var n int64
		_ = json.Unmarshal([]byte(strings.TrimPrefix(r.URL.Path, "/actions/")), &n)
		jsonResponse(w, http.StatusOK, schema.ActionGetResponse{
			Action: schema.Action{ID: n, Status: "success", Progress: 100},
		})
	})
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
		hcloud.WithPollOpts(hcloud.PollOpts{BackoffFunc: hcloud.ConstantBackoff(time.Millisecond)}),
	)
}

// realClient returns a RealClient configured to use the test server.
func (ts *testServer) realClient() *RealClient {
	return NewRealClient("test-token",
		WithHCloudClient(ts.client()),
		WithTimeouts(&config.Timeouts{
			ServerCreate: 30 * time.Second,
			Action:       10 * time.Second,
			Publish:      10 * time.Second,
			Parallelism:  2,
		}),
	)
}

// handleFunc registers a handler for a specific path.
func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRealClient_EnsureNetwork_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var created bool
	ts.handleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			created = true
			jsonResponse(w, http.StatusCreated, schema.NetworkCreateResponse{
				Network: schema.Network{ID: 100, Name: "loadtest-net", IPRange: "10.0.0.0/16"},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{}})
	})

	client := ts.realClient()
	network, err := client.EnsureNetwork(context.Background(), "loadtest-net", "10.0.0.0/16", map[string]string{"test": "true"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected network to be created")
	}
	if network.ID != 100 {
		t.Errorf("expected ID 100, got %d", network.ID)
	}
}

func TestRealClient_EnsureNetwork_ExistingDifferentRange(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			t.Error("existing network must not be recreated")
		}
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{
			Networks: []schema.Network{{ID: 100, Name: "loadtest-net", IPRange: "10.1.0.0/16"}},
		})
	})

	client := ts.realClient()
	_, err := client.EnsureNetwork(context.Background(), "loadtest-net", "10.0.0.0/16", nil)
	if err == nil || !strings.Contains(err.Error(), "different IP range") {
		t.Fatalf("expected range mismatch error, got %v", err)
	}
}

func TestRealClient_EnsureNetwork_InvalidRange(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	_, err := ts.realClient().EnsureNetwork(context.Background(), "n", "not-a-cidr", nil)
	if err == nil {
		t.Fatal("expected error for invalid ip range")
	}
}

func TestRealClient_EnsureSubnet_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var mu sync.Mutex
	var added []string
	ts.handleFunc("/networks/100/actions/add_subnet", func(w http.ResponseWriter, r *http.Request) {
		var req schema.NetworkActionAddSubnetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		added = append(added, req.IPRange)
		mu.Unlock()
		if req.Type != "cloud" {
			t.Errorf("expected cloud subnet, got %q", req.Type)
		}
		jsonResponse(w, http.StatusCreated, schema.NetworkActionAddSubnetResponse{
			Action: schema.Action{ID: 7, Status: "running"},
		})
	})

	client := ts.realClient()
	existing := &hcloud.Network{ID: 100, Name: "loadtest-net"}
	_, ipNet, _ := net.ParseCIDR("10.0.0.0/24")
	existing.Subnets = []hcloud.NetworkSubnet{{IPRange: ipNet}}

	if err := client.EnsureSubnet(context.Background(), existing, "10.0.0.0/24", "eu-central"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.EnsureSubnet(context.Background(), existing, "10.0.1.0/24", "eu-central"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(added) != 1 || added[0] != "10.0.1.0/24" {
		t.Errorf("expected only 10.0.1.0/24 to be added, got %v", added)
	}
}

func TestRealClient_EnsureFirewall_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var createdRules int
	ts.handleFunc("/firewalls", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req schema.FirewallCreateRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			createdRules = len(req.Rules)
			jsonResponse(w, http.StatusCreated, schema.FirewallCreateResponse{
				Firewall: schema.Firewall{ID: 250, Name: req.Name},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{Firewalls: []schema.Firewall{}})
	})

	_, anyIPv4, _ := net.ParseCIDR("0.0.0.0/0")
	rules := []hcloud.FirewallRule{{
		Direction: hcloud.FirewallRuleDirectionIn,
		Protocol:  hcloud.FirewallRuleProtocolTCP,
		Port:      hcloud.Ptr("22"),
		SourceIPs: []net.IPNet{*anyIPv4},
	}}

	fw, err := ts.realClient().EnsureFirewall(context.Background(), "loadtest-master", rules, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fw.ID != 250 {
		t.Errorf("expected ID 250, got %d", fw.ID)
	}
	if createdRules != 1 {
		t.Errorf("expected 1 rule in create request, got %d", createdRules)
	}
}

func TestRealClient_CreateServer_ValidationError(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	client := ts.realClient()
	ctx := context.Background()

	_, err := client.CreateServer(ctx, ServerCreateOpts{Name: "test", NetworkID: 123})
	if err == nil {
		t.Error("expected validation error for mismatched networkID/privateIP")
	}

	_, err = client.CreateServer(ctx, ServerCreateOpts{Name: "test", PrivateIP: "10.0.0.2"})
	if err == nil {
		t.Error("expected validation error for mismatched networkID/privateIP")
	}
}

func TestRealClient_CreateServer_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/server_types", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerTypeListResponse{
			ServerTypes: []schema.ServerType{{ID: 1, Name: "cx22", Architecture: "x86"}},
		})
	})
	ts.handleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("architecture"); got != "x86" {
			t.Errorf("expected architecture x86, got %q", got)
		}
		jsonResponse(w, http.StatusOK, schema.ImageListResponse{
			Images: []schema.Image{{ID: 2, Name: hcloud.Ptr("debian-12"), Type: "system", Architecture: "x86"}},
		})
	})
	ts.handleFunc("/locations", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.LocationListResponse{
			Locations: []schema.Location{{ID: 3, Name: "nbg1", NetworkZone: "eu-central"}},
		})
	})

	var createBody map[string]any
	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&createBody)
		jsonResponse(w, http.StatusCreated, schema.ServerCreateResponse{
			Server: schema.Server{ID: 5, Name: "loadtest-master", Status: "off"},
			Action: schema.Action{ID: 10, Status: "running"},
		})
	})

	var calls []string
	ts.handleFunc("/servers/5/actions/attach_to_network", func(w http.ResponseWriter, r *http.Request) {
		var req schema.ServerActionAttachToNetworkRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.IP == nil || *req.IP != "10.0.1.2" {
			t.Errorf("expected private IP 10.0.1.2, got %v", req.IP)
		}
		calls = append(calls, "attach")
		jsonResponse(w, http.StatusCreated, schema.ServerActionAttachToNetworkResponse{
			Action: schema.Action{ID: 11, Status: "running"},
		})
	})
	ts.handleFunc("/servers/5/actions/poweron", func(w http.ResponseWriter, _ *http.Request) {
		calls = append(calls, "poweron")
		jsonResponse(w, http.StatusCreated, schema.ServerActionPoweronResponse{
			Action: schema.Action{ID: 12, Status: "running"},
		})
	})

	server, err := ts.realClient().CreateServer(context.Background(), ServerCreateOpts{
		Name:             "loadtest-master",
		ImageType:        "debian-12",
		ServerType:       "cx22",
		Location:         "nbg1",
		UserData:         "#cloud-config\n",
		NetworkID:        100,
		PrivateIP:        "10.0.1.2",
		FirewallIDs:      []int64{250},
		EnablePublicIPv4: false,
		EnablePublicIPv6: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.ID != 5 {
		t.Errorf("expected server ID 5, got %d", server.ID)
	}
	if createBody["start_after_create"] != false {
		t.Errorf("expected start_after_create=false, got %v", createBody["start_after_create"])
	}
	publicNet, _ := createBody["public_net"].(map[string]any)
	if publicNet["enable_ipv4"] != false || publicNet["enable_ipv6"] != true {
		t.Errorf("unexpected public_net %v", publicNet)
	}
	if fws, _ := createBody["firewalls"].([]any); len(fws) != 1 {
		t.Errorf("expected one firewall, got %v", createBody["firewalls"])
	}
	if strings.Join(calls, ",") != "attach,poweron" {
		t.Errorf("expected attach then poweron, got %v", calls)
	}
}

func TestRealClient_CreateServer_UnknownServerType(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/server_types", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerTypeListResponse{ServerTypes: []schema.ServerType{}})
	})

	_, err := ts.realClient().CreateServer(context.Background(), ServerCreateOpts{Name: "x", ServerType: "cx999"})
	if err == nil || !strings.Contains(err.Error(), "server type not found") {
		t.Fatalf("expected server type error, got %v", err)
	}
}

func TestRealClient_CreateServer_APIErrorNotRetried(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var attempts int
	ts.handleFunc("/server_types", func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		jsonResponse(w, http.StatusForbidden, schema.ErrorResponse{
			Error: schema.Error{Code: string(hcloud.ErrorCodeForbidden), Message: "insufficient permissions"},
		})
	})

	_, err := ts.realClient().CreateServer(context.Background(), ServerCreateOpts{Name: "x", ServerType: "cx22"})
	if !isHCloudErrorCode(err, hcloud.ErrorCodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
}

func TestRealClient_GetServerByName_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "loadtest-master" {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{
				Servers: []schema.Server{{
					ID:   123,
					Name: "loadtest-master",
					PublicNet: schema.ServerPublicNet{
						IPv4: schema.ServerPublicNetIPv4{IP: "203.0.113.42"},
					},
				}},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
	})

	client := ts.realClient()
	ctx := context.Background()

	t.Run("server found", func(t *testing.T) {
		server, err := client.GetServerByName(ctx, "loadtest-master")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ip := ServerIPv4(server); ip != "203.0.113.42" {
			t.Errorf("expected IP '203.0.113.42', got %q", ip)
		}
	})

	t.Run("server not found", func(t *testing.T) {
		server, err := client.GetServerByName(ctx, "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if server != nil {
			t.Errorf("expected nil, got %v", server)
		}
	})
}

func TestRealClient_PeeringUnsupported(t *testing.T) {
	client := NewRealClient("token")

	if client.SupportsPeering() {
		t.Error("expected peering to be unsupported")
	}
	if _, err := client.EnsurePeering(context.Background(), &hcloud.Network{Name: "n"}, "peer"); !errors.Is(err, ErrPeeringUnsupported) {
		t.Errorf("expected ErrPeeringUnsupported, got %v", err)
	}
	if err := client.CreateRoute(context.Background(), Route{Name: "r"}); !errors.Is(err, ErrPeeringUnsupported) {
		t.Errorf("expected ErrPeeringUnsupported, got %v", err)
	}
}
