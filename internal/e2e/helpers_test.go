package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"co2form/internal/controller"
	"co2form/internal/form"
	"co2form/internal/httpapi"
	"co2form/internal/predictclient"
	"co2form/internal/registry"
	"co2form/internal/service"
	"co2form/internal/view"
	"co2form/pkg/types"
)

// upstream fakes the prediction endpoint. Handlers may be swapped per test.
type upstream struct {
	*httptest.Server
	mu        sync.Mutex
	predict   http.HandlerFunc
	requests  []types.PredictionRequest
	requestID []string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.predict = func(w http.ResponseWriter, r *http.Request) {
		var req types.PredictionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, types.PredictionResult{
			Prediction:   req.FuelConsumption * 25,
			InputData:    types.InputEcho{FuelConsumption: req.FuelConsumption, FuelEfficiency: req.FuelEfficiency, FuelType: req.FuelType},
			FuelTypeName: registry.Builtin().Name(req.FuelType),
		})
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req types.PredictionRequest
		_ = json.Unmarshal(body, &req)
		u.mu.Lock()
		u.requests = append(u.requests, req)
		u.requestID = append(u.requestID, r.Header.Get("X-Request-Id"))
		h := u.predict
		u.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
	})
	mux.HandleFunc("/fuel-types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]types.FuelType{
			"D": {Code: "D", Name: "Diesel", Description: "Diesel fuel"},
			"H": {Code: "H", Name: "Hydrogen", Description: "Fuel cell"},
		})
	})
	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) setPredict(h http.HandlerFunc) {
	u.mu.Lock()
	u.predict = h
	u.mu.Unlock()
}

func (u *upstream) calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newStack wires the service in front of baseURL the way the serve command
// does.
func newStack(t *testing.T, baseURL string, singleFlight bool) (*httptest.Server, *service.Service, *predictclient.Client) {
	t.Helper()
	client := predictclient.New(baseURL)
	ctl := controller.New(form.NewValidator(form.DefaultBounds()), client)
	svc := service.New(ctl, registry.Builtin(), singleFlight, zerolog.Nop())
	pages, err := view.New("en")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(svc, pages))
	t.Cleanup(srv.Close)
	return srv, svc, client
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte, header http.Header) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostForm(t *testing.T, target string, vals url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, target, strings.NewReader(vals.Encode()))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, string(body)
}
