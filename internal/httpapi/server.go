package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"co2form/internal/controller"
	"co2form/internal/form"
	"co2form/internal/impact"
	"co2form/internal/view"
	"co2form/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Submit(ctx context.Context, req types.PredictionRequest) controller.Panel
	Hint(field, raw string) types.Hint
	Trigger() controller.TriggerState
	FuelTypes() []types.FuelType
	Ready() bool
}

// ImpactResponse describes the environmental-impact tier of a prediction.
type ImpactResponse struct {
	Tier    string `json:"tier"`
	Range   string `json:"range"`
	Message string `json:"message"`
}

// PredictResponse is the JSON success body of POST /predict: the endpoint's
// result plus the rendered impact tier.
type PredictResponse struct {
	types.PredictionResult
	Impact ImpactResponse `json:"impact"`
}

func NewMux(svc Service, pages *view.Renderer) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, pages, http.StatusOK, view.PageData{
			FuelTypes: svc.FuelTypes(),
			Trigger:   svc.Trigger(),
		})
	})

	// Form-encoded submission from the page itself.
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		req := form.Parse(r.PostForm)
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		panel := svc.Submit(ctx, req)
		if r.Context().Err() != nil {
			return
		}
		raw := view.FormValues{
			Consumption: r.PostForm.Get(form.FieldConsumption),
			Efficiency:  r.PostForm.Get(form.FieldEfficiency),
			FuelType:    req.FuelType,
		}
		renderPage(w, pages, statusForPanel(panel), view.PageData{
			Form:      raw,
			FuelTypes: svc.FuelTypes(),
			Hints: map[string]types.Hint{
				form.FieldConsumption: svc.Hint(form.FieldConsumption, raw.Consumption),
				form.FieldEfficiency:  svc.Hint(form.FieldEfficiency, raw.Efficiency),
			},
			Trigger: svc.Trigger(),
			Panel:   &panel,
		})
	})

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.PredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		panel := svc.Submit(ctx, req)
		if r.Context().Err() != nil {
			return
		}
		if !panel.OK() {
			writeJSONError(w, statusForPanel(panel), panel.Message)
			return
		}
		resp := PredictResponse{PredictionResult: *panel.Result}
		if panel.Tier != nil {
			resp.Impact = ImpactResponse{Tier: panel.Tier.Name, Range: panel.Tier.Range(), Message: panel.Message}
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/hint", func(w http.ResponseWriter, r *http.Request) {
		field := r.URL.Query().Get("field")
		if field != form.FieldConsumption && field != form.FieldEfficiency {
			writeJSONError(w, http.StatusBadRequest, "field must be fuel_consumption or fuel_efficiency")
			return
		}
		h := svc.Hint(field, r.URL.Query().Get("value"))
		hintsTotal.WithLabelValues(h.Field, string(h.State)).Inc()
		writeJSON(w, http.StatusOK, h)
	})

	r.Get("/fuel-types", func(w http.ResponseWriter, r *http.Request) {
		out := map[string]types.FuelType{}
		for _, ft := range svc.FuelTypes() {
			out[ft.Code] = ft
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/trigger", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Trigger())
	})

	r.Get("/tiers", func(w http.ResponseWriter, r *http.Request) {
		out := make([]ImpactResponse, 0, len(impact.Tiers))
		for _, t := range impact.Tiers {
			out = append(out, ImpactResponse{Tier: t.Name, Range: t.Range()})
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}

func renderPage(w http.ResponseWriter, pages *view.Renderer, status int, d view.PageData) {
	var buf strings.Builder
	if err := pages.Page(&buf, d); err != nil {
		zlog.Error().Err(err).Msg("render page")
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}
