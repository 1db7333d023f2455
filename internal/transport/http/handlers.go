package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"proxygate/internal/admission/metrics"
	"proxygate/internal/admission/models"
	"proxygate/internal/admission/service"
	"proxygate/internal/platform/config"
	"proxygate/internal/platform/httputil"
	"proxygate/internal/upstream"
	"proxygate/internal/upstream/gemini"
	"proxygate/internal/upstream/search"
	"proxygate/pkg/apierrors"
)

// Client-facing messages. These are part of the API contract: the client
// matches on them to decide what to show the user.
const (
	msgMissingUser      = "User ID is required."
	msgMissingPayload   = "Gemini payload is required."
	msgMissingQuery     = "Search query is required."
	msgInvalidBody      = "Invalid JSON body."
	msgRateLimited      = "Too many requests, please try again after a minute."
	msgQuotaExhausted   = "Free trial limit reached. Please add your own API key in the settings to continue."
	msgTransportFailure = "Failed to connect to the API."
	msgGeminiConfig     = "Gemini API key is not configured on the server."
	msgSearchConfig     = "Search API credentials are not configured on the server."
)

// maxBodyBytes caps inbound request bodies. Generative payloads carry chat
// history, so the cap is generous.
const maxBodyBytes = 1 << 20

type geminiProxyRequest struct {
	UserID        string          `json:"userId"`
	GeminiPayload json.RawMessage `json:"geminiPayload"`
}

type searchProxyRequest struct {
	UserID        string        `json:"userId"`
	SearchPayload searchPayload `json:"searchPayload"`
}

type searchPayload struct {
	Query      string `json:"query"`
	StartIndex int    `json:"startIndex"`
}

// Handler serves the two proxy endpoints through one shared admission and
// relay pipeline, so the endpoints cannot drift apart.
type Handler struct {
	cfg     config.Server
	gate    *service.Gate
	caller  *upstream.Caller
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func NewHandler(cfg config.Server, gate *service.Gate, caller *upstream.Caller, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		cfg:    cfg,
		gate:   gate,
		caller: caller,
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleGeminiProxy(w http.ResponseWriter, r *http.Request) {
	var req geminiProxyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !h.admit(w, r, req.UserID, h.geminiLimits()) {
		return
	}

	if len(req.GeminiPayload) == 0 || string(req.GeminiPayload) == "null" {
		httputil.WriteError(w, apierrors.New(apierrors.CodeInvalidInput, msgMissingPayload))
		return
	}
	if h.cfg.Gemini.APIKey == "" {
		httputil.WriteError(w, apierrors.New(apierrors.CodeConfiguration, msgGeminiConfig))
		return
	}

	upReq, err := gemini.BuildRequest(h.cfg.Gemini.URL, h.cfg.Gemini.APIKey, req.GeminiPayload)
	if err != nil {
		httputil.WriteError(w, apierrors.Wrap(err, apierrors.CodeConfiguration, msgGeminiConfig))
		return
	}

	h.relay(w, r, req.UserID, h.geminiLimits(), upReq)
}

func (h *Handler) handleSearchProxy(w http.ResponseWriter, r *http.Request) {
	var req searchProxyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !h.admit(w, r, req.UserID, h.searchLimits()) {
		return
	}

	if req.SearchPayload.Query == "" {
		httputil.WriteError(w, apierrors.New(apierrors.CodeInvalidInput, msgMissingQuery))
		return
	}
	if h.cfg.Search.APIKey == "" || h.cfg.Search.EngineID == "" {
		httputil.WriteError(w, apierrors.New(apierrors.CodeConfiguration, msgSearchConfig))
		return
	}

	upReq, err := search.BuildRequest(h.cfg.Search.URL, h.cfg.Search.APIKey, h.cfg.Search.EngineID, search.Query{
		Query:      req.SearchPayload.Query,
		StartIndex: req.SearchPayload.StartIndex,
	})
	if err != nil {
		httputil.WriteError(w, apierrors.Wrap(err, apierrors.CodeConfiguration, msgSearchConfig))
		return
	}

	h.relay(w, r, req.UserID, h.searchLimits(), upReq)
}

// admit runs the shared admission check and writes the rejection response
// if the request may not proceed. Rate-limit headers are added regardless
// of outcome whenever the window was consulted.
func (h *Handler) admit(w http.ResponseWriter, r *http.Request, userID string, limits service.Limits) bool {
	dec, err := h.gate.Check(r.Context(), userID, limits)
	if err != nil {
		h.logger.Error("admission check failed", "error", err)
		httputil.WriteError(w, apierrors.Wrap(err, apierrors.CodeInternal, "Internal server error."))
		return false
	}

	addRateLimitHeaders(w, dec.RateLimit)

	switch dec.Reason {
	case models.ReasonMissingIdentity:
		httputil.WriteError(w, apierrors.New(apierrors.CodeInvalidInput, msgMissingUser))
		return false
	case models.ReasonRateLimited:
		w.Header().Set("Retry-After", strconv.Itoa(dec.RateLimit.RetryAfter))
		httputil.WriteError(w, apierrors.New(apierrors.CodeRateLimited, msgRateLimited))
		return false
	case models.ReasonQuotaExhausted:
		httputil.WriteError(w, apierrors.New(apierrors.CodeQuotaExhausted, msgQuotaExhausted))
		return false
	}
	return true
}

// relay dispatches the single upstream attempt and maps its outcome. The
// ledger is incremented exactly once, and only on upstream success.
func (h *Handler) relay(w http.ResponseWriter, r *http.Request, userID string, limits service.Limits, upReq upstream.Request) {
	result := h.caller.Do(r.Context(), upReq)
	if h.metrics != nil {
		h.metrics.ObserveUpstreamResult(limits.Scope, string(result.Kind))
	}

	switch result.Kind {
	case upstream.KindSuccess:
		usage, err := h.gate.Record(r.Context(), userID, limits)
		if err != nil {
			h.logger.Error("quota accounting failed", "user_id", userID, "error", err)
		} else {
			h.logger.Info("proxied upstream call", "endpoint", limits.Scope, "user_id", userID, "usage", usage)
		}
		httputil.Relay(w, result.StatusCode, result.Body)
	case upstream.KindUpstreamError:
		httputil.Relay(w, result.StatusCode, result.Body)
	case upstream.KindTransportError:
		httputil.WriteError(w, apierrors.Wrap(result.Err, apierrors.CodeUpstreamUnreachable, msgTransportFailure))
	}
}

func (h *Handler) geminiLimits() service.Limits {
	return service.Limits{
		Scope:        "gemini",
		MaxPerWindow: h.cfg.GenerativeRateLimit,
		Window:       h.cfg.RateWindow,
		QuotaCeiling: h.cfg.FreeTrialLimit,
	}
}

func (h *Handler) searchLimits() service.Limits {
	return service.Limits{
		Scope:        "search",
		MaxPerWindow: h.cfg.SearchRateLimit,
		Window:       h.cfg.RateWindow,
		QuotaCeiling: h.cfg.FreeTrialLimit,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.WriteError(w, apierrors.Wrap(err, apierrors.CodeInvalidInput, msgInvalidBody))
		return false
	}
	return true
}

// addRateLimitHeaders exposes the draft-standard RateLimit headers; the
// legacy X-RateLimit family is deliberately not emitted.
func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("RateLimit-Remaining", strconv.Itoa(result.Remaining))
	reset := int(time.Until(result.ResetAt).Seconds())
	if reset < 0 {
		reset = 0
	}
	w.Header().Set("RateLimit-Reset", strconv.Itoa(reset))
}
