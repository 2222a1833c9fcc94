package http

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"spoyt/internal/core"
	"spoyt/internal/i18n"
)

// responseMargin is the part of the write timeout kept for encoding the response.
const responseMargin = 2 * time.Second

// resolveBudget bounds a resolution so the response is written before the write timeout.
// Zero means no bound.
func resolveBudget(writeTimeout time.Duration) time.Duration {
	if writeTimeout <= 0 {
		return 0
	}
	if budget := writeTimeout - responseMargin; budget > 0 {
		return budget
	}
	return writeTimeout / 2
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	localizer := s.localizer
	if lang := r.URL.Query().Get("lang"); lang != "" && i18n.IsSupported(lang) {
		localizer = i18n.NewLocalizer(lang)
	}

	if s.resolver == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": localizer.T("error.generic")})
		return
	}

	client := clientKey(r)
	if !s.floodgate.Allow(client) {
		s.metrics.RateLimitedTotal.Inc()
		s.logger.Debug("Rate limited resolve request", zap.String("client", client))
		retry := int(math.Ceil(s.floodgate.RetryAfter(client).Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
		s.writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": localizer.T("error.rate_limited")})
		return
	}

	input := strings.TrimSpace(r.URL.Query().Get("input"))
	if input == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": localizer.Error(string(core.KindUnrecognizedInput), ""),
		})
		return
	}

	ctx := r.Context()
	if budget := resolveBudget(s.config.WriteTimeout); budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	res := s.resolver.Resolve(ctx, input)
	s.writeJSON(w, statusFor(res), NewResolveResponse(res, localizer))
}

// clientKey identifies the caller by remote IP, without the port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// statusFor maps the primary leg outcome to an HTTP status. Failed secondary legs keep 200.
func statusFor(res *core.Result) int {
	if res.OK {
		return http.StatusOK
	}
	e := res.Err(res.Primary)
	if e == nil && len(res.Errors) > 0 {
		e = res.Errors[0]
	}
	if e == nil {
		return http.StatusOK
	}

	switch e.Kind {
	case core.KindMalformedURL, core.KindUnrecognizedInput:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}
