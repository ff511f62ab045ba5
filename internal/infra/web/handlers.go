package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/model"
	"scam-honeypot/internal/infra/logging"
	"scam-honeypot/internal/infra/metrics"
	red "scam-honeypot/internal/infra/redis"
	"scam-honeypot/internal/usecase"
)

const maxBodyBytes = 1 << 20

type messageDTO struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp timestamp `json:"timestamp"`
}

type honeypotRequest struct {
	SessionID           string         `json:"sessionId"`
	Message             *messageDTO    `json:"message"`
	ConversationHistory []messageDTO   `json:"conversationHistory"`
	Metadata            map[string]any `json:"metadata"`
}

type honeypotResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

type errorResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// timestamp accepts epoch seconds, epoch milliseconds or an RFC 3339 string.
type timestamp struct{ time.Time }

func (t *timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 1e12 {
			t.Time = time.UnixMilli(n)
		} else {
			t.Time = time.Unix(n, 0)
		}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "backend running"})
}

func (s *Server) honeypot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	var req honeypotRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == nil {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	if s.opts.Limiter != nil && s.opts.RateLimit > 0 && strings.TrimSpace(req.SessionID) != "" {
		ok, err := s.opts.Limiter.Allow(ctx, red.SessionRequestKey(req.SessionID), s.opts.RateLimit, time.Minute)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !ok {
			metrics.IncRateLimited()
			writeError(w, http.StatusTooManyRequests, "Too many messages for this session")
			return
		}
	}

	in := usecase.Inbound{
		SessionID: req.SessionID,
		Sender:    model.ParseSender(req.Message.Sender),
		Text:      req.Message.Text,
		History:   make([]model.Message, 0, len(req.ConversationHistory)),
	}
	for _, m := range req.ConversationHistory {
		in.History = append(in.History, model.Message{
			Sender:    model.ParseSender(m.Sender),
			Text:      m.Text,
			Timestamp: m.Timestamp.Time,
		})
	}

	res, err := s.uc.HandleMessage(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("honeypot turn failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, honeypotResponse{Status: "success", Reply: res.Reply})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	sess, err := s.uc.GetSession(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, sess)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logging.With(r.Context(), s.log).Warn().Err(err).Msg("session lookup failed")
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
	}
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	if s.opts.Reports == nil {
		writeError(w, http.StatusNotFound, "report archive disabled")
		return
	}
	rep, err := s.opts.Reports.FindBySessionID(r.Context(), nil, chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rep)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "report not found")
	default:
		logging.With(r.Context(), s.log).Warn().Err(err).Msg("report lookup failed")
		writeError(w, http.StatusServiceUnavailable, "report archive unavailable")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Status: "error", Detail: detail})
}
