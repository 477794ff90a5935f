package fixture

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type replyResponse struct {
	Response string `json:"response"`
}

type batchResponse struct {
	Messages            []Sample `json:"messages"`
	GenerationCompleted bool     `json:"generation_completed"`
}

type flagRequest struct {
	MessageID  json.RawMessage `json:"message_id"`
	IsPhishing bool            `json:"is_phishing"`
}

type queryRequest struct {
	UserQuery string          `json:"user_query"`
	EmailID   json.RawMessage `json:"email_id"`
}

type showRequest struct {
	EmailID json.RawMessage `json:"email_id"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err string, message string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}

// parseID accepts an id sent as a JSON string or number.
func parseID(raw json.RawMessage) (int, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMessagesGet(w http.ResponseWriter, r *http.Request) {
	msgs, completed, err := s.gen.Next(r.Context())
	if err != nil {
		s.logger.Warn("message generation interrupted", "error", err)
		writeError(w, http.StatusServiceUnavailable, "generation_interrupted", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Messages: msgs, GenerationCompleted: completed})
}

func (s *Server) handleFlag(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Request body must be JSON")
		return
	}

	if s.gen.Generating() {
		writeJSON(w, http.StatusOK, replyResponse{Response: GeneratingReply})
		return
	}

	id, ok := parseID(req.MessageID)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "message_id is required")
		return
	}
	sample, found := s.gen.Lookup(id)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "Message not found")
		return
	}

	s.gen.Coach()
	s.logger.Info("message flagged",
		"message_id", id,
		"user_says_phishing", req.IsPhishing,
		"is_phishing", sample.IsPhishing,
	)
	writeJSON(w, http.StatusOK, replyResponse{Response: flagReply(sample, req.IsPhishing)})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Request body must be JSON")
		return
	}

	if s.gen.Generating() {
		writeJSON(w, http.StatusOK, replyResponse{Response: GeneratingReply})
		return
	}

	var viewed *Sample
	if id, ok := parseID(req.EmailID); ok {
		if sample, found := s.gen.Lookup(id); found {
			viewed = &sample
		}
	}
	writeJSON(w, http.StatusOK, replyResponse{Response: queryReply(req.UserQuery, viewed)})
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	var req showRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Request body must be JSON")
		return
	}
	s.gen.Engage()
	s.logger.Debug("message shown", "email_id", string(req.EmailID))
	writeJSON(w, http.StatusOK, replyResponse{Response: ""})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.gen.Reset()
	s.logger.Info("generation reset")
	w.WriteHeader(http.StatusNoContent)
}
