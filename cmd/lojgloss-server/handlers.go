package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ZaguanLabs/lojgloss"
	"github.com/rs/cors"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type translateRequest struct {
	Text        string             `json:"text"`
	Direction   lojgloss.Direction `json:"direction"`
	ContentType string             `json:"content_type,omitempty"`
}

type translateResponse struct {
	RunID     string             `json:"run_id,omitempty"`
	Direction lojgloss.Direction `json:"direction"`
	Content   string             `json:"content"`
	Lines     []string           `json:"lines,omitempty"`
	Stats     lojgloss.Stats     `json:"stats"`
}

type batchRequest struct {
	Texts     []string           `json:"texts"`
	Direction lojgloss.Direction `json:"direction"`
}

type batchResponse struct {
	Results []translateResponse `json:"results"`
}

type lookupResponse struct {
	Gloss string `json:"gloss"`
	Word  string `json:"word"`
}

type digitsResponse struct {
	Value  string `json:"value"`
	Lojban string `json:"lojban"`
}

type healthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Entries      int    `json:"entries"`
	BuiltinTable bool   `json:"builtin_table"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// server holds the handler dependencies.
type server struct {
	translator *lojgloss.Translator
	maxBatch   int
	logger     *slog.Logger
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response failed", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

func toResponse(result *lojgloss.Result) translateResponse {
	return translateResponse{
		RunID:     result.RunID,
		Direction: result.Direction,
		Content:   result.Text(),
		Lines:     result.Lines(),
		Stats:     result.Stats,
	}
}

// translationStatus maps a translation error to an HTTP status.
func translationStatus(err error) int {
	var procErr *lojgloss.ProcessorError
	if errors.As(err, &procErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusServiceUnavailable
}

func (s *server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req translateRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.ContentType != "" {
		processed, err := s.translator.Process(r.Context(), req.Text, req.ContentType, req.Direction)
		if err != nil {
			s.writeError(w, translationStatus(err), err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, translateResponse{
			Direction: req.Direction,
			Content:   processed.Content,
			Stats:     processed.Stats,
		})
		return
	}

	result, err := s.translator.Translate(r.Context(), req.Text, req.Direction)
	if err != nil {
		s.writeError(w, translationStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, toResponse(result))
}

func (s *server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Texts) == 0 {
		s.writeError(w, http.StatusBadRequest, "body must contain a non-empty 'texts' array")
		return
	}
	if len(req.Texts) > s.maxBatch {
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d texts per batch", s.maxBatch))
		return
	}

	results, err := s.translator.TranslateAll(r.Context(), req.Texts, req.Direction)
	if err != nil {
		s.writeError(w, translationStatus(err), err.Error())
		return
	}

	out := batchResponse{Results: make([]translateResponse, len(results))}
	for i, result := range results {
		out.Results[i] = toResponse(result)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	table, _ := s.translator.Table()

	q := r.URL.Query()
	switch {
	case q.Get("gloss") != "":
		gloss := lojgloss.NormalizeGloss(q.Get("gloss"))
		word, ok := table.Lookup(gloss)
		if !ok {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("gloss %q not found", gloss))
			return
		}
		s.writeJSON(w, http.StatusOK, lookupResponse{Gloss: gloss, Word: word})
	case q.Get("word") != "":
		word := q.Get("word")
		gloss, ok := table.Reverse(word)
		if !ok {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("word %q not found", word))
			return
		}
		s.writeJSON(w, http.StatusOK, lookupResponse{Gloss: gloss, Word: word})
	default:
		s.writeError(w, http.StatusBadRequest, "missing 'gloss' or 'word' query parameter")
	}
}

func (s *server) handleDigits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	value := r.URL.Query().Get("value")
	words := lojgloss.EncodeDigits(value)
	if words == "" {
		s.writeError(w, http.StatusBadRequest, "'value' must contain at least one digit")
		return
	}
	s.writeJSON(w, http.StatusOK, digitsResponse{Value: value, Lojban: words})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	table, err := s.translator.Table()
	if err != nil {
		s.logger.Warn("dictionary unavailable", "error", err)
	}
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Version:      lojgloss.FullVersion(),
		Entries:      table.Len(),
		BuiltinTable: table.Builtin(),
	})
}

// newHandler routes the API and applies CORS.
func newHandler(s *server, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/translate/batch", s.handleBatch)
	mux.HandleFunc("/api/translate", s.handleTranslate)
	mux.HandleFunc("/api/lookup", s.handleLookup)
	mux.HandleFunc("/api/digits", s.handleDigits)
	mux.HandleFunc("/healthz", s.handleHealth)

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}).Handler(mux)
}
