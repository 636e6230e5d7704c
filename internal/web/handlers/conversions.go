package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/metrics"
	"github.com/jusunglee/pinyin/internal/pinyin"
	"github.com/patrickmn/go-cache"
)

// MaxTextLength is the longest accepted text parameter, in runes.
const MaxTextLength = 2000

// Runner is the part of *pinyin.Converter the handler needs.
type Runner interface {
	Run(ctx context.Context, op pinyin.Operation, s, delimiter string, opts pinyin.Options) (pinyin.Result, error)
}

type ConversionHandler struct {
	conv  Runner
	log   *slog.Logger
	cache *cache.Cache
}

// NewConversionHandler caches responses for ttl. A ttl of zero disables
// caching.
func NewConversionHandler(conv Runner, log *slog.Logger, ttl time.Duration) *ConversionHandler {
	h := &ConversionHandler{conv: conv, log: log}
	if ttl > 0 {
		h.cache = cache.New(ttl, 2*ttl)
	}
	return h
}

type conversionMeta struct {
	Input     string   `json:"input"`
	Operation string   `json:"operation"`
	Options   []string `json:"options"`
}

type tokensResponse struct {
	conversionMeta
	Tokens []string `json:"tokens"`
}

type textResponse struct {
	conversionMeta
	Result string `json:"result"`
}

// Convert serves GET /api/v1/{operation}.
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	op, err := pinyin.ParseOperation(r.PathValue("operation"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	if !q.Has("text") {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	text := q.Get("text")
	if utf8.RuneCountInString(text) > MaxTextLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("text must be at most %d characters", MaxTextLength))
		return
	}

	delimiter := op.DefaultDelimiter()
	if q.Has("delimiter") {
		delimiter = q.Get("delimiter")
	}

	opts := op.DefaultOptions()
	if q.Has("options") {
		opts, err = pinyin.ParseOptionList(q.Get("options"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	key := cacheKey(op, delimiter, opts, text)
	if h.cache != nil {
		if cached, ok := h.cache.Get(key); ok {
			metrics.ResultCacheLookups.WithLabelValues("hit").Inc()
			writeJSON(w, http.StatusOK, cached)
			return
		}
		metrics.ResultCacheLookups.WithLabelValues("miss").Inc()
	}

	res, err := h.conv.Run(r.Context(), op, text, delimiter, opts)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.log.ErrorContext(r.Context(), "conversion failed", "operation", op, "error", err)
			writeError(w, status, "conversion failed")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	meta := conversionMeta{Input: text, Operation: string(op), Options: opts.Names()}
	var body any
	if op.Tokenized() {
		tokens := res.Tokens
		if tokens == nil {
			tokens = []string{}
		}
		body = tokensResponse{conversionMeta: meta, Tokens: tokens}
	} else {
		body = textResponse{conversionMeta: meta, Result: res.Text}
	}

	if h.cache != nil {
		h.cache.SetDefault(key, body)
	}
	writeJSON(w, http.StatusOK, body)
}

func cacheKey(op pinyin.Operation, delimiter string, opts pinyin.Options, text string) string {
	return string(op) + "\x00" + delimiter + "\x00" + opts.String() + "\x00" + text
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, pinyin.ErrInvalidArgument):
		return http.StatusBadRequest
	case dict.IsDataUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type metaResponse struct {
	Operations []pinyin.Operation `json:"operations"`
	Options    []string           `json:"options"`
	Delimiters []string           `json:"permalink_delimiters"`
}

// Meta serves GET /api/v1, listing the accepted operations and options.
func (h *ConversionHandler) Meta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metaResponse{
		Operations: pinyin.Operations,
		Options:    pinyin.OptionNames(),
		Delimiters: pinyin.PermalinkDelimiters,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
