package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/pkg/metrics"

	xlogger "SectorPulse/pkg/logger"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "", "", time.Second, xlogger.Nop(), metrics.NewNoop())
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestNarrate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "key" {
			t.Errorf("key = %q", got)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "XLE near its low" {
			t.Errorf("unexpected prompt payload: %+v", req.Contents)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Energy is under pressure."}]}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient("key", srv.URL, "gemini-2.5-flash", time.Second, xlogger.Nop(), metrics.NewNoop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	text, err := c.Narrate(context.Background(), "XLE near its low")
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if text != "Energy is under pressure." {
		t.Fatalf("text = %q", text)
	}
}

func TestNarrateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient("key", srv.URL, "", time.Second, xlogger.Nop(), metrics.NewNoop())
	_, err := c.Narrate(context.Background(), "prompt")
	var pe *models.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
