package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"SectorPulse/internal/domain/models"
	"SectorPulse/pkg/metrics"

	xlogger "SectorPulse/pkg/logger"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "", "", xlogger.Nop(), metrics.NewNoop())
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestFetchNewsLimitsAndMaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "key" {
			t.Errorf("X-Api-Key = %q", got)
		}
		w.Write([]byte(`{"status":"ok","articles":[
			{"title":"First","description":"a","url":"u1","publishedAt":"2024-01-05T09:00:00Z","source":{"name":"Wire"}},
			{"title":"Second","description":"b","url":"u2","publishedAt":"2024-01-05T08:00:00Z","source":{"name":"Wire"}},
			{"title":"Third","description":"c","url":"u3","publishedAt":"2024-01-05T07:00:00Z","source":{"name":"Wire"}}
		]}`))
	}))
	defer srv.Close()

	c, err := NewClient("key", srv.URL, "business", xlogger.Nop(), metrics.NewNoop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	items, err := c.FetchNews(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
	if items[0].Headline != "First" || items[0].Source != "Wire" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[0].PublishedAt.IsZero() {
		t.Fatal("publishedAt not parsed")
	}
}

func TestFetchNewsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := NewClient("key", srv.URL, "", xlogger.Nop(), metrics.NewNoop())
	_, err := c.FetchNews(context.Background(), 5)
	var te *models.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}
