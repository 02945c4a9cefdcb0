package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/techpulse/newsfeed/internal/logger"
)

func init() {
	logger.Init()
}

func newTestTranslator(endpoint string, charLimit int) *Translator {
	return New(Options{
		TargetLang: "tr",
		CharLimit:  charLimit,
		Endpoint:   endpoint,
	})
}

// googleHandler mimics the endpoint's nested-array response shape.
func googleHandler(transform func(q string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		fmt.Fprintf(w, `[[[%q, %q]]]`, transform(q), q)
	}
}

func TestDetectLanguage(t *testing.T) {
	tr := newTestTranslator("http://unused", 4000)

	if got := tr.DetectLanguage("Yapay zekâda büyük gelişme"); got != "tr" {
		t.Errorf("expected tr for Turkish text, got %q", got)
	}
	if got := tr.DetectLanguage("Plain English headline"); got != "en" {
		t.Errorf("expected en default, got %q", got)
	}
}

func TestTranslate_SingleChunk(t *testing.T) {
	srv := httptest.NewServer(googleHandler(func(q string) string {
		return "[TR] " + q
	}))
	defer srv.Close()

	tr := newTestTranslator(srv.URL, 4000)
	out, degraded := tr.Translate(context.Background(), "Hello world.", "en")

	if degraded != 0 {
		t.Errorf("expected no degraded chunks, got %d", degraded)
	}
	if out != "[TR] Hello world." {
		t.Errorf("unexpected translation: %q", out)
	}
}

func TestTranslate_ChunkedRespectsLimit(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(googleHandler(func(q string) string {
		requests = append(requests, q)
		return "[TR] " + q
	}))
	defer srv.Close()

	tr := newTestTranslator(srv.URL, 30)
	text := "First sentence here. Second sentence here. Third one."
	out, degraded := tr.Translate(context.Background(), text, "en")

	if degraded != 0 {
		t.Fatalf("expected no degraded chunks, got %d", degraded)
	}
	if len(requests) < 2 {
		t.Fatalf("expected chunked requests, got %d", len(requests))
	}
	for i, q := range requests {
		if len(q) > 30 {
			t.Errorf("request %d exceeds provider limit: %d bytes", i, len(q))
		}
	}
	if !strings.Contains(out, "[TR]") {
		t.Errorf("expected translated output, got %q", out)
	}
	if used := tr.RequestsUsed(); used != len(requests) {
		t.Errorf("expected %d requests accounted, got %d", len(requests), used)
	}
}

func TestTranslate_ProviderFailureKeepsOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := newTestTranslator(srv.URL, 25)
	text := "One sentence. Two sentence. Three sentence."
	out, degraded := tr.Translate(context.Background(), text, "en")

	if out == "" {
		t.Fatal("degraded translation must never be empty")
	}
	if degraded == 0 {
		t.Error("expected degraded chunks to be counted")
	}
	for _, word := range []string{"One", "Two", "Three"} {
		if !strings.Contains(out, word) {
			t.Errorf("original text %q dropped from degraded output %q", word, out)
		}
	}
}

func TestTranslate_PartialProviderFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		googleHandler(func(q string) string { return "[TR] " + q })(w, r)
	}))
	defer srv.Close()

	tr := newTestTranslator(srv.URL, 20)
	out, degraded := tr.Translate(context.Background(), "Alpha beta. Gamma delta. Epsilon zeta.", "en")

	if degraded != 1 {
		t.Errorf("expected exactly 1 degraded chunk, got %d", degraded)
	}
	if !strings.Contains(out, "[TR] Alpha beta.") {
		t.Errorf("expected first chunk translated, got %q", out)
	}
	if !strings.Contains(out, "Gamma delta.") {
		t.Errorf("expected failed chunk kept verbatim, got %q", out)
	}
}

func TestTranslate_TargetLanguagePassthrough(t *testing.T) {
	tr := newTestTranslator("http://unreachable.invalid", 4000)

	out, degraded := tr.Translate(context.Background(), "Zaten Türkçe metin", "tr")
	if out != "Zaten Türkçe metin" || degraded != 0 {
		t.Errorf("target-language text must pass through untouched, got %q (%d)", out, degraded)
	}
}

func TestTranslate_EmptyInput(t *testing.T) {
	tr := newTestTranslator("http://unreachable.invalid", 4000)
	if out, _ := tr.Translate(context.Background(), "   ", "en"); out != "" {
		t.Errorf("expected empty output for blank input, got %q", out)
	}
}
