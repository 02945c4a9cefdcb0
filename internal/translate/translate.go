package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/ratelimit"
)

// defaultEndpoint is the public Google Translate endpoint (free tier).
const defaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// Options configures a Translator.
type Options struct {
	TargetLang   string        // e.g. "tr"
	CharLimit    int           // provider-imposed max input length per call
	Delay        time.Duration // fixed delay between provider requests
	MaxRequests  int           // per-day cap, 0 = unlimited
	OpenAIAPIKey string        // optional fallback provider
	Endpoint     string        // override for tests
	Timeout      time.Duration
}

// Translator renders text into the target language, chunked to respect
// the provider's per-request character limit. It degrades gracefully:
// a failed chunk keeps its original text, so output is never empty.
type Translator struct {
	targetLang string
	charLimit  int
	endpoint   string
	client     *http.Client
	limiter    *ratelimit.Limiter
	openai     *openai.Client
}

func New(opts Options) *Translator {
	if opts.TargetLang == "" {
		opts.TargetLang = "tr"
	}
	if opts.CharLimit <= 0 {
		opts.CharLimit = 4000
	}
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	t := &Translator{
		targetLang: opts.TargetLang,
		charLimit:  opts.CharLimit,
		endpoint:   opts.Endpoint,
		client:     &http.Client{Timeout: opts.Timeout},
		limiter:    ratelimit.New(opts.Delay, opts.MaxRequests),
	}
	if opts.OpenAIAPIKey != "" {
		t.openai = openai.NewClient(opts.OpenAIAPIKey)
	}
	return t
}

// Turkish-specific letters. Any hit classifies text as already-in-target.
var turkishRunes = map[rune]bool{
	'ç': true, 'Ç': true,
	'ğ': true, 'Ğ': true,
	'ı': true, 'İ': true,
	'ş': true, 'Ş': true,
	'ö': true, 'Ö': true,
	'ü': true, 'Ü': true,
}

// DetectLanguage is a cheap heuristic: target-language-specific
// characters mean the text needs no translation; otherwise the default
// source language is assumed.
func (t *Translator) DetectLanguage(text string) string {
	for _, r := range text {
		if turkishRunes[r] {
			return t.targetLang
		}
	}
	return "en"
}

// Translate renders text into the target language. It returns the
// (possibly partially) translated text and the number of chunks that
// fell back to their original content.
func (t *Translator) Translate(ctx context.Context, text, sourceLang string) (string, int) {
	text = strings.TrimSpace(text)
	if text == "" || sourceLang == t.targetLang {
		return text, 0
	}

	chunks := SplitChunks(text, t.charLimit)
	out := make([]string, 0, len(chunks))
	degraded := 0

	for _, chunk := range chunks {
		if !t.limiter.Allow() {
			logger.Warn("translation budget exhausted, keeping original", "used", t.limiter.Used())
			out = append(out, chunk)
			degraded++
			continue
		}
		if err := t.limiter.Wait(ctx); err != nil {
			// Cancelled mid-translation: keep the rest untranslated.
			out = append(out, chunk)
			degraded++
			continue
		}

		translated, err := t.translateChunk(ctx, chunk, sourceLang)
		if err != nil {
			logger.Warn("translation chunk failed, keeping original", "err", err, "len", len(chunk))
			out = append(out, chunk)
			degraded++
			continue
		}
		out = append(out, translated)
	}

	return strings.Join(out, " "), degraded
}

// translateChunk tries the Google endpoint first, then OpenAI if a key
// is configured.
func (t *Translator) translateChunk(ctx context.Context, text, sourceLang string) (string, error) {
	result, gErr := t.translateWithGoogle(ctx, text, sourceLang)
	if gErr == nil && result != "" {
		return result, nil
	}

	if t.openai != nil {
		result, oErr := t.translateWithOpenAI(ctx, text, sourceLang)
		if oErr == nil && result != "" {
			return result, nil
		}
		return "", fmt.Errorf("google: %v; openai: %v", gErr, oErr)
	}

	if gErr == nil {
		gErr = errors.New("empty translation")
	}
	return "", gErr
}

func (t *Translator) translateWithGoogle(ctx context.Context, text, sourceLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", t.targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse unpacks the nested array shape the endpoint returns.
func parseGoogleResponse(body []byte) (string, error) {
	var response []interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response) == 0 {
		return "", errors.New("empty response from translate API")
	}

	translations, ok := response[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected response format")
	}

	var result strings.Builder
	for _, translation := range translations {
		if parts, ok := translation.([]interface{}); ok && len(parts) > 0 {
			if translated, ok := parts[0].(string); ok {
				result.WriteString(translated)
			}
		}
	}
	return result.String(), nil
}

func (t *Translator) translateWithOpenAI(ctx context.Context, text, sourceLang string) (string, error) {
	sourceName := "English"
	switch sourceLang {
	case "de":
		sourceName = "German"
	case "fr":
		sourceName = "French"
	case "es":
		sourceName = "Spanish"
	case "ru":
		sourceName = "Russian"
	}

	prompt := fmt.Sprintf(`Translate the following %s news text to Turkish.
Keep the meaning, tone and journalistic style of the original.
Translate only the text itself, without additional comments.

Text to translate:
%s`, sourceName, text)

	resp, err := t.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// RequestsUsed reports provider calls consumed in the current window.
func (t *Translator) RequestsUsed() int {
	return t.limiter.Used()
}
