package translate

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitChunks_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitChunks("Short text.", 100)
	if len(chunks) != 1 || chunks[0] != "Short text." {
		t.Fatalf("expected single untouched chunk, got %v", chunks)
	}
}

func TestSplitChunks_SplitsAtSentenceBoundaries(t *testing.T) {
	text := "First sentence. Second sentence! Third sentence? Fourth line"
	chunks := SplitChunks(text, 35)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	for i, chunk := range chunks {
		if len(chunk) > 35 {
			t.Errorf("chunk %d exceeds limit: %d bytes", i, len(chunk))
		}
	}
	if chunks[0] != "First sentence. Second sentence!" {
		t.Errorf("unexpected first chunk: %q", chunks[0])
	}
}

func TestSplitChunks_NeverDropsText(t *testing.T) {
	text := "Alpha beta. Gamma delta! Epsilon zeta? Eta theta. Iota kappa lambda mu nu xi."
	for _, limit := range []int{10, 15, 25, 40, 1000} {
		chunks := SplitChunks(text, limit)

		joined := strings.Join(chunks, " ")
		for _, word := range strings.Fields(strings.NewReplacer(".", "", "!", "", "?", "").Replace(text)) {
			if !strings.Contains(joined, word) {
				t.Errorf("limit %d: word %q lost in chunks %v", limit, word, chunks)
			}
		}
	}
}

func TestSplitChunks_HardSplitsOversizedSentence(t *testing.T) {
	text := strings.Repeat("x", 95) // no sentence boundary at all
	chunks := SplitChunks(text, 30)

	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks for 95 bytes at limit 30, got %d: %v", len(chunks), chunks)
	}
	total := 0
	for i, chunk := range chunks {
		if len(chunk) > 30 {
			t.Errorf("chunk %d exceeds limit: %d", i, len(chunk))
		}
		total += len(chunk)
	}
	if total != 95 {
		t.Errorf("expected all 95 bytes preserved, got %d", total)
	}
}

func TestSplitChunks_HardSplitKeepsWordsIntact(t *testing.T) {
	chunks := SplitChunks("Gamma delta!", 10)

	joined := strings.Join(chunks, " ")
	for _, word := range []string{"Gamma", "delta!"} {
		if !strings.Contains(joined, word) {
			t.Errorf("word %q broken across chunks %v", word, chunks)
		}
	}
	for i, chunk := range chunks {
		if len(chunk) > 10 {
			t.Errorf("chunk %d exceeds limit: %d bytes", i, len(chunk))
		}
	}
}

func TestSplitChunks_HardSplitRespectsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("ü", 20) // 40 bytes, no spaces
	chunks := SplitChunks(text, 15)

	runes := 0
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
		if len(chunk) > 15 {
			t.Errorf("chunk %d exceeds limit: %d bytes", i, len(chunk))
		}
		runes += utf8.RuneCountInString(chunk)
	}
	if runes != 20 {
		t.Errorf("expected all 20 runes preserved, got %d", runes)
	}
}

func TestSplitChunks_NewlineIsBoundary(t *testing.T) {
	chunks := SplitChunks("line one\nline two\nline three", 10)
	for i, chunk := range chunks {
		if strings.Contains(chunk, "\n") {
			t.Errorf("chunk %d still contains a newline: %q", i, chunk)
		}
	}
}
