package translate

import (
	"strings"
	"unicode/utf8"
)

// SplitChunks splits text into pieces no longer than limit bytes, cutting
// at sentence boundaries (., !, ?, newline). A single sentence longer
// than the limit is hard-split at the last word boundary that fits, or a
// rune boundary when it has no spaces. No words are ever lost.
func SplitChunks(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, sentence := range sentences {
		for len(sentence) > limit {
			flush()
			cut := splitPoint(sentence, limit)
			chunks = append(chunks, strings.TrimSpace(sentence[:cut]))
			sentence = strings.TrimLeft(sentence[cut:], " ")
		}
		if sentence == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(sentence)+1 > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	flush()

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// splitPoint picks where to cut an oversized sentence: the last space
// within limit, or failing that the nearest rune boundary at or below
// it, so no word or multi-byte rune is ever cut in half.
func splitPoint(s string, limit int) int {
	if i := strings.LastIndexByte(s[:limit], ' '); i > 0 {
		return i
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}

// splitSentences cuts text after ., !, ? and at newlines.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	for _, r := range text {
		switch r {
		case '\n':
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		case '.', '!', '?':
			b.WriteRune(r)
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
