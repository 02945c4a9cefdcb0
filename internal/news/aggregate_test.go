package news

import (
	"testing"
	"time"
)

func c(title string, score int, published time.Time) Candidate {
	return Candidate{Title: title, Score: score, Published: published}
}

func TestAggregate_DedupKeepsHighestScore(t *testing.T) {
	base := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	input := []Candidate{
		c("AI breakthrough", 80, base),
		c("ai Breakthrough", 95, base.Add(time.Hour)),
		c("New GPU", 10, base),
	}

	out := Aggregate(input, 50)

	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	if out[0].Title != "ai Breakthrough" || out[0].Score != 95 {
		t.Errorf("expected highest-score duplicate first, got %q score %d", out[0].Title, out[0].Score)
	}
	if out[1].Title != "New GPU" {
		t.Errorf("expected New GPU second, got %q", out[1].Title)
	}
}

func TestAggregate_NoDuplicateNormalizedTitles(t *testing.T) {
	base := time.Now().UTC()
	input := []Candidate{
		c("Hello World", 1, base),
		c("  hello world ", 2, base),
		c("HELLO WORLD", 3, base),
		c("Other", 4, base),
	}

	out := Aggregate(input, 50)

	seen := map[string]bool{}
	for _, r := range out {
		key := NormalizeTitle(r.Title)
		if seen[key] {
			t.Fatalf("duplicate normalized title survived: %q", key)
		}
		seen[key] = true
	}
	if len(out) != 2 {
		t.Errorf("expected 2 survivors, got %d", len(out))
	}
}

func TestAggregate_ScoreTieBrokenByRecency(t *testing.T) {
	base := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	input := []Candidate{
		{Title: "same story", Score: 50, Published: base, Author: "old"},
		{Title: "Same Story", Score: 50, Published: base.Add(2 * time.Hour), Author: "new"},
	}

	out := Aggregate(input, 50)
	if len(out) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(out))
	}
	if out[0].Author != "new" {
		t.Errorf("expected the more recent candidate to survive the tie, got %q", out[0].Author)
	}
}

func TestAggregate_StableOrder(t *testing.T) {
	base := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	input := []Candidate{
		c("a", 10, base),
		c("b", 10, base), // same score, same time as "a"
		c("c", 20, base),
		c("d", 10, base),
	}

	first := Aggregate(input, 50)
	for i := 0; i < 10; i++ {
		again := Aggregate(input, 50)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range first {
			if first[j].Title != again[j].Title {
				t.Fatalf("run %d: order changed at %d: %q vs %q", i, j, first[j].Title, again[j].Title)
			}
		}
	}

	if first[0].Title != "c" {
		t.Errorf("expected highest score first, got %q", first[0].Title)
	}
}

func TestAggregate_TruncatesToLimit(t *testing.T) {
	base := time.Now().UTC()
	var input []Candidate
	for i := 0; i < 80; i++ {
		input = append(input, c(string(rune('a'+i%26))+string(rune('0'+i/26)), i, base))
	}

	out := Aggregate(input, 50)
	if len(out) != 50 {
		t.Errorf("expected 50 candidates after truncation, got %d", len(out))
	}
}

func TestAggregate_SkipsEmptyTitles(t *testing.T) {
	out := Aggregate([]Candidate{c("   ", 10, time.Now()), c("real", 1, time.Now())}, 50)
	if len(out) != 1 || out[0].Title != "real" {
		t.Errorf("expected only the titled candidate, got %+v", out)
	}
}
