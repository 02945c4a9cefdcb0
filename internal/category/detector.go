package category

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	sourceBoost          = 50
	engagementThreshold  = 1000
	techEngagementBoost  = 30
	worldEngagementBoost = 20
)

// Group is one named keyword group mapped to a category and a weight.
type Group struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Weight   int      `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

// SourceHint boosts a category when the source name contains a marker.
type SourceHint struct {
	Contains string `yaml:"contains"`
	Category string `yaml:"category"`
}

// Table is the loadable detector configuration.
type Table struct {
	Groups          []Group      `yaml:"categories"`
	SourceHints     []SourceHint `yaml:"sourceHints"`
	DefaultCategory string       `yaml:"defaultCategory"`
}

// Detector scores candidates against the keyword table.
type Detector struct {
	table    Table
	order    []string // category registration order, for tie-breaking
	patterns map[string][]*regexp.Regexp
}

// Load reads the keyword table from a YAML file.
func Load(path string) (*Detector, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category config: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse category config: %w", err)
	}
	return New(table)
}

// New builds a detector from an in-memory table.
func New(table Table) (*Detector, error) {
	if len(table.Groups) == 0 {
		return nil, fmt.Errorf("category table has no keyword groups")
	}
	if table.DefaultCategory == "" {
		table.DefaultCategory = table.Groups[0].Category
	}

	d := &Detector{
		table:    table,
		patterns: make(map[string][]*regexp.Regexp, len(table.Groups)),
	}

	seen := map[string]bool{}
	for _, g := range table.Groups {
		if !seen[g.Category] {
			seen[g.Category] = true
			d.order = append(d.order, g.Category)
		}
		pats := make([]*regexp.Regexp, 0, len(g.Keywords))
		for _, k := range g.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			// Whole-word match; QuoteMeta guards against meta-chars in keywords.
			pats = append(pats, regexp.MustCompile(`\b`+regexp.QuoteMeta(k)+`\b`))
		}
		d.patterns[g.Name] = pats
	}

	return d, nil
}

// Detect assigns a topic category to a candidate. Ties between equal
// scores resolve to the first-registered category.
func (d *Detector) Detect(title, body, source string, tags []string, score int) string {
	combined := strings.ToLower(title + " " + body + " " + source + " " + strings.Join(tags, " "))

	scores := map[string]int{}
	for _, g := range d.table.Groups {
		matches := 0
		for _, re := range d.patterns[g.Name] {
			matches += len(re.FindAllStringIndex(combined, -1))
		}
		if matches > 0 {
			scores[g.Category] += matches * g.Weight
		}
	}

	lowerSource := strings.ToLower(source)
	for _, hint := range d.table.SourceHints {
		if hint.Contains != "" && strings.Contains(lowerSource, strings.ToLower(hint.Contains)) {
			scores[hint.Category] += sourceBoost
		}
	}

	if score > engagementThreshold {
		if _, ok := scores["Technology"]; ok {
			scores["Technology"] += techEngagementBoost
		}
		if _, ok := scores["World"]; ok {
			scores["World"] += worldEngagementBoost
		}
	}

	if len(scores) == 0 {
		return d.defaultFor(lowerSource)
	}

	best, bestScore := "", -1
	for _, cat := range d.order {
		if s, ok := scores[cat]; ok && s > bestScore {
			best, bestScore = cat, s
		}
	}
	// Source hints may introduce a category absent from the group table;
	// check them in declared order so ties stay deterministic.
	for _, hint := range d.table.SourceHints {
		if s, ok := scores[hint.Category]; ok && s > bestScore {
			best, bestScore = hint.Category, s
		}
	}
	return best
}

// defaultFor picks the fallback category when no keyword matched.
func (d *Detector) defaultFor(lowerSource string) string {
	for _, hint := range d.table.SourceHints {
		if hint.Contains != "" && strings.Contains(lowerSource, strings.ToLower(hint.Contains)) {
			return hint.Category
		}
	}
	return d.table.DefaultCategory
}

// Categories returns every category in registration order.
func (d *Detector) Categories() []string {
	return append([]string(nil), d.order...)
}
