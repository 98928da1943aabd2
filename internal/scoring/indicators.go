package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// IndicatorKind names one of the lookup sets consulted by the link rules.
type IndicatorKind string

const (
	KindTLD       IndicatorKind = "tld"
	KindShortener IndicatorKind = "shortener"
	KindKeyword   IndicatorKind = "keyword"
	KindPhrase    IndicatorKind = "phrase"
)

// ErrUnknownIndicatorKind is returned for kinds outside IndicatorKinds.
var ErrUnknownIndicatorKind = errors.New("unknown indicator kind")

// IndicatorKinds lists every kind in display order.
var IndicatorKinds = []IndicatorKind{KindTLD, KindShortener, KindKeyword, KindPhrase}

// ParseIndicatorKind validates a kind supplied by an operator.
func ParseIndicatorKind(value string) (IndicatorKind, error) {
	kind := IndicatorKind(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range IndicatorKinds {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownIndicatorKind, value)
}

// Indicators holds the lookup sets for the link rules. Values are treated as immutable; Merge
// returns a copy.
type Indicators struct {
	tlds       map[string]struct{}
	shorteners map[string]struct{}
	keywords   map[string]struct{}
	phrases    map[string]struct{}
}

// DefaultIndicators returns the baseline sets that are always in effect.
func DefaultIndicators() Indicators {
	ind := Indicators{
		tlds:       map[string]struct{}{},
		shorteners: map[string]struct{}{},
		keywords:   map[string]struct{}{},
		phrases:    map[string]struct{}{},
	}
	ind.add(KindTLD, "xyz", "top", "tk", "ml", "ga", "cf", "gq", "icu", "click")
	ind.add(KindShortener, "bit.ly", "tinyurl.com", "t.co", "goo.gl", "is.gd", "ow.ly")
	ind.add(KindKeyword, "login", "secure", "verify", "account", "auth", "update")
	ind.add(KindPhrase,
		"verify your account",
		"urgent action required",
		"click immediately",
		"suspended",
		"confirm identity",
		"limited time",
	)
	return ind
}

// Merge returns a copy of the indicators with the supplied values added. Existing entries are
// never removed.
func (ind Indicators) Merge(kind IndicatorKind, values ...string) Indicators {
	out := Indicators{
		tlds:       copySet(ind.tlds),
		shorteners: copySet(ind.shorteners),
		keywords:   copySet(ind.keywords),
		phrases:    copySet(ind.phrases),
	}
	out.add(kind, values...)
	return out
}

// List returns the sorted entries for kind.
func (ind Indicators) List(kind IndicatorKind) []string {
	set := ind.set(kind)
	out := make([]string, 0, len(set))
	for value := range set {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// Counts reports the size of each set.
func (ind Indicators) Counts() map[IndicatorKind]int {
	counts := make(map[IndicatorKind]int, len(IndicatorKinds))
	for _, kind := range IndicatorKinds {
		counts[kind] = len(ind.set(kind))
	}
	return counts
}

// NormalizeIndicator canonicalizes a value the way it is stored and matched.
func NormalizeIndicator(kind IndicatorKind, value string) string {
	value = strings.TrimSpace(value)
	switch kind {
	case KindTLD:
		return strings.TrimPrefix(strings.ToLower(value), ".")
	case KindPhrase:
		return cases.Fold().String(value)
	default:
		return strings.ToLower(value)
	}
}

func (ind *Indicators) add(kind IndicatorKind, values ...string) {
	set := ind.set(kind)
	if set == nil {
		return
	}
	for _, value := range values {
		normalized := NormalizeIndicator(kind, value)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
}

func (ind Indicators) set(kind IndicatorKind) map[string]struct{} {
	switch kind {
	case KindTLD:
		return ind.tlds
	case KindShortener:
		return ind.shorteners
	case KindKeyword:
		return ind.keywords
	case KindPhrase:
		return ind.phrases
	default:
		return nil
	}
}

func (ind Indicators) hasTLD(suffix string) bool {
	_, ok := ind.tlds[strings.ToLower(suffix)]
	return ok
}

func (ind Indicators) isShortener(domain string) bool {
	_, ok := ind.shorteners[strings.ToLower(domain)]
	return ok
}

func (ind Indicators) containsKeyword(label string) bool {
	label = strings.ToLower(label)
	for keyword := range ind.keywords {
		if strings.Contains(label, keyword) {
			return true
		}
	}
	return false
}

func (ind Indicators) matchPhrases(text string) []string {
	if text == "" {
		return nil
	}
	folded := cases.Fold().String(text)
	var hits []string
	for phrase := range ind.phrases {
		if strings.Contains(folded, phrase) {
			hits = append(hits, phrase)
		}
	}
	sort.Strings(hits)
	return hits
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
