package scoring

import (
	"strings"
	"unicode/utf8"

	"media-forensics/backend/internal/match"
)

// LinkSignals carries everything the link rules inspect for one URL.
type LinkSignals struct {
	Profile match.URLProfile
	// Fetched is false when the page could not be retrieved.
	Fetched   bool
	Redirects int
	Text      string
}

// LinkRule is one independent predicate contributing a fixed number of points and a fixed evidence
// item when it fires.
type LinkRule struct {
	Name     string
	Points   int
	Evidence Evidence
	Match    func(sig LinkSignals, ind Indicators) bool
}

// LinkRules is the ordered rule list. Evidence order follows this order.
var LinkRules = []LinkRule{
	{
		Name:   "long_url",
		Points: 15,
		Evidence: Evidence{
			Title:       "Unusually Long URL",
			Score:       70,
			Description: "Long URLs are often used to obscure malicious intent.",
		},
		Match: func(sig LinkSignals, _ Indicators) bool {
			return utf8.RuneCountInString(sig.Profile.URL) > 80
		},
	},
	{
		Name:   "obfuscation_chars",
		Points: 15,
		Evidence: Evidence{
			Title:       "Obfuscated URL Characters",
			Score:       75,
			Description: "Suspicious characters are commonly used in phishing links.",
		},
		Match: func(sig LinkSignals, _ Indicators) bool {
			return strings.ContainsAny(sig.Profile.URL, "@%=")
		},
	},
	{
		Name:   "hyphenated_domain",
		Points: 30,
		Evidence: Evidence{
			Title:       "Deceptive Domain Structure",
			Score:       90,
			Description: "The domain uses excessive hyphens, a common phishing tactic.",
		},
		Match: func(sig LinkSignals, _ Indicators) bool {
			return strings.Count(sig.Profile.Label, "-") >= 2
		},
	},
	{
		Name:   "impersonation_keyword",
		Points: 25,
		Evidence: Evidence{
			Title:       "Impersonation Keywords in Domain",
			Score:       85,
			Description: "The domain name mimics authentication or security-related services.",
		},
		Match: func(sig LinkSignals, ind Indicators) bool {
			return ind.containsKeyword(sig.Profile.Label)
		},
	},
	{
		Name:   "low_reputation_tld",
		Points: 25,
		Evidence: Evidence{
			Title:       "Low-Reputation Domain",
			Score:       85,
			Description: "The domain extension is commonly associated with scam websites.",
		},
		Match: func(sig LinkSignals, ind Indicators) bool {
			return ind.hasTLD(sig.Profile.Suffix)
		},
	},
	{
		Name:   "url_shortener",
		Points: 20,
		Evidence: Evidence{
			Title:       "URL Shortener Used",
			Score:       80,
			Description: "Shortened links often hide the final destination.",
		},
		Match: func(sig LinkSignals, ind Indicators) bool {
			return ind.isShortener(sig.Profile.RegisteredDomain())
		},
	},
	{
		Name:   "redirect_chain",
		Points: 20,
		Evidence: Evidence{
			Title:       "Multiple Redirects Detected",
			Score:       80,
			Description: "Multiple redirects are commonly used in malicious campaigns.",
		},
		Match: func(sig LinkSignals, _ Indicators) bool {
			return sig.Fetched && sig.Redirects > 2
		},
	},
	{
		Name:   "social_engineering",
		Points: 25,
		Evidence: Evidence{
			Title:       "Social Engineering Language",
			Score:       90,
			Description: "The page uses urgency and fear-based phrases to manipulate users.",
		},
		Match: func(sig LinkSignals, ind Indicators) bool {
			return sig.Fetched && len(ind.matchPhrases(sig.Text)) > 0
		},
	},
	{
		Name:   "unreachable",
		Points: 10,
		Evidence: Evidence{
			Title:       "Unreachable or Unstable Link",
			Score:       60,
			Description: "The link could not be reliably accessed.",
		},
		Match: func(sig LinkSignals, _ Indicators) bool {
			return !sig.Fetched
		},
	},
}

// LinkAssessment is the scorer output: the decision plus the raw accumulation.
type LinkAssessment struct {
	Result LinkResult
	Points int
	Fired  []string
}

// LinkScorer evaluates URLs against the rule list using a fixed indicator snapshot.
type LinkScorer struct {
	indicators Indicators
}

// NewLinkScorer constructs a scorer bound to the supplied indicators.
func NewLinkScorer(indicators Indicators) *LinkScorer {
	return &LinkScorer{indicators: indicators}
}

// Indicators exposes the snapshot the scorer was built with.
func (s *LinkScorer) Indicators() Indicators {
	if s == nil {
		return DefaultIndicators()
	}
	return s.indicators
}

// Score evaluates every rule in order without short-circuiting and sums their points.
func (s *LinkScorer) Score(sig LinkSignals) LinkAssessment {
	ind := s.Indicators()

	points := 0
	reasons := make([]Evidence, 0, len(LinkRules))
	var fired []string
	for _, rule := range LinkRules {
		if !rule.Match(sig, ind) {
			continue
		}
		points += rule.Points
		reasons = append(reasons, rule.Evidence)
		fired = append(fired, rule.Name)
	}

	verdict, confidence := LinkDecision(points)
	return LinkAssessment{
		Result: LinkResult{
			Verdict:    verdict,
			Confidence: confidence,
			Reasons:    reasons,
		},
		Points: points,
		Fired:  fired,
	}
}

// MatchedPhrases reports which urgency phrases occur in text.
func (s *LinkScorer) MatchedPhrases(text string) []string {
	return s.Indicators().matchPhrases(text)
}

// LinkDecision thresholds an accumulated point total.
func LinkDecision(points int) (LinkVerdict, int) {
	if points < 0 {
		points = 0
	}
	switch {
	case points >= 50:
		return LinkLikelyFake, clampInt(points, 0, 95)
	case points >= 30:
		return LinkSuspicious, clampInt(points+20, 0, 85)
	default:
		return LinkReal, clampInt(100-points, 70, 100)
	}
}
