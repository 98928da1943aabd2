package scoring

import (
	"strings"
	"testing"

	"media-forensics/backend/internal/match"
)

func TestLinkScoring(t *testing.T) {
	scorer := NewLinkScorer(DefaultIndicators())

	tests := []struct {
		name       string
		url        string
		fetched    bool
		redirects  int
		text       string
		points     int
		verdict    LinkVerdict
		confidence int
		titles     []string
	}{
		{
			name: "clean", url: "https://example.com", fetched: true, text: "Welcome to our site",
			points: 0, verdict: LinkReal, confidence: 100, titles: []string{},
		},
		{
			name: "phishing accumulation", url: "http://secure-login-verify.xyz/account?x=1", fetched: true,
			points: 95, verdict: LinkLikelyFake, confidence: 95,
			titles: []string{"Obfuscated URL Characters", "Deceptive Domain Structure", "Impersonation Keywords in Domain", "Low-Reputation Domain"},
		},
		{
			name: "phishing unreachable", url: "http://secure-login-verify.xyz/account?x=1", fetched: false,
			points: 105, verdict: LinkLikelyFake, confidence: 95,
			titles: []string{"Obfuscated URL Characters", "Deceptive Domain Structure", "Impersonation Keywords in Domain", "Low-Reputation Domain", "Unreachable or Unstable Link"},
		},
		{
			name: "shortener with redirect chain", url: "https://bit.ly/3abc", fetched: true, redirects: 3,
			points: 40, verdict: LinkSuspicious, confidence: 60,
			titles: []string{"URL Shortener Used", "Multiple Redirects Detected"},
		},
		{
			name: "two redirects are tolerated", url: "https://example.com", fetched: true, redirects: 2,
			points: 0, verdict: LinkReal, confidence: 100, titles: []string{},
		},
		{
			name: "urgency language", url: "https://example.com", fetched: true, text: "URGENT ACTION REQUIRED: your mailbox is Suspended",
			points: 25, verdict: LinkReal, confidence: 75,
			titles: []string{"Social Engineering Language"},
		},
		{
			name: "unreachable only", url: "https://example.com", fetched: false, text: "verify your account",
			points: 10, verdict: LinkReal, confidence: 90,
			titles: []string{"Unreachable or Unstable Link"},
		},
		{
			name: "long url", url: "https://example.com/" + strings.Repeat("a", 80), fetched: true,
			points: 15, verdict: LinkReal, confidence: 85,
			titles: []string{"Unusually Long URL"},
		},
		{
			name: "defanged input", url: "hxxp://login-update[.]tk", fetched: true,
			points: 50, verdict: LinkLikelyFake, confidence: 50,
			titles: []string{"Impersonation Keywords in Domain", "Low-Reputation Domain"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scorer.Score(LinkSignals{
				Profile:   match.ProfileURL(tc.url),
				Fetched:   tc.fetched,
				Redirects: tc.redirects,
				Text:      tc.text,
			})
			if got.Points != tc.points {
				t.Fatalf("expected %d points got %d (%v)", tc.points, got.Points, got.Fired)
			}
			if got.Result.Verdict != tc.verdict {
				t.Fatalf("expected %s got %s", tc.verdict, got.Result.Verdict)
			}
			if got.Result.Confidence != tc.confidence {
				t.Fatalf("expected confidence %d got %d", tc.confidence, got.Result.Confidence)
			}
			if got.Result.Reasons == nil {
				t.Fatal("expected non-nil reasons slice")
			}
			if len(got.Result.Reasons) != len(tc.titles) {
				t.Fatalf("expected %d reasons got %d", len(tc.titles), len(got.Result.Reasons))
			}
			for i, title := range tc.titles {
				if got.Result.Reasons[i].Title != title {
					t.Fatalf("reason %d: expected %q got %q", i, title, got.Result.Reasons[i].Title)
				}
			}
		})
	}
}

func TestLinkDecision(t *testing.T) {
	tests := []struct {
		points     int
		verdict    LinkVerdict
		confidence int
	}{
		{-5, LinkReal, 100},
		{0, LinkReal, 100},
		{10, LinkReal, 90},
		{29, LinkReal, 71},
		{30, LinkSuspicious, 50},
		{49, LinkSuspicious, 69},
		{50, LinkLikelyFake, 50},
		{95, LinkLikelyFake, 95},
		{240, LinkLikelyFake, 95},
	}
	for _, tc := range tests {
		verdict, confidence := LinkDecision(tc.points)
		if verdict != tc.verdict || confidence != tc.confidence {
			t.Fatalf("points %d: expected %s/%d got %s/%d", tc.points, tc.verdict, tc.confidence, verdict, confidence)
		}
	}
}

func TestLinkRulesOnlyAddPoints(t *testing.T) {
	for _, rule := range LinkRules {
		if rule.Points <= 0 {
			t.Fatalf("rule %s must contribute positive points, has %d", rule.Name, rule.Points)
		}
		if rule.Evidence.Score < 0 || rule.Evidence.Score > 100 {
			t.Fatalf("rule %s has out-of-range sub-score %d", rule.Name, rule.Evidence.Score)
		}
	}
}

func TestFetchRulesAreExclusiveWithUnreachable(t *testing.T) {
	scorer := NewLinkScorer(DefaultIndicators())
	got := scorer.Score(LinkSignals{
		Profile:   match.ProfileURL("https://example.com"),
		Fetched:   false,
		Redirects: 9,
		Text:      "click immediately",
	})
	if len(got.Fired) != 1 || got.Fired[0] != "unreachable" {
		t.Fatalf("expected only the unreachable rule, got %v", got.Fired)
	}
}

func TestMergedIndicatorsExtendRules(t *testing.T) {
	base := DefaultIndicators()
	merged := base.Merge(KindTLD, ".ZIP").Merge(KindPhrase, "Wire The Funds")

	profile := match.ProfileURL("https://invoice.zip")
	if got := NewLinkScorer(base).Score(LinkSignals{Profile: profile, Fetched: true}); got.Points != 0 {
		t.Fatalf("expected default indicators to ignore .zip, got %d points", got.Points)
	}
	got := NewLinkScorer(merged).Score(LinkSignals{Profile: profile, Fetched: true, Text: "please WIRE the funds today"})
	if got.Points != 50 {
		t.Fatalf("expected 50 points from merged indicators, got %d (%v)", got.Points, got.Fired)
	}
	if base.Counts()[KindTLD] != 9 {
		t.Fatalf("merge must not mutate the original set, tld count %d", base.Counts()[KindTLD])
	}
	if merged.Counts()[KindTLD] != 10 {
		t.Fatalf("expected 10 tlds after merge got %d", merged.Counts()[KindTLD])
	}
}

func TestParseIndicatorKind(t *testing.T) {
	if kind, err := ParseIndicatorKind(" TLD "); err != nil || kind != KindTLD {
		t.Fatalf("expected tld kind, got %q err %v", kind, err)
	}
	if _, err := ParseIndicatorKind("brand"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
