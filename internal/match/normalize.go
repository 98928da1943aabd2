package match

import (
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var (
	schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	deobfuscator = strings.NewReplacer(
		"[.]", ".",
		"(.)", ".",
		"hxxp://", "http://",
		"hxxps://", "https://",
	)
)

// URLProfile captures the parts of a URL the link rules inspect.
type URLProfile struct {
	Original string
	// URL is the deobfuscated input; length and character rules run against it.
	URL string
	// Target is URL with a scheme, suitable for fetching. Schemeless input gets https:// so a bare
	// domain is fetched instead of counting as unreachable.
	Target string
	Host   string
	// Label is the registrable label left of the public suffix ("example" in www.example.co.uk).
	Label  string
	Suffix string
}

// RegisteredDomain joins the label and suffix ("example.co.uk").
func (p URLProfile) RegisteredDomain() string {
	switch {
	case p.Label == "":
		return p.Suffix
	case p.Suffix == "":
		return p.Label
	default:
		return p.Label + "." + p.Suffix
	}
}

// Deobfuscate reverses common defanging substitutions such as hxxp:// and [.].
func Deobfuscate(raw string) string {
	return deobfuscator.Replace(raw)
}

// ProfileURL deobfuscates the input and splits its host into label and public suffix.
func ProfileURL(raw string) URLProfile {
	cleaned := Deobfuscate(strings.TrimSpace(raw))

	target := cleaned
	if target != "" && !schemePrefix.MatchString(target) {
		target = "https://" + target
	}

	host := extractHost(cleaned)
	label, suffix := splitHost(host)

	return URLProfile{
		Original: raw,
		URL:      cleaned,
		Target:   target,
		Host:     host,
		Label:    label,
		Suffix:   suffix,
	}
}

func extractHost(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	lower = schemePrefix.ReplaceAllString(lower, "")

	// Trim path, query, fragment
	for _, sep := range []string{"/", "?", "#"} {
		if idx := strings.Index(lower, sep); idx >= 0 {
			lower = lower[:idx]
		}
	}

	// Drop credentials if present (user:pass@)
	if idx := strings.LastIndex(lower, "@"); idx >= 0 {
		lower = lower[idx+1:]
	}

	if strings.HasPrefix(lower, "[") {
		if end := strings.Index(lower, "]"); end > 0 {
			return lower[1:end]
		}
	}
	if idx := strings.IndexRune(lower, ':'); idx >= 0 {
		lower = lower[:idx]
	}
	return strings.Trim(lower, ".")
}

func splitHost(host string) (label, suffix string) {
	if host == "" {
		return "", ""
	}
	if net.ParseIP(host) != nil {
		return host, ""
	}

	suffix = icannSuffix(host)
	if suffix == "" {
		return lastLabel(host), ""
	}
	if suffix == host {
		return "", suffix
	}
	return lastLabel(strings.TrimSuffix(host, "."+suffix)), suffix
}

// icannSuffix resolves the ICANN public suffix of host, skipping privately registered suffixes
// (github.io resolves to io). Hosts under an unlisted TLD have no suffix.
func icannSuffix(host string) string {
	candidate := host
	for {
		suffix, icann := publicsuffix.PublicSuffix(candidate)
		if icann {
			return suffix
		}
		idx := strings.IndexByte(suffix, '.')
		if idx < 0 {
			return ""
		}
		candidate = suffix[idx+1:]
	}
}

func lastLabel(host string) string {
	if idx := strings.LastIndexByte(host, '.'); idx >= 0 {
		return host[idx+1:]
	}
	return host
}
