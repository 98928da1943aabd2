package match

import "testing"

func TestProfileURL(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		url        string
		target     string
		host       string
		label      string
		suffix     string
		registered string
	}{
		{"plain https", "https://example.com", "https://example.com", "https://example.com", "example.com", "example", "com", "example.com"},
		{"subdomain and path", "http://www.secure-login-verify.xyz/account?x=1", "http://www.secure-login-verify.xyz/account?x=1", "http://www.secure-login-verify.xyz/account?x=1", "www.secure-login-verify.xyz", "secure-login-verify", "xyz", "secure-login-verify.xyz"},
		{"multi-part suffix", "https://shop.amazon.co.uk/deals", "https://shop.amazon.co.uk/deals", "https://shop.amazon.co.uk/deals", "shop.amazon.co.uk", "amazon", "co.uk", "amazon.co.uk"},
		{"defanged", "hxxps://evil[.]tk/x", "https://evil.tk/x", "https://evil.tk/x", "evil.tk", "evil", "tk", "evil.tk"},
		{"paren dot", "hxxp://bit(.)ly/abc", "http://bit.ly/abc", "http://bit.ly/abc", "bit.ly", "bit", "ly", "bit.ly"},
		{"schemeless", "tinyurl.com/xyz", "tinyurl.com/xyz", "https://tinyurl.com/xyz", "tinyurl.com", "tinyurl", "com", "tinyurl.com"},
		{"credentials and port", "http://user:pw@Paypal-Account-Update.top:8080/", "http://user:pw@Paypal-Account-Update.top:8080/", "http://user:pw@Paypal-Account-Update.top:8080/", "paypal-account-update.top", "paypal-account-update", "top", "paypal-account-update.top"},
		{"ip host", "http://192.168.0.1/login", "http://192.168.0.1/login", "http://192.168.0.1/login", "192.168.0.1", "192.168.0.1", "", "192.168.0.1"},
		{"private suffix", "https://someone.github.io/page", "https://someone.github.io/page", "https://someone.github.io/page", "someone.github.io", "github", "io", "github.io"},
		{"single label", "http://localhost:3000", "http://localhost:3000", "http://localhost:3000", "localhost", "localhost", "", "localhost"},
		{"empty", "  ", "", "", "", "", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			profile := ProfileURL(tc.input)
			if profile.URL != tc.url {
				t.Fatalf("expected url %q got %q", tc.url, profile.URL)
			}
			if profile.Target != tc.target {
				t.Fatalf("expected target %q got %q", tc.target, profile.Target)
			}
			if profile.Host != tc.host {
				t.Fatalf("expected host %q got %q", tc.host, profile.Host)
			}
			if profile.Label != tc.label {
				t.Fatalf("expected label %q got %q", tc.label, profile.Label)
			}
			if profile.Suffix != tc.suffix {
				t.Fatalf("expected suffix %q got %q", tc.suffix, profile.Suffix)
			}
			if got := profile.RegisteredDomain(); got != tc.registered {
				t.Fatalf("expected registered domain %q got %q", tc.registered, got)
			}
		})
	}
}

func TestDeobfuscateLeavesCleanURLsAlone(t *testing.T) {
	in := "https://example.org/a(b)c[d]"
	if got := Deobfuscate(in); got != in {
		t.Fatalf("expected %q unchanged, got %q", in, got)
	}
}
