package visits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaIPhone       = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1"
	uaAndroid      = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Mobile Safari/537.36"
	uaWindowsChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
	uaChromiumEdge = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36 Edg/91.0.864.67"
	uaOpera        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36 OPR/100.0.0.0"
	uaMacSafari    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15"
	uaFirefox      = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"iphone is mobile", uaIPhone, "mobile"},
		{"android is mobile", uaAndroid, "mobile"},
		{"ipad is mobile", "Mozilla/5.0 (iPad; CPU OS 16_5 like Mac OS X)", "mobile"},
		{"blackberry is mobile", "BlackBerry9700/5.0.0.862", "mobile"},
		{"windows phone is mobile", "Mozilla/5.0 (Windows Phone 10.0)", "mobile"},
		{"desktop chrome is desktop", uaWindowsChrome, "desktop"},
		{"mac safari is desktop", uaMacSafari, "desktop"},
		{"empty user agent is unknown", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDevice(tt.userAgent))
		})
	}
}

func TestClassifyBrowser(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		// Chromium-based Edge carries a Chrome token too; Edge must win.
		{"chromium edge beats chrome", uaChromiumEdge, "Edge"},
		{"opera beats chrome", uaOpera, "Opera"},
		{"plain chrome", uaWindowsChrome, "Chrome"},
		{"safari", uaMacSafari, "Safari"},
		{"firefox", uaFirefox, "Firefox"},
		{"ie trident", "Mozilla/5.0 (Windows NT 6.1; Trident/7.0; rv:11.0) like Gecko", "IE"},
		{"empty is unknown", "", "unknown"},
		{"gibberish is unknown", "some-custom-client/1.0", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBrowser(tt.userAgent))
		})
	}
}

func TestBrowserRuleOrdering(t *testing.T) {
	// The priority table must keep specific tokens ahead of the generic
	// ones they are substrings of.
	indexOf := func(pattern string) int {
		for i, rule := range browserRules {
			if rule.pattern == pattern {
				return i
			}
		}
		t.Fatalf("pattern %q not found in browser rules", pattern)
		return -1
	}

	assert.Less(t, indexOf("Edg/"), indexOf("Chrome"))
	assert.Less(t, indexOf("OPR"), indexOf("Chrome"))
	assert.Less(t, indexOf("Chrome"), indexOf("Safari"))
}
