package visits

import (
	"strings"

	"EstateRef-Backend/internal/domain"
)

// classifierRule is one (pattern, label) entry of an ordered priority table.
// Tables are evaluated top to bottom and the first matching pattern wins, so
// ordering invariants stay visible and testable in one place.
type classifierRule struct {
	pattern string
	label   string
}

// mobileRules lists the User-Agent tokens that classify a visit as mobile.
var mobileRules = []classifierRule{
	{"Mobile", domain.DeviceMobile},
	{"Android", domain.DeviceMobile},
	{"iPhone", domain.DeviceMobile},
	{"iPad", domain.DeviceMobile},
	{"iPod", domain.DeviceMobile},
	{"BlackBerry", domain.DeviceMobile},
	{"Windows Phone", domain.DeviceMobile},
}

// browserRules maps User-Agent tokens to browser families. Order matters:
// Chromium-based Edge user agents also contain "Chrome", and Opera user
// agents contain both "OPR" and "Chrome", so the more specific tokens must
// come first.
var browserRules = []classifierRule{
	{"Edg/", "Edge"},
	{"Edge", "Edge"},
	{"OPR", "Opera"},
	{"Opera", "Opera"},
	{"SamsungBrowser", "Samsung Internet"},
	{"Chrome", "Chrome"},
	{"CriOS", "Chrome"},
	{"FxiOS", "Firefox"},
	{"Firefox", "Firefox"},
	{"Safari", "Safari"},
	{"MSIE", "IE"},
	{"Trident", "IE"},
}

const unknownBrowser = "unknown"

// ClassifyDevice derives the device category from a User-Agent string.
// A match in the mobile table wins; any other non-empty User-Agent is
// desktop; an empty one is unknown.
func ClassifyDevice(userAgent string) string {
	if userAgent == "" {
		return domain.DeviceUnknown
	}
	for _, rule := range mobileRules {
		if strings.Contains(userAgent, rule.pattern) {
			return rule.label
		}
	}
	return domain.DeviceDesktop
}

// ClassifyBrowser derives the browser family from a User-Agent string via
// the ordered priority table; no match yields "unknown".
func ClassifyBrowser(userAgent string) string {
	for _, rule := range browserRules {
		if strings.Contains(userAgent, rule.pattern) {
			return rule.label
		}
	}
	return unknownBrowser
}
