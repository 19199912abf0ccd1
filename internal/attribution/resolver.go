// Package attribution decides which affiliate, if any, receives credit for an
// inbound request. Resolution is last-touch: an explicit referral code always
// overrides a previously stored token, even one pointing at a different
// affiliate.
package attribution

import "strconv"

// Source identifies where a resolution came from.
type Source int

const (
	// SourceNone means no affiliate was resolved for the request.
	SourceNone Source = iota
	// SourceReferralCode means an explicit, active referral code matched.
	SourceReferralCode
	// SourceToken means the stored session token was trusted verbatim.
	SourceToken
)

// RequestContext carries the attribution inputs of a single request. It is an
// explicit value object so the resolver stays pure and testable: no framework
// globals are consulted.
type RequestContext struct {
	// RefCode is the referral code query parameter, empty if absent.
	RefCode string
	// TokenValue is the stored attribution token (affiliate id as a decimal
	// string), empty if absent.
	TokenValue string
}

// Resolution is the outcome of attribution for one request.
type Resolution struct {
	AffiliateID int64
	Source      Source
	// WriteToken is true only when an explicit active code matched and the
	// 30-day session token must be (re-)written.
	WriteToken bool
}

// Attributed reports whether an affiliate was resolved.
func (r Resolution) Attributed() bool {
	return r.Source != SourceNone
}

// CodeLookup resolves a referral code to an affiliate id, considering active
// affiliates only. The second return value is false when the code does not
// match any active affiliate.
type CodeLookup func(code string) (int64, bool)

// Resolve determines the effective affiliate for a request.
//
// Precedence, in strict order:
//  1. An explicit referral code that matches an active affiliate. The token
//     is rewritten (last-touch override).
//  2. A non-empty stored token. Its affiliate id is trusted verbatim, without
//     re-validating the affiliate's current status.
//  3. Nothing resolves.
//
// An invalid or inactive referral code is treated exactly like no code at
// all: it neither resolves nor clobbers an existing token.
func Resolve(rc RequestContext, lookup CodeLookup) Resolution {
	if rc.RefCode != "" {
		if id, ok := lookup(rc.RefCode); ok {
			return Resolution{AffiliateID: id, Source: SourceReferralCode, WriteToken: true}
		}
	}

	if rc.TokenValue != "" {
		id, err := strconv.ParseInt(rc.TokenValue, 10, 64)
		if err == nil && id > 0 {
			return Resolution{AffiliateID: id, Source: SourceToken}
		}
	}

	return Resolution{Source: SourceNone}
}

// TokenValue encodes an affiliate id as the opaque token value stored on the
// client.
func TokenValue(affiliateID int64) string {
	return strconv.FormatInt(affiliateID, 10)
}
