// Package useragent wraps the uap-go User-Agent parser for crawler
// detection. Device and browser categories for analytics are classified
// separately by the visits package; this parser only answers "is this a
// bot?" so crawler traffic can be kept out of the event stream.
package useragent

import (
	"strings"
	"sync"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Parser wraps the User-Agent parser with bot detection.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

var (
	globalParser *Parser
	once         sync.Once
)

// botIndicators are substrings that mark a User-Agent as automated traffic.
var botIndicators = []string{
	"googlebot", "bingbot", "slurp", "duckduckbot", "baiduspider",
	"yandexbot", "facebookexternalhit", "twitterbot", "linkedinbot",
	"whatsapp", "telegram", "skypeuripreview", "bot", "crawler",
	"spider", "scraper", "curl/", "wget/",
}

// NewParser creates a parser backed by uap-go's compiled-in regex set.
func NewParser(log *zap.Logger) *Parser {
	return &Parser{
		parser: uaparser.NewFromSaved(),
		log:    log,
	}
}

// InitGlobalParser initializes the global parser instance.
func InitGlobalParser(log *zap.Logger) {
	once.Do(func() {
		globalParser = NewParser(log)
	})
}

// GetGlobalParser returns the singleton parser instance, nil if not
// initialized.
func GetGlobalParser() *Parser {
	return globalParser
}

// IsBot reports whether the User-Agent belongs to a crawler or other
// automated client. It combines uap-go's device family with a substring
// indicator list, since many crawlers self-identify only in the raw string.
func (p *Parser) IsBot(userAgent string) bool {
	if userAgent == "" {
		return false
	}

	client := p.parser.Parse(userAgent)
	if client.Device.Family == "Spider" {
		return true
	}

	lower := strings.ToLower(userAgent)
	for _, indicator := range botIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}

	return false
}

// OSFamily returns the operating system family parsed from the User-Agent,
// "unknown" when unavailable. Used only for structured log enrichment.
func (p *Parser) OSFamily(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	client := p.parser.Parse(userAgent)
	if client.Os.Family == "" || client.Os.Family == "Other" {
		return "unknown"
	}
	return client.Os.Family
}
