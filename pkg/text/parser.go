// Package text turns free-form user input into a music link or a search query.
package text

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"spoyt/pkg/musiclink"
)

var (
	urlRegex        = regexp.MustCompile(`https?://\S+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "si"}
)

// Parser classifies raw input as a link or a search query.
type Parser struct {
	links *musiclink.Manager
}

// NewParser creates a parser backed by the default link matchers.
func NewParser() *Parser {
	return &Parser{links: musiclink.NewManager()}
}

// Parse returns the first URL in text as a classified Link, or the whole text as a query.
func (p *Parser) Parse(text string) (*musiclink.Link, error) {
	text = p.normalizeText(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", musiclink.ErrUnrecognizedInput)
	}

	if urls := p.extractURLs(text); len(urls) > 0 {
		return p.links.Parse(urls[0])
	}

	return &musiclink.Link{Kind: musiclink.KindQuery, Query: text}, nil
}

func (p *Parser) normalizeText(text string) string {
	text = norm.NFKC.String(text)
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

func (p *Parser) extractURLs(text string) []string {
	matches := urlRegex.FindAllString(text, -1)
	var cleanURLs []string

	for _, match := range matches {
		if cleanURL := p.cleanURL(match); cleanURL != "" {
			cleanURLs = append(cleanURLs, cleanURL)
		}
	}

	return cleanURLs
}

func (p *Parser) cleanURL(rawURL string) string {
	rawURL = strings.TrimRight(rawURL, ".,!?;")

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	q := u.Query()
	for _, param := range trackingParams {
		q.Del(param)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
