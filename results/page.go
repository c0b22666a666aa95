// Package results turns a SauceNAO results page into something the
// application can show. The raw HTML is never altered; parsing only feeds the
// summary views.
package results

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BaseURL resolves relative links found in the page
const BaseURL = "https://saucenao.com/"

// Link is an outbound link attached to a match
type Link struct {
	Text string
	URL  string
}

// Match is one entry of the results page
type Match struct {
	Similarity float64 // percent
	Title      string
	Thumbnail  string
	Content    []string
	Links      []Link
	Hidden     bool // SauceNAO hides low similarity matches by default
}

// Page is the parsed results page
type Page struct {
	Matches []Match
}

// Parse extracts the matches from a results page. Pages without any match
// markup parse to an empty Page.
func Parse(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}
	base, _ := url.Parse(BaseURL)

	page := &Page{}
	doc.Find("div.result").Each(func(_ int, s *goquery.Selection) {
		similarity := s.Find(".resultsimilarityinfo").First()
		if similarity.Length() == 0 {
			// notices such as the hidden results banner share the class
			return
		}

		m := Match{
			Similarity: parsePercent(similarity.Text()),
			Title:      collapse(s.Find(".resulttitle").First().Text()),
			Hidden:     s.HasClass("hidden"),
		}

		img := s.Find(".resultimage img").First()
		thumb, ok := img.Attr("data-src")
		if !ok || thumb == "" {
			thumb, _ = img.Attr("src")
		}
		m.Thumbnail = resolve(base, thumb)

		s.Find(".resultcontentcolumn").Each(func(_ int, col *goquery.Selection) {
			m.Content = append(m.Content, splitLines(col)...)
		})

		seen := map[string]bool{}
		s.Find(".resultmiscinfo a[href], .resultcontentcolumn a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			href = resolve(base, href)
			if href == "" || seen[href] {
				return
			}
			seen[href] = true
			text := collapse(a.Text())
			if text == "" {
				text = hostOf(href)
			}
			m.Links = append(m.Links, Link{Text: text, URL: href})
		})

		page.Matches = append(page.Matches, m)
	})

	return page, nil
}

// Visible returns the matches to display
func (p *Page) Visible(showHidden bool) []Match {
	if showHidden {
		return p.Matches
	}
	var out []Match
	for _, m := range p.Matches {
		if !m.Hidden {
			out = append(out, m)
		}
	}
	return out
}

// HiddenCount returns how many matches SauceNAO marked as hidden
func (p *Page) HiddenCount() int {
	n := 0
	for _, m := range p.Matches {
		if m.Hidden {
			n++
		}
	}
	return n
}

// Best returns the match with the highest similarity
func (p *Page) Best() (Match, bool) {
	if len(p.Matches) == 0 {
		return Match{}, false
	}
	best := p.Matches[0]
	for _, m := range p.Matches[1:] {
		if m.Similarity > best.Similarity {
			best = m
		}
	}
	return best, true
}

// splitLines turns <br> separated content into trimmed lines
func splitLines(s *goquery.Selection) []string {
	s = s.Clone()
	s.Find("br").ReplaceWithHtml("\n")
	var lines []string
	for _, line := range strings.Split(s.Text(), "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func parsePercent(text string) float64 {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return v
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return u.Host
}
