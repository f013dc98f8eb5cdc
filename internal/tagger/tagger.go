
package tagger

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"discord-share/internal/models"
	"discord-share/internal/tagset"
)

// Generator derives hashtags from a page. It holds no state and never
// returns an error: bad input degrades to default or empty output.
type Generator struct{}

func New() *Generator { return &Generator{} }

var githubRepoRe = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// maxTokenLen excludes long keyword phrases from metadata tags.
const maxTokenLen = 20

func hostOf(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."), true
}

// FromDomain maps the URL host onto the domain table: exact match first,
// then containment in either direction.
func (g *Generator) FromDomain(rawURL string) []string {
	host, ok := hostOf(rawURL)
	if !ok {
		return []string{DefaultTag}
	}
	for _, r := range domainTags {
		if r.domain == host {
			return append([]string(nil), r.tags...)
		}
	}
	for _, r := range domainTags {
		if strings.Contains(host, r.domain) || strings.Contains(r.domain, host) {
			return append([]string(nil), r.tags...)
		}
	}
	return []string{DefaultTag}
}

// FromTitle matches technology names and topical keywords anywhere in the
// title, ignoring case.
func (g *Generator) FromTitle(title string) []string {
	if title == "" {
		return nil
	}
	lower := strings.ToLower(title)
	tags := tagset.New()
	for _, r := range technologies {
		if strings.Contains(lower, r.keyword) {
			tags.Add(r.tag)
		}
	}
	for _, r := range topicKeywords {
		if strings.Contains(lower, r.keyword) {
			tags.Add(r.tag)
		}
	}
	return tags.Slice()
}

// FromMetadata turns keywords, article:tag values and og:type into tags.
func (g *Generator) FromMetadata(meta map[string]string) []string {
	tags := tagset.New()
	tags.Add(tokenTags(meta[models.MetaKeywords])...)
	if tag, ok := ogTypeTags[meta[models.MetaOGType]]; ok {
		tags.Add(tag)
	}
	tags.Add(tokenTags(meta[models.MetaArticleTag])...)
	return tags.Slice()
}

func tokenTags(list string) []string {
	if list == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || utf8.RuneCountInString(tok) >= maxTokenLen {
			continue
		}
		out = append(out, "#"+strings.ToLower(strings.Join(strings.Fields(tok), "_")))
	}
	return out
}

// SiteSpecific adds tags for GitHub and YouTube pages based on the URL shape
// and the scraped site content.
func (g *Generator) SiteSpecific(rawURL string, site map[string]any) []string {
	host, ok := hostOf(rawURL)
	if !ok {
		return nil
	}
	switch {
	case strings.Contains(host, "github.com"):
		return githubTags(rawURL, site)
	case strings.Contains(host, "youtube.com"), host == "youtu.be":
		return youtubeTags(rawURL, site)
	}
	return nil
}

func githubTags(rawURL string, site map[string]any) []string {
	tags := tagset.New("#github", "#code")
	if githubRepoRe.MatchString(rawURL) {
		switch {
		case strings.Contains(rawURL, "/issues/"):
			tags.Add("#issue")
		case strings.Contains(rawURL, "/pull/"):
			tags.Add("#pr", "#pullrequest")
		case strings.Contains(rawURL, "/releases/"):
			tags.Add("#release")
		case strings.Contains(rawURL, "/wiki/"):
			tags.Add("#wiki", "#documentation")
		}
	}
	for _, lang := range stringsOf(site[models.SiteLanguages]) {
		if tag, ok := technologyTag(strings.ToLower(lang)); ok {
			tags.Add(tag)
		}
	}
	return tags.Slice()
}

func youtubeTags(rawURL string, site map[string]any) []string {
	tags := tagset.New("#youtube", "#video", "#動画")
	switch {
	case strings.Contains(rawURL, "/watch?v="):
		tags.Add("#watch")
	case strings.Contains(rawURL, "/playlist"):
		tags.Add("#playlist")
	case strings.Contains(rawURL, "/channel/"), strings.Contains(rawURL, "/c/"), strings.Contains(rawURL, "/@"):
		tags.Add("#channel")
	}
	if cat, ok := site[models.SiteCategory].(string); ok {
		if tag, ok := videoCategoryTags[strings.ToLower(cat)]; ok {
			tags.Add(tag)
		}
	}
	return tags.Slice()
}

// stringsOf accepts the shapes site content takes after a parse or a JSON
// round trip.
func stringsOf(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, x := range vv {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if vv != "" {
			return []string{vv}
		}
	}
	return nil
}

// Generate unions domain, title, metadata and site tags in that order and
// keeps the first MaxTags.
func (g *Generator) Generate(page models.PageContext) []string {
	tags := tagset.New()
	tags.Add(g.FromDomain(page.URL)...)
	tags.Add(g.FromTitle(page.Title)...)
	tags.Add(g.FromMetadata(page.Metadata)...)
	tags.Add(g.SiteSpecific(page.URL, page.SiteContent)...)
	return tags.Head(MaxTags)
}

// Suggestions ranks recent tags over frequent tags over the built-in popular
// list, filtered by a case-insensitive substring when prefix is set.
func (g *Generator) Suggestions(prefix string, recent, frequent []string) []string {
	all := tagset.New(recent...)
	all.Add(frequent...)
	all.Add(popularTags...)
	if prefix == "" {
		return all.Head(MaxSuggestions)
	}
	needle := strings.ToLower(prefix)
	out := make([]string, 0, MaxSuggestions)
	for _, tag := range all.Slice() {
		if strings.Contains(strings.ToLower(tag), needle) {
			out = append(out, tag)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}
