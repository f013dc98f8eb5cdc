
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"discord-share/internal/models"
)

// Parser builds a PageContext from an HTML document. Site-specific content
// is scraped for the hosts the tag generator knows about.
type Parser struct {
	excerptLen int
}

func New() *Parser { return &Parser{excerptLen: 300} }

const (
	maxHeadings   = 3
	maxHeadingLen = 100
)

func (p *Parser) Extract(r io.Reader, contentType, pageURL string) (models.PageContext, error) {
	// Decode to UTF-8 if needed
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return models.PageContext{}, fmt.Errorf("read body: %w", err)
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return models.PageContext{}, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return models.PageContext{}, err
	}

	page := models.PageContext{
		URL:         pageURL,
		Metadata:    map[string]string{},
		SiteContent: map[string]any{},
	}

	// JSON-LD lives in script tags, read it before they are stripped.
	collectJSONLD(doc, page.Metadata)
	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if page.Title == "" {
		page.Title = strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}

	collectMeta(doc, page.Metadata)

	host := ""
	if u, err := url.Parse(pageURL); err == nil {
		host = strings.ToLower(u.Hostname())
	}
	collectSite(doc, host, page.SiteContent)

	var headings []string
	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t != "" && utf8.RuneCountInString(t) < maxHeadingLen {
			headings = append(headings, t)
		}
	})
	if len(headings) > maxHeadings {
		headings = headings[:maxHeadings]
	}
	if len(headings) > 0 {
		page.SiteContent[models.SiteHeadings] = headings
	}

	page.Excerpt = p.excerpt(utf8data, pageURL, page.Metadata[models.MetaDescription])
	return page, nil
}

func collectMeta(doc *goquery.Document, meta map[string]string) {
	var articleTags []string
	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		content := s.AttrOr("content", "")
		switch s.AttrOr("name", "") {
		case "keywords":
			meta[models.MetaKeywords] = content
		case "description":
			meta[models.MetaDescription] = content
		}
		switch s.AttrOr("property", "") {
		case "article:tag":
			articleTags = append(articleTags, content)
		case "og:type":
			meta[models.MetaOGType] = content
		case "og:site_name":
			meta[models.MetaSiteName] = content
		}
	})
	if len(articleTags) > 0 {
		meta[models.MetaArticleTag] = strings.Join(articleTags, ",")
	}
}

// collectJSONLD records @type and keywords from structured data blocks.
// Malformed blocks are skipped.
func collectJSONLD(doc *goquery.Document, meta map[string]string) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var data map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		if t := joinValue(data["@type"]); t != "" {
			meta[models.MetaSchemaType] = t
		}
		if kw := joinValue(data["keywords"]); kw != "" {
			meta[models.MetaSchemaKeywords] = kw
		}
	})
}

func joinValue(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case []any:
		parts := make([]string, 0, len(vv))
		for _, x := range vv {
			if s, ok := x.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	}
	return ""
}

func texts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func attrs(doc *goquery.Document, selector, attr string) []string {
	var out []string
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
			out = append(out, v)
		}
	})
	return out
}

func collectSite(doc *goquery.Document, host string, site map[string]any) {
	switch host {
	case "github.com":
		site[models.SiteIsGitHub] = true
		if langs := texts(doc, `[data-ga-click*="language"], [itemprop="programmingLanguage"]`); len(langs) > 0 {
			site[models.SiteLanguages] = langs
		}
		if topics := texts(doc, ".topic-tag"); len(topics) > 0 {
			site[models.SiteTopics] = topics
		}
		if star := strings.TrimSpace(doc.Find(`[aria-label*="star"]`).First().Text()); star != "" {
			site[models.SiteStars] = collapseSpace(star)
		}

	case "www.youtube.com", "youtube.com":
		site[models.SiteIsYouTube] = true
		ch := doc.Find("ytd-channel-name a").First()
		if ch.Length() == 0 {
			ch = doc.Find(`[itemprop="author"] link[itemprop="name"]`).First()
		}
		if ch.Length() > 0 {
			name := ch.AttrOr("content", "")
			if name == "" {
				name = strings.TrimSpace(ch.Text())
			}
			if name != "" {
				site[models.SiteChannelName] = name
			}
		}
		if cat := doc.Find(`meta[itemprop="genre"]`).AttrOr("content", ""); cat != "" {
			site[models.SiteCategory] = cat
		}
		if tags := attrs(doc, `meta[property="og:video:tag"]`, "content"); len(tags) > 0 {
			site[models.SiteVideoTags] = tags
		}

	case "twitter.com", "x.com":
		site[models.SiteIsTwitter] = true
		var hashtags []string
		for _, t := range texts(doc, `a[href*="/hashtag/"]`) {
			if strings.HasPrefix(t, "#") {
				hashtags = append(hashtags, t)
			}
		}
		if len(hashtags) > 0 {
			site[models.SiteHashtags] = hashtags
		}

	case "qiita.com":
		site[models.SiteIsQiita] = true
		if tags := texts(doc, ".it-Tags_item a"); len(tags) > 0 {
			site[models.SiteArticleTags] = tags
		}

	case "zenn.dev":
		site[models.SiteIsZenn] = true
		if topics := texts(doc, `[class*="TopicList"] a`); len(topics) > 0 {
			site[models.SiteTopics] = topics
		}
	}
}

// excerpt prefers the meta description and falls back to the start of the
// readable article text.
func (p *Parser) excerpt(html []byte, pageURL, description string) string {
	if d := strings.TrimSpace(description); d != "" {
		return truncate(d, p.excerptLen)
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		u = nil
	}
	article, err := readability.FromReader(bytes.NewReader(html), u)
	if err != nil {
		return ""
	}
	text := collapseSpace(article.TextContent)
	return truncate(text, p.excerptLen)
}

// collapseSpace joins the fields of s with single spaces. Unicode spaces
// count as separators.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
