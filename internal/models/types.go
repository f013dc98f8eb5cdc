
package models

import (
	"encoding/json"
	"time"
)

// Metadata keys filled in by the parser.
const (
	MetaKeywords       = "keywords"
	MetaDescription    = "description"
	MetaArticleTag     = "articleTag"
	MetaOGType         = "ogType"
	MetaSiteName       = "siteName"
	MetaSchemaType     = "schemaType"
	MetaSchemaKeywords = "schemaKeywords"
)

// Site content keys filled in by the parser.
const (
	SiteIsGitHub    = "isGitHub"
	SiteLanguages   = "languages"
	SiteTopics      = "topics"
	SiteStars       = "stars"
	SiteIsYouTube   = "isYouTube"
	SiteChannelName = "channelName"
	SiteCategory    = "category"
	SiteVideoTags   = "videoTags"
	SiteIsTwitter   = "isTwitter"
	SiteHashtags    = "hashtags"
	SiteIsQiita     = "isQiita"
	SiteArticleTags = "articleTags"
	SiteIsZenn      = "isZenn"
	SiteHeadings    = "headings"
)

type PageContext struct {
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	SiteContent map[string]any    `json:"siteContent,omitempty"`
	Excerpt     string            `json:"excerpt,omitempty"`
}

// Draft is a page with its proposed tags, before the user edits them.
type Draft struct {
	Page PageContext `json:"page"`
	Tags []string    `json:"tags"`
}

type ShareRecord struct {
	ID     string    `json:"id"`
	URL    string    `json:"url"`
	Title  string    `json:"title"`
	Tags   []string  `json:"tags"`
	Note   string    `json:"note,omitempty"`
	SentAt time.Time `json:"sentAt"`
}

type TagCount struct {
	Tag   string
	Count int
}

// MarshalJSON encodes the pair as [tag, count].
func (tc TagCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{tc.Tag, tc.Count})
}
