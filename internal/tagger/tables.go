
package tagger

// DefaultTag is returned for hosts the domain table does not know.
const DefaultTag = "#web"

// MaxTags bounds the output of Generate.
const MaxTags = 10

// MaxSuggestions bounds the output of Suggestions.
const MaxSuggestions = 5

type domainRule struct {
	domain string
	tags   []string
}

// Declaration order matters: the containment fallback returns the first hit.
var domainTags = []domainRule{
	{"github.com", []string{"#github", "#code", "#開発"}},
	{"youtube.com", []string{"#youtube", "#video", "#動画"}},
	{"twitter.com", []string{"#twitter", "#sns"}},
	{"x.com", []string{"#x", "#sns"}},
	{"qiita.com", []string{"#qiita", "#tech", "#技術記事"}},
	{"zenn.dev", []string{"#zenn", "#tech", "#技術記事"}},
	{"stackoverflow.com", []string{"#stackoverflow", "#qa", "#programming"}},
	{"reddit.com", []string{"#reddit", "#forum"}},
	{"medium.com", []string{"#medium", "#blog"}},
	{"dev.to", []string{"#dev", "#blog", "#programming"}},
	{"amazon.co.jp", []string{"#amazon", "#shopping", "#通販"}},
	{"amazon.com", []string{"#amazon", "#shopping"}},
	{"note.com", []string{"#note", "#blog"}},
	{"discord.com", []string{"#discord", "#chat"}},
	{"slack.com", []string{"#slack", "#chat", "#communication"}},
	{"notion.so", []string{"#notion", "#productivity", "#ツール"}},
	{"figma.com", []string{"#figma", "#design", "#デザイン"}},
	{"canva.com", []string{"#canva", "#design", "#デザイン"}},
	{"chatgpt.com", []string{"#chatgpt", "#ai"}},
	{"claude.ai", []string{"#claude", "#ai"}},
	{"google.com", []string{"#google", "#search"}},
	{"wikipedia.org", []string{"#wikipedia", "#wiki", "#知識"}},
}

type keywordRule struct {
	keyword string
	tag     string
}

// technologies doubles as the lookup table for GitHub repository languages.
var technologies = []keywordRule{
	{"javascript", "#javascript"},
	{"typescript", "#typescript"},
	{"python", "#python"},
	{"java", "#java"},
	{"csharp", "#csharp"},
	{"cpp", "#cpp"},
	{"ruby", "#ruby"},
	{"go", "#go"},
	{"rust", "#rust"},
	{"swift", "#swift"},
	{"kotlin", "#kotlin"},
	{"php", "#php"},
	{"react", "#react"},
	{"vue", "#vue"},
	{"angular", "#angular"},
	{"nodejs", "#nodejs"},
	{"django", "#django"},
	{"flask", "#flask"},
	{"rails", "#rails"},
	{"docker", "#docker"},
	{"kubernetes", "#kubernetes"},
}

var topicKeywords = []keywordRule{
	{"tutorial", "#tutorial"},
	{"チュートリアル", "#tutorial"},
	{"guide", "#guide"},
	{"ガイド", "#guide"},
	{"how to", "#howto"},
	{"方法", "#howto"},
	{"review", "#review"},
	{"レビュー", "#review"},
	{"news", "#news"},
	{"ニュース", "#news"},
	{"update", "#update"},
	{"アップデート", "#update"},
	{"release", "#release"},
	{"リリース", "#release"},
	{"tips", "#tips"},
	{"error", "#error"},
	{"エラー", "#error"},
	{"bug", "#bug"},
	{"バグ", "#bug"},
	{"fix", "#fix"},
	{"修正", "#fix"},
	{"api", "#api"},
	{"database", "#database"},
	{"データベース", "#database"},
	{"security", "#security"},
	{"セキュリティ", "#security"},
	{"ai", "#ai"},
	{"人工知能", "#ai"},
	{"machine learning", "#ml"},
	{"機械学習", "#ml"},
	{"deep learning", "#deeplearning"},
	{"ディープラーニング", "#deeplearning"},
}

var ogTypeTags = map[string]string{
	"article": "#article",
	"blog":    "#blog",
	"website": "#website",
	"video":   "#video",
	"music":   "#music",
	"book":    "#book",
	"product": "#product",
}

var videoCategoryTags = map[string]string{
	"music":         "#music",
	"gaming":        "#gaming",
	"education":     "#education",
	"science":       "#science",
	"technology":    "#technology",
	"entertainment": "#entertainment",
	"sports":        "#sports",
	"news":          "#news",
}

var popularTags = []string{
	"#bookmark", "#reference", "#important", "#todo", "#later",
	"#work", "#personal", "#study", "#research", "#idea",
	"#仕事", "#個人", "#勉強", "#調査", "#アイデア",
}

func technologyTag(name string) (string, bool) {
	for _, r := range technologies {
		if r.keyword == name {
			return r.tag, true
		}
	}
	return "", false
}
