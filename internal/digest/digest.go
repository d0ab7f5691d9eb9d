// Package digest builds the shareable plain-text weekly roundup and the
// canonical/share URLs used by the cards and the digest footer.
package digest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/subhashbohra/acloudresume-site/internal/models"
	"github.com/subhashbohra/acloudresume-site/internal/timeutil"
)

// DefaultMaxPerCategory caps the item lines emitted per category section.
const DefaultMaxPerCategory = 7

// categoryIcons decorate the digest section headers.
var categoryIcons = map[string]string{
	"Serverless":               "⚡",
	"AI & GenAI":               "🤖",
	"AI Agents":                "🧠",
	"DevOps & Observability":   "🔧",
	"Containers & Kubernetes":  "🧩",
	"Security":                 "🔒",
	"Data & Analytics":         "📊",
	"Databases":                "🗄️",
	"Storage":                  "🪣",
	"Networking":               "🌐",
	models.CategoryOther:       "🗞️",
}

// hashtags appended to every digest.
var hashtags = []string{
	"#AWS", "#AWSWeekly", "#Cloud",
	"#Serverless", "#AWSLambda", "#EventBridge",
	"#GenAI", "#AmazonBedrock",
	"#DevOps", "#Observability",
}

// Options configure digest generation.
type Options struct {
	// SiteBaseURL is the canonical site base used for item and footer links.
	SiteBaseURL string
	// MaxPerCategory caps item lines per category; <=0 means the default.
	MaxPerCategory int
}

func (o Options) maxPerCategory() int {
	if o.MaxPerCategory <= 0 {
		return DefaultMaxPerCategory
	}
	return o.MaxPerCategory
}

// Build produces the plain-text digest for the given week from an
// already-normalized item sequence. Categories are iterated in the fixed
// brand order, skipping those with no items that week; within a category the
// incoming most-recent-first order is preserved.
func Build(items []models.Update, weekKey string, opts Options) string {
	byCategory := make(map[string][]models.Update)
	for _, it := range items {
		if it.WeekKey != weekKey {
			continue
		}
		c := it.Category
		if c == "" {
			c = models.CategoryOther
		}
		byCategory[c] = append(byCategory[c], it)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚀 AWS Weekly Roundup — %s (%s)\n", weekKey, timeutil.WeekRangeLabel(weekKey))
	b.WriteString("📣 Skimmable updates for Serverless • AI/GenAI • Agents • DevOps\n\n")

	perCategory := opts.maxPerCategory()
	for _, category := range models.BrandCategories {
		if category == models.CategoryAll {
			continue
		}
		group := byCategory[category]
		if len(group) == 0 {
			continue
		}
		icon := categoryIcons[category]
		if icon == "" {
			icon = categoryIcons[models.CategoryOther]
		}
		fmt.Fprintf(&b, "%s %s\n", icon, category)
		if len(group) > perCategory {
			group = group[:perCategory]
		}
		for _, it := range group {
			fmt.Fprintf(&b, "• %s — %s\n", it.Title, CanonicalURL(opts.SiteBaseURL, it))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "🔗 Full list: %s/aws-updates.html?week=%s\n\n", strings.TrimRight(opts.SiteBaseURL, "/"), weekKey)
	b.WriteString(strings.Join(hashtags, " "))
	b.WriteString("\n")
	return b.String()
}

// CanonicalURL builds the deep-linkable page URL for an item:
// <base>/aws-updates.html?week=<weekKey>#<updateId>.
func CanonicalURL(siteBase string, it models.Update) string {
	return fmt.Sprintf("%s/aws-updates.html?week=%s#%s",
		strings.TrimRight(siteBase, "/"),
		url.QueryEscape(it.WeekKey),
		url.PathEscape(it.UpdateID))
}

// ShareLinks holds the pre-formatted share-intent URLs for a canonical URL.
type ShareLinks struct {
	LinkedIn string `json:"linkedin"`
	X        string `json:"x"`
}

// BuildShareLinks returns share-intent URLs for the two supported networks,
// parameterized only by the target URL.
func BuildShareLinks(targetURL string) ShareLinks {
	u := url.QueryEscape(targetURL)
	return ShareLinks{
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + u,
		X:        "https://twitter.com/intent/tweet?url=" + u,
	}
}
