package listing

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"listingrelay/internal/types"
)

// Site-name suffixes are stripped from page titles before evaluating them
// as property titles ("123 Oak Ave For Sale | Realty Co" -> "123 Oak Ave
// For Sale").
var (
	titlePipeSuffixRe = regexp.MustCompile(`\s*\|\s*.*$`)
	titleDashSuffixRe = regexp.MustCompile(`\s*-\s*.*$`)
	digitsRe          = regexp.MustCompile(`\d+`)
)

// titleSelectors are checked in order when neither the page title nor an h1
// yields a usable property title.
var titleSelectors = []string{
	`[data-testid="property-title"]`,
	".property-title",
	".listing-title",
	".property-address",
	".address",
}

var locationSelectors = []string{
	".address", ".location", ".property-address",
	`[data-testid="address"]`, `[data-testid="location"]`,
}

var priceSelectors = []string{
	".price", ".property-price", ".listing-price",
	`[data-testid="price"]`,
}

var descriptionSelectors = []string{
	".description", ".property-description", ".listing-description",
	`[data-testid="description"]`,
}

// propertyTypeRule associates a PropertyType with the keywords that signal
// it. Rules are checked in order and the first match wins, so a page
// mentioning both "condo" and "luxury estate" classifies as condominium.
type propertyTypeRule struct {
	propertyType types.PropertyType
	keywords     []string
}

var propertyTypeRules = []propertyTypeRule{
	{types.PropertyCondominium, []string{"condo", "condominium", "unit"}},
	{types.PropertyTownhouse, []string{"townhouse", "townhome", "row house"}},
	{types.PropertyApartment, []string{"apartment", "apt"}},
	{types.PropertyCommercial, []string{"commercial", "office", "retail", "warehouse"}},
	{types.PropertyLuxuryHome, []string{"luxury", "estate", "mansion", "villa"}},
}

// ClassifyPropertyType maps arbitrary listing text (page body or title) to
// a PropertyType by ordered keyword search. Text with no recognized keyword
// classifies as residential_home.
func ClassifyPropertyType(text string) types.PropertyType {
	lower := strings.ToLower(text)
	for _, rule := range propertyTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.propertyType
			}
		}
	}
	return types.PropertyResidentialHome
}

// extractTitle tries, in order: the cleaned page title when it reads like a
// listing headline, the first reasonably sized h1, the property-title
// selector list, the og:title meta tag, and finally the URL fallback.
func extractTitle(doc *goquery.Document, propertyURL string) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		title = titlePipeSuffixRe.ReplaceAllString(title, "")
		title = titleDashSuffixRe.ReplaceAllString(title, "")
		lower := strings.ToLower(title)
		if len(title) > 10 && (strings.Contains(lower, "for sale") || strings.Contains(lower, "for rent")) {
			return title
		}
	}

	var h1Title string
	doc.Find("h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) > 10 && len(text) < 200 {
			h1Title = text
			return false
		}
		return true
	})
	if h1Title != "" {
		return h1Title
	}

	for _, selector := range titleSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if len(text) > 5 {
			return text
		}
	}

	if ogTitle, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if trimmed := strings.TrimSpace(ogTitle); trimmed != "" {
			return trimmed
		}
	}

	return TitleFromURL(propertyURL)
}

// TitleFromURL derives a human-readable title from URL path segments,
// scanning from the last segment backwards for one that cleans up into a
// plausible name. Segments clean up by swapping separators for spaces,
// dropping digits, and title-casing words longer than two characters.
func TitleFromURL(propertyURL string) string {
	parts := strings.Split(propertyURL, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		part := parts[i]
		if len(part) <= 3 {
			continue
		}

		cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(part)
		cleaned = digitsRe.ReplaceAllString(cleaned, "")

		var words []string
		for _, word := range strings.Fields(cleaned) {
			if len(word) > 2 {
				words = append(words, capitalize(word))
			}
		}

		if title := strings.Join(words, " "); len(title) > 5 {
			return "Property at " + title
		}
	}
	return "Beautiful Property"
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

func extractLocation(doc *goquery.Document) string {
	for _, selector := range locationSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// extractPrice returns the first selector match that actually contains a
// dollar sign, so navigation labels like "Price" do not leak through.
func extractPrice(doc *goquery.Document) string {
	for _, selector := range priceSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if strings.Contains(text, "$") {
			return text
		}
	}
	return ""
}

// featurePattern pairs a regex over the lowercased page text with how the
// match is rendered as a feature tag.
type featurePattern struct {
	re     *regexp.Regexp
	render func(match []string) string
}

func countFeature(unit string) func([]string) string {
	return func(match []string) string { return match[1] + " " + unit }
}

func flagFeature(name string) func([]string) string {
	return func([]string) string { return name }
}

var featurePatterns = []featurePattern{
	{regexp.MustCompile(`(\d+)\s*bed`), countFeature("bedrooms")},
	{regexp.MustCompile(`(\d+)\s*bath`), countFeature("bathrooms")},
	{regexp.MustCompile(`(\d+[\d,]*)\s*sq\s*ft`), countFeature("sq ft")},
	{regexp.MustCompile(`(\d+)\s*car\s*garage`), countFeature("garage")},
	{regexp.MustCompile(`pool`), flagFeature("pool")},
	{regexp.MustCompile(`fireplace`), flagFeature("fireplace")},
	{regexp.MustCompile(`garden`), flagFeature("garden")},
	{regexp.MustCompile(`balcony`), flagFeature("balcony")},
}

// extractFeatures scans the lowercased page text against the fixed pattern
// sequence and returns at most five feature tags in pattern order.
func extractFeatures(fullText string) []string {
	lower := strings.ToLower(fullText)

	features := []string{}
	for _, fp := range featurePatterns {
		if match := fp.re.FindStringSubmatch(lower); match != nil {
			features = append(features, fp.render(match))
		}
		if len(features) == 5 {
			break
		}
	}
	return features
}

// extractDescription returns the first selector match longer than 50
// characters, truncated to 500 characters with an ellipsis.
func extractDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		desc := strings.TrimSpace(doc.Find(selector).First().Text())
		if len(desc) > 50 {
			if len(desc) > 500 {
				return desc[:500] + "..."
			}
			return desc
		}
	}
	return ""
}

func pageText(doc *goquery.Document) string {
	return doc.Text()
}
