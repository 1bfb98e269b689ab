package listing

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listingrelay/internal/types"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestClassifyPropertyType_FirstMatchWins(t *testing.T) {
	// A page with both "condo" and "luxury estate" classifies as a
	// condominium because the condo rule is checked first.
	got := ClassifyPropertyType("Stunning condo in a luxury estate community")
	assert.Equal(t, types.PropertyCondominium, got)
}

func TestClassifyPropertyType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.PropertyType
	}{
		{"townhome keyword", "Charming townhome near downtown", types.PropertyTownhouse},
		{"apartment abbreviation", "Spacious apt with city views", types.PropertyApartment},
		{"commercial warehouse", "Large warehouse space available", types.PropertyCommercial},
		{"luxury villa", "Mediterranean villa with ocean views", types.PropertyLuxuryHome},
		{"case insensitive", "LUXURY MANSION FOR SALE", types.PropertyLuxuryHome},
		{"no keyword", "Cozy three bedroom home", types.PropertyResidentialHome},
		{"empty text", "", types.PropertyResidentialHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPropertyType(tt.text))
		})
	}
}

func TestExtractTitle_PageTitleWithSiteSuffix(t *testing.T) {
	doc := docFromHTML(t, `<html><head><title>123 Oak Ave For Sale | Realty Co</title></head><body></body></html>`)
	assert.Equal(t, "123 Oak Ave For Sale", extractTitle(doc, "https://x.com/p"))
}

func TestExtractTitle_PageTitleWithoutSaleKeywordSkipped(t *testing.T) {
	doc := docFromHTML(t, `<html><head><title>Realty Co Homepage Welcome</title></head>` +
		`<body><h1>456 Maple Street Listing</h1></body></html>`)
	assert.Equal(t, "456 Maple Street Listing", extractTitle(doc, "https://x.com/p"))
}

func TestExtractTitle_H1LengthBounds(t *testing.T) {
	long := strings.Repeat("x", 250)
	doc := docFromHTML(t, `<html><body><h1>Too short</h1><h1>`+long+`</h1>`+
		`<h1>789 Cedar Lane Residence</h1></body></html>`)
	assert.Equal(t, "789 Cedar Lane Residence", extractTitle(doc, "https://x.com/p"))
}

func TestExtractTitle_SelectorFallback(t *testing.T) {
	doc := docFromHTML(t, `<html><body><div class="listing-title">12 Elm Court</div></body></html>`)
	assert.Equal(t, "12 Elm Court", extractTitle(doc, "https://x.com/p"))
}

func TestExtractTitle_OGMetaFallback(t *testing.T) {
	doc := docFromHTML(t, `<html><head><meta property="og:title" content="Sunny Bungalow"></head><body></body></html>`)
	assert.Equal(t, "Sunny Bungalow", extractTitle(doc, "https://x.com/p"))
}

func TestExtractTitle_URLFallback(t *testing.T) {
	doc := docFromHTML(t, `<html><body></body></html>`)
	assert.Equal(t, "Property at Beautiful Family Home", extractTitle(doc, "https://x.com/listings/beautiful-family-home-42"))
}

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"hyphenated slug", "https://x.com/listings/beautiful-family-home-42", "Property at Beautiful Family Home"},
		{"underscored slug", "https://x.com/lovely_corner_house", "Property at Lovely Corner House"},
		{"numeric-only segments", "/12345/67890", "Beautiful Property"},
		{"short segments only", "/a/b", "Beautiful Property"},
		{"skips trailing id segment", "https://x.com/charming-cottage-retreat/98765", "Property at Charming Cottage Retreat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromURL(tt.url))
		})
	}
}

func TestExtractPrice_RequiresDollarSign(t *testing.T) {
	doc := docFromHTML(t, `<html><body><div class="price">Contact agent</div>`+
		`<div class="listing-price">$549,000</div></body></html>`)
	assert.Equal(t, "$549,000", extractPrice(doc))
}

func TestExtractPrice_NoMatch(t *testing.T) {
	doc := docFromHTML(t, `<html><body><div class="price">Call for details</div></body></html>`)
	assert.Equal(t, "", extractPrice(doc))
}

func TestExtractLocation(t *testing.T) {
	doc := docFromHTML(t, `<html><body><span data-testid="address">12 Elm Court, Springfield</span></body></html>`)
	assert.Equal(t, "12 Elm Court, Springfield", extractLocation(doc))
}

func TestExtractFeatures_OrderAndCap(t *testing.T) {
	text := "4 bed 3 bath home, 2,500 sq ft, 2 car garage, pool, fireplace, garden, balcony"

	features := extractFeatures(text)
	assert.Equal(t, []string{
		"4 bedrooms",
		"3 bathrooms",
		"2,500 sq ft",
		"2 garage",
		"pool",
	}, features)
}

func TestExtractFeatures_FlagsOnly(t *testing.T) {
	features := extractFeatures("Enjoy the garden and balcony")
	assert.Equal(t, []string{"garden", "balcony"}, features)
}

func TestExtractFeatures_Empty(t *testing.T) {
	assert.Empty(t, extractFeatures("A lovely home"))
}

func TestExtractDescription_Truncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	doc := docFromHTML(t, `<html><body><div class="property-description">`+long+`</div></body></html>`)

	desc := extractDescription(doc)
	assert.Len(t, desc, 503)
	assert.True(t, strings.HasSuffix(desc, "..."))
}

func TestExtractDescription_TooShortSkipped(t *testing.T) {
	doc := docFromHTML(t, `<html><body><div class="description">Nice place</div></body></html>`)
	assert.Equal(t, "", extractDescription(doc))
}
