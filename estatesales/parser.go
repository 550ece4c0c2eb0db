package estatesales

import (
	"bytes"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"estatewatch/model"
)

var distanceRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mi`)

// ParsePage extracts sale listings from one fetched page. Extraction is
// tolerant per field: a card missing its title or dates still yields a
// listing. Cards that carry neither an address, embedded coordinates nor a
// posted distance cannot be distance-filtered later and are discarded here.
func ParsePage(page *Page) []model.SaleListing {
	if page == nil || len(page.Body) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil
	}

	var listings []model.SaleListing
	doc.Find(saleCardSelector).Each(func(_ int, card *goquery.Selection) {
		listing, ok := parseCard(page.URL, card)
		if ok {
			listings = append(listings, listing)
		}
	})
	return listings
}

func parseCard(base *url.URL, card *goquery.Selection) (model.SaleListing, bool) {
	href, ok := card.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return model.SaleListing{}, false
	}

	listing := model.SaleListing{
		URL:     resolveURL(base, href),
		Title:   cleanText(card.Find(saleTitleSelector).First().Text()),
		Address: cleanText(card.Find(saleAddressSelector).First().Text()),
		Dates:   cleanText(card.Find(saleDateSelector).First().Text()),
	}
	if listing.Title == "" {
		listing.Title = model.UntitledSale
	}
	listing.Coords = parseCoords(card)
	listing.PostedDistance = parsePostedDistance(card.Find(saleDistanceSelector).First().Text())

	if listing.Address == "" && listing.Coords == nil && listing.PostedDistance == nil {
		return model.SaleListing{}, false
	}
	return listing, true
}

func parseCoords(card *goquery.Selection) *model.Coordinates {
	latText, latOK := card.Attr(latitudeAttr)
	lngText, lngOK := card.Attr(longitudeAttr)
	if !latOK || !lngOK {
		return nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngText), 64)
	if err != nil {
		return nil
	}
	return &model.Coordinates{Lat: lat, Lng: lng}
}

// parsePostedDistance reads the distance the site prints on the card itself.
// "Nearby" and "Less than a mile" count as zero.
func parsePostedDistance(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "nearby") || strings.Contains(lower, "less than") {
		zero := 0.0
		return &zero
	}
	match := distanceRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	miles, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return &miles
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\u200c", "")
	text = strings.ReplaceAll(text, "\u200b", "")
	return strings.Join(strings.Fields(text), " ")
}

// pageLinks collects the absolute URLs of further result pages advertised by
// the page's pagination block, in document order, excluding the page itself.
func pageLinks(page *Page) []string {
	if page == nil || len(page.Body) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil
	}

	self := ""
	if page.URL != nil {
		self = page.URL.String()
	}
	seen := map[string]struct{}{}
	var links []string
	doc.Find(pageLinkSelector).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		resolved := resolveURL(page.URL, strings.TrimSpace(href))
		if resolved == self {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})
	return links
}

// nextPageURL returns the rel=next link, or "" when the page is the last one.
func nextPageURL(page *Page) string {
	if page == nil || len(page.Body) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return ""
	}
	href, ok := doc.Find(nextLinkSelector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	return resolveURL(page.URL, strings.TrimSpace(href))
}
