package estatesales

// Every assumption about the shape of estatesales.net markup lives in this
// file and parser.go. When the site changes its layout, this is the only
// place that needs updating.
const (
	saleCardSelector     = "a.sale-row"
	saleTitleSelector    = "h3"
	saleAddressSelector  = `[class*="sale-row__address"]`
	saleDateSelector     = `[class*="sale-row__date"]`
	saleDistanceSelector = `[class*="sale-row__distance"]`

	latitudeAttr  = "data-latitude"
	longitudeAttr = "data-longitude"

	nextLinkSelector = `a[rel="next"]`
	pageLinkSelector = `ul.pagination a[href]`
)
