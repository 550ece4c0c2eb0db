package model

type Coordinates struct {
	Lat float64
	Lng float64
}

// SaleListing is one scraped estate sale. URL is the listing's identity
// within a single run; DistanceMiles is nil until the filter computes it.
type SaleListing struct {
	Title          string
	Address        string
	URL            string
	Dates          string
	Coords         *Coordinates
	PostedDistance *float64
	DistanceMiles  *float64
}

const UntitledSale = "Untitled sale"
