package notify

import (
	"fmt"
	"strconv"
	"strings"

	"estatewatch/model"
)

// MaxMessageLength is the channel cap. Email-to-SMS gateways and SMS APIs
// commonly reject bodies past ~1600 characters.
const MaxMessageLength = 1600

const maxTitleLength = 45

// NoSalesMessage is the fixed empty-result text, distinct from any non-empty
// message so recipients can tell "nothing nearby" from a silent failure.
func NoSalesMessage(maxMiles float64) string {
	return fmt.Sprintf("No estate sales found within %s miles this week.", formatMiles(maxMiles))
}

// FormatMessage renders the sorted listings into the notification body: a
// header with the count, then one block per listing (title, distance,
// address, dates, URL). When the full list would exceed the channel cap,
// whole trailing entries are dropped and a "+N more" marker is appended;
// individual fields are never cut.
func FormatMessage(listings []model.SaleListing, reference string, maxMiles float64) string {
	if len(listings) == 0 {
		return NoSalesMessage(maxMiles)
	}

	noun := "estate sales"
	if len(listings) == 1 {
		noun = "estate sale"
	}
	header := fmt.Sprintf("%d %s within %s miles of %s", len(listings), noun, formatMiles(maxMiles), reference)

	entries := make([]string, len(listings))
	for i, listing := range listings {
		entries[i] = formatEntry(i+1, listing)
	}

	for keep := len(entries); keep >= 0; keep-- {
		parts := append([]string{header}, entries[:keep]...)
		if keep < len(entries) {
			parts = append(parts, fmt.Sprintf("+%d more", len(entries)-keep))
		}
		text := strings.Join(parts, "\n\n")
		if len(text) <= MaxMessageLength {
			return text
		}
	}
	return header
}

func formatEntry(position int, listing model.SaleListing) string {
	title := truncate(listing.Title, maxTitleLength)
	first := fmt.Sprintf("%d. %s", position, title)
	if listing.DistanceMiles != nil {
		first = fmt.Sprintf("%s [%.1f mi]", first, *listing.DistanceMiles)
	}

	lines := []string{first}
	if listing.Address != "" {
		lines = append(lines, "   "+listing.Address)
	}
	if dates := FormatDateRange(listing.Dates); dates != "" {
		lines = append(lines, "   "+dates)
	}
	lines = append(lines, "   "+listing.URL)
	return strings.Join(lines, "\n")
}

func formatMiles(maxMiles float64) string {
	return strconv.FormatFloat(maxMiles, 'f', -1, 64)
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
