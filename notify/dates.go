package notify

import (
	"regexp"
	"strconv"
	"strings"
)

// The source site publishes date ranges with status noise appended ("Going on
// now", "Nearby") and sometimes glues day numbers onto the opening hour
// ("Nov 119am" for "Nov 11, 9am"). These rules recover a readable
// "Mon D-D, Ham-Hpm" form where possible and fall back to nothing otherwise.
var (
	statusWordRe = regexp.MustCompile(`(?i)going|starts|started|ongoing|ended|nearby|miles|away`)
	gluedTimeRe  = regexp.MustCompile(`(?i)(\d{2,})(am|pm)`)
	timeRangeRe  = regexp.MustCompile(`(?i)(1[0-2]|[1-9])\s*(am|pm)\s*to\s*(1[0-2]|[1-9])\s*(am|pm)`)
	monthRe      = regexp.MustCompile(`Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`)
	numberRe     = regexp.MustCompile(`\d+`)
)

func FormatDateRange(text string) string {
	text = strings.ReplaceAll(text, "\u200c", "")
	text = strings.ReplaceAll(text, "\u200b", "")
	if loc := statusWordRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	if strings.TrimSpace(text) == "" {
		return ""
	}
	clean := gluedTimeRe.ReplaceAllStringFunc(text, splitGluedTime)

	timeStr := ""
	timePos := len(clean)
	if loc := timeRangeRe.FindStringSubmatchIndex(clean); loc != nil {
		sub := timeRangeRe.FindStringSubmatch(clean)
		timeStr = strings.ToLower(sub[1]+sub[2]) + "-" + strings.ToLower(sub[3]+sub[4])
		timePos = loc[0]
	}

	dateStr := parseDaySpan(clean[:timePos])

	switch {
	case dateStr != "" && timeStr != "":
		return dateStr + ", " + timeStr
	case dateStr != "":
		return dateStr
	default:
		return timeStr
	}
}

func parseDaySpan(section string) string {
	loc := monthRe.FindStringIndex(section)
	if loc == nil {
		return ""
	}
	month := section[loc[0]:loc[1]]

	var days []string
	for _, num := range numberRe.FindAllString(section[loc[1]:], -1) {
		value, err := strconv.Atoi(num)
		if err != nil || value < 1 || value > 31 {
			continue
		}
		days = append(days, num)
	}
	switch {
	case len(days) == 1:
		return month + " " + days[0]
	case len(days) >= 2:
		return month + " " + days[0] + "-" + days[len(days)-1]
	default:
		return ""
	}
}

// splitGluedTime turns "119am" into "11 9am" and "1110am" into "11 10am",
// preferring a valid 10-12 hour when the trailing digits allow it.
func splitGluedTime(match string) string {
	sub := gluedTimeRe.FindStringSubmatch(match)
	digits, ampm := sub[1], sub[2]

	hour := digits[len(digits)-1:]
	prefix := digits[:len(digits)-1]
	if last2 := digits[len(digits)-2:]; last2 == "10" || last2 == "11" || last2 == "12" {
		hour = last2
		prefix = digits[:len(digits)-2]
	}
	if prefix == "" {
		return hour + ampm
	}
	return prefix + " " + hour + ampm
}
