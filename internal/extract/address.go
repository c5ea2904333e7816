package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// AddressComponents is the segmented form of a raw 3-line postal address.
// All four fields are UnknownComponent when segmentation cannot start at all;
// state and zip degrade to empty when the address is present but the
// state/zip pattern is not found.
type AddressComponents struct {
	Street string
	City   string
	State  string
	Zip    string
}

// UnknownComponent distinguishes "not parseable" from "legitimately blank".
const UnknownComponent = "Unknown"

// Third address lines longer than this are treated as a street overflow line
// that ran into the city/state/zip text.
const combinedLineThreshold = 40

var stateZipRe = regexp.MustCompile(`\b([A-Za-z]{2})\s+(\d{5})\b`)

// SegmentAddress applies the segmentation heuristic to the three captured
// address lines.
func SegmentAddress(lines [3]string) AddressComponents {
	first := strings.TrimSpace(lines[0])
	second := strings.TrimSpace(lines[1])
	third := strings.TrimSpace(lines[2])

	if first == "" && second == "" && third == "" {
		return AddressComponents{
			Street: UnknownComponent,
			City:   UnknownComponent,
			State:  UnknownComponent,
			Zip:    UnknownComponent,
		}
	}

	street := cleanStreet(first + " " + second)

	var city, state, zip string
	if utf8.RuneCountInString(third) > combinedLineThreshold {
		// Overflow street text before the first comma is knowingly misfiled
		// into the city; the geocoder collaborator would do better here.
		head, tail, found := strings.Cut(third, ",")
		if found {
			city = strings.TrimSpace(head)
			state, zip = stateAndZip(tail)
		} else {
			city, state, zip = splitCityStateZip(third)
		}
	} else {
		city, state, zip = splitCityStateZip(third)
	}

	return AddressComponents{Street: street, City: city, State: state, Zip: zip}
}

// splitCityStateZip locates the two-letter-state + 5-digit-zip pattern and
// takes everything before it as the city.
func splitCityStateZip(s string) (city, state, zip string) {
	m := stateZipRe.FindStringSubmatchIndex(s)
	if m == nil {
		city, _, _ = strings.Cut(s, ",")
		return strings.TrimSpace(city), "", ""
	}
	city = strings.TrimRight(strings.TrimSpace(s[:m[0]]), " ,.")
	state = StateName(s[m[2]:m[3]])
	zip = s[m[4]:m[5]]
	return city, state, zip
}

func stateAndZip(s string) (state, zip string) {
	m := stateZipRe.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	return StateName(m[1]), m[2]
}

// cleanStreet strips address punctuation and collapses internal whitespace.
func cleanStreet(s string) string {
	s = strings.NewReplacer(".", "", ",", "", "/", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri",
	"MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont",
	"VA": "Virginia", "WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

// StateName maps a two-letter state code to its full name, or "" when the
// code is not in the table.
func StateName(code string) string {
	return stateNames[strings.ToUpper(code)]
}
