package extract

import (
	"regexp"

	"github.com/sukibk/textractor/internal/waiver"
)

// Regulation citation matching. Each code matches case-insensitively anywhere
// in the text, tolerates a leading-digit OCR drop ("07." for "107."), and is
// digit-boundary aware so that 107.29 never fires inside 107.293.
//
// The 107.51 family needs its own scanner: "107.51(a)" sets only the (a)
// flag, an explicit "(b)", "(c)" or "(d)" sets the (b, c, d) flag, and a bare
// "107.51" with no parenthetical also sets the (b, c, d) flag.

var simpleCodes = []struct {
	flag waiver.RegulationFlag
	re   *regexp.Regexp
}{
	{waiver.DaylightOperations, regexp.MustCompile(`(?i)(?:107|07)\.29`)},
	{waiver.VLOSOperations, regexp.MustCompile(`(?i)(?:107|07)\.31`)},
	{waiver.VisualObserver, regexp.MustCompile(`(?i)(?:107|07)\.33`)},
	{waiver.MultipleUAS, regexp.MustCompile(`(?i)(?:107|07)\.35`)},
	{waiver.OverPeople, regexp.MustCompile(`(?i)(?:107|07)\.39`)},
	{waiver.CertainAirspace, regexp.MustCompile(`(?i)(?:107|07)\.41`)},
	{waiver.MovingVehicleOrAircraft, regexp.MustCompile(`(?i)(?:107|07)\.25\(b\)`)},
	{waiver.OverMovingVehicles, regexp.MustCompile(`(?i)(?:107|07)\.145`)},
}

var limitations51Re = regexp.MustCompile(`(?i)(?:107|07)\.51(?:\(([a-dA-D])\))?`)

// MatchRegulationCodes reports which regulation flags the text activates.
func MatchRegulationCodes(text string) waiver.FlagSet {
	var set waiver.FlagSet

	for _, c := range simpleCodes {
		for _, loc := range c.re.FindAllStringIndex(text, -1) {
			if digitBounded(text, loc[0], loc[1]) {
				set.Add(c.flag)
				break
			}
		}
	}

	for _, m := range limitations51Re.FindAllStringSubmatchIndex(text, -1) {
		if !digitBounded(text, m[0], m[1]) {
			continue
		}
		if m[2] >= 0 {
			switch text[m[2]] {
			case 'a', 'A':
				set.Add(waiver.OperatingLimitationsA)
			default:
				set.Add(waiver.OperatingLimitationsBCD)
			}
			continue
		}
		// Bare 107.51: only counts when no parenthetical follows at all, so
		// an unrecognized sub-letter like (e) activates nothing.
		if m[1] < len(text) && text[m[1]] == '(' {
			continue
		}
		set.Add(waiver.OperatingLimitationsBCD)
	}

	return set
}

// digitBounded reports whether the match at [start, end) is not embedded in a
// longer digit run.
func digitBounded(s string, start, end int) bool {
	if start > 0 && isDigit(s[start-1]) {
		return false
	}
	if end < len(s) && isDigit(s[end]) {
		return false
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
