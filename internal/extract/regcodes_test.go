package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sukibk/textractor/internal/waiver"
)

func TestMatchRegulationCodes_Limitations51Family(t *testing.T) {
	set := MatchRegulationCodes("waiver of 107.51(a) granted")
	assert.True(t, set.Has(waiver.OperatingLimitationsA))
	assert.False(t, set.Has(waiver.OperatingLimitationsBCD))

	set = MatchRegulationCodes("waiver of 107.51(b) granted")
	assert.False(t, set.Has(waiver.OperatingLimitationsA))
	assert.True(t, set.Has(waiver.OperatingLimitationsBCD))

	// A bare citation with no parenthetical counts as the (b, c, d) flag.
	set = MatchRegulationCodes("waiver of 107.51 granted")
	assert.False(t, set.Has(waiver.OperatingLimitationsA))
	assert.True(t, set.Has(waiver.OperatingLimitationsBCD))

	// An unrecognized sub-letter activates nothing.
	set = MatchRegulationCodes("waiver of 107.51(e) granted")
	assert.Zero(t, set)
}

func TestMatchRegulationCodes_SimpleCodes(t *testing.T) {
	cases := []struct {
		text string
		flag waiver.RegulationFlag
	}{
		{"107.29 Daylight operation", waiver.DaylightOperations},
		{"107.31 Visual line of sight", waiver.VLOSOperations},
		{"107.33 Visual observer", waiver.VisualObserver},
		{"107.35 Operation of multiple small UAS", waiver.MultipleUAS},
		{"107.39 Operation over human beings", waiver.OverPeople},
		{"107.41 Operation in certain airspace", waiver.CertainAirspace},
		{"107.25(b) Operation from a moving vehicle", waiver.MovingVehicleOrAircraft},
		{"107.145 Operations over moving vehicles", waiver.OverMovingVehicles},
	}
	for _, tc := range cases {
		set := MatchRegulationCodes(tc.text)
		assert.True(t, set.Has(tc.flag), "text %q should set %s", tc.text, tc.flag.Title())
		assert.Equal(t, 1, set.Len(), "text %q should set exactly one flag", tc.text)
	}
}

func TestMatchRegulationCodes_LeadingDigitDrop(t *testing.T) {
	// OCR sometimes loses the leading "1".
	set := MatchRegulationCodes("waiver of 07.29 granted")
	assert.True(t, set.Has(waiver.DaylightOperations))
}

func TestMatchRegulationCodes_DigitBoundaries(t *testing.T) {
	assert.Zero(t, MatchRegulationCodes("section 107.293 does not exist"))
	assert.Zero(t, MatchRegulationCodes("2107.33 is not a citation"))
	assert.Zero(t, MatchRegulationCodes("107.25 without the sub-letter"))
}

func TestMatchRegulationCodes_CaseInsensitive(t *testing.T) {
	set := MatchRegulationCodes("WAIVER OF 107.51(A) GRANTED")
	assert.True(t, set.Has(waiver.OperatingLimitationsA))
}

func TestMatchRegulationCodes_MultipleCodes(t *testing.T) {
	set := MatchRegulationCodes("107.29 Daylight operation; 107.31 VLOS; 107.51(c) limits")
	assert.True(t, set.Has(waiver.DaylightOperations))
	assert.True(t, set.Has(waiver.VLOSOperations))
	assert.True(t, set.Has(waiver.OperatingLimitationsBCD))
	assert.Equal(t, 3, set.Len())
}

func TestMatchRegulationCodes_Empty(t *testing.T) {
	assert.Zero(t, MatchRegulationCodes(""))
	assert.Zero(t, MatchRegulationCodes("no citations here"))
}
