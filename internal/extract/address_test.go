package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentAddress_CityStateZip(t *testing.T) {
	got := SegmentAddress([3]string{"123 Main St ", "", "Springfield, CA 90210"})

	assert.Equal(t, "123 Main St", got.Street)
	assert.Equal(t, "Springfield", got.City)
	assert.Equal(t, "California", got.State)
	assert.Equal(t, "90210", got.Zip)
}

func TestSegmentAddress_TwoStreetLines(t *testing.T) {
	got := SegmentAddress([3]string{"1200 Commerce Way ", "Suite 4 ", "Denver, CO 80014 "})

	assert.Equal(t, "1200 Commerce Way Suite 4", got.Street)
	assert.Equal(t, "Denver", got.City)
	assert.Equal(t, "Colorado", got.State)
	assert.Equal(t, "80014", got.Zip)
}

func TestSegmentAddress_StreetPunctuationStripped(t *testing.T) {
	got := SegmentAddress([3]string{"123 Main St., Apt. 5/", "", "Springfield, CA 90210"})

	assert.Equal(t, "123 Main St Apt 5", got.Street)
}

func TestSegmentAddress_PatternMissing(t *testing.T) {
	// Address present but no state/zip pattern: those fields go empty,
	// not "Unknown".
	got := SegmentAddress([3]string{"500 Oak Ave", "", "Somewhere"})

	assert.Equal(t, "500 Oak Ave", got.Street)
	assert.Equal(t, "Somewhere", got.City)
	assert.Empty(t, got.State)
	assert.Empty(t, got.Zip)
}

func TestSegmentAddress_UnknownStateCode(t *testing.T) {
	got := SegmentAddress([3]string{"500 Oak Ave", "", "Somewhere, ZZ 12345"})

	assert.Equal(t, "Somewhere", got.City)
	assert.Empty(t, got.State)
	assert.Equal(t, "12345", got.Zip)
}

func TestSegmentAddress_LongCombinedThirdLine(t *testing.T) {
	third := "Building C Research Park Drive Huntsville, AL 35805"
	if len(third) <= combinedLineThreshold {
		t.Fatalf("test line must exceed %d chars", combinedLineThreshold)
	}

	got := SegmentAddress([3]string{"100 Rocket Rd", "", third})

	// The street overflow before the comma is knowingly kept with the city.
	assert.Equal(t, "100 Rocket Rd", got.Street)
	assert.Equal(t, "Building C Research Park Drive Huntsville", got.City)
	assert.Equal(t, "Alabama", got.State)
	assert.Equal(t, "35805", got.Zip)
}

func TestSegmentAddress_LongThirdLineWithoutComma(t *testing.T) {
	third := strings.Repeat("x", 30) + " Huntsville AL 35805"

	got := SegmentAddress([3]string{"100 Rocket Rd", "", third})

	assert.Equal(t, "Alabama", got.State)
	assert.Equal(t, "35805", got.Zip)
}

func TestSegmentAddress_Pathological(t *testing.T) {
	got := SegmentAddress([3]string{"", " ", ""})

	assert.Equal(t, UnknownComponent, got.Street)
	assert.Equal(t, UnknownComponent, got.City)
	assert.Equal(t, UnknownComponent, got.State)
	assert.Equal(t, UnknownComponent, got.Zip)
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "California", StateName("CA"))
	assert.Equal(t, "California", StateName("ca"))
	assert.Empty(t, StateName("XX"))
}
