package waiver

// RegulationFlag identifies one waivable Part 107 regulation.
type RegulationFlag int

const (
	DaylightOperations RegulationFlag = iota
	VLOSOperations
	VisualObserver
	MultipleUAS
	OverPeople
	CertainAirspace
	OperatingLimitationsA
	OperatingLimitationsBCD
	MovingVehicleOrAircraft
	OverMovingVehicles

	numRegulationFlags
)

// AllRegulationFlags lists every flag in stable column order.
var AllRegulationFlags = []RegulationFlag{
	DaylightOperations,
	VLOSOperations,
	VisualObserver,
	MultipleUAS,
	OverPeople,
	CertainAirspace,
	OperatingLimitationsA,
	OperatingLimitationsBCD,
	MovingVehicleOrAircraft,
	OverMovingVehicles,
}

var flagTitles = map[RegulationFlag]string{
	DaylightOperations:      "Daylight Operations",
	VLOSOperations:          "VLOS Operations",
	VisualObserver:          "Visual Observer",
	MultipleUAS:             "Multiple UAS",
	OverPeople:              "Over People",
	CertainAirspace:         "Operation in Certain Airspace",
	OperatingLimitationsA:   "Operating Limitations (a)",
	OperatingLimitationsBCD: "Operating Limitations (b, c, d)",
	MovingVehicleOrAircraft: "Moving Vehicle or Aircraft",
	OverMovingVehicles:      "Over Moving Vehicles",
}

// Title returns the human-readable column title for the flag.
func (f RegulationFlag) Title() string {
	return flagTitles[f]
}

// FlagSet is a set of regulation flags, one bit per flag.
type FlagSet uint16

func (s FlagSet) Has(f RegulationFlag) bool {
	return s&(1<<uint(f)) != 0
}

func (s *FlagSet) Add(f RegulationFlag) {
	*s |= 1 << uint(f)
}

// Flags returns the set members in stable column order.
func (s FlagSet) Flags() []RegulationFlag {
	var out []RegulationFlag
	for _, f := range AllRegulationFlags {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FlagSet) Len() int {
	n := 0
	for _, f := range AllRegulationFlags {
		if s.Has(f) {
			n++
		}
	}
	return n
}
