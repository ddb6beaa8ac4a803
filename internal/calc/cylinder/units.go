package cylinder

import (
	"fmt"
	"strings"

	"Hydrocalc/internal/apperr"
)

type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// ParseUnitSystem accepts "metric" or "imperial" in any case. Empty text is metric.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Metric):
		return Metric, nil
	case string(Imperial):
		return Imperial, nil
	}
	return "", apperr.Invalid("cylinder.units", fmt.Sprintf("unknown unit system %q", s))
}

// Kind is the physical quantity a value measures.
type Kind string

const (
	Length   Kind = "length"
	Pressure Kind = "pressure"
	Flow     Kind = "flow"
	Area     Kind = "area"
	Force    Kind = "force"
	Volume   Kind = "volume"
	Speed    Kind = "speed"
	Time     Kind = "time"
)

var Kinds = []Kind{Length, Pressure, Flow, Area, Force, Volume, Speed, Time}

type LabelSet map[Kind]string

var labels = map[UnitSystem]LabelSet{
	Metric: {
		Length:   "mm",
		Pressure: "bar",
		Flow:     "L/min",
		Area:     "cm²",
		Force:    "kN",
		Volume:   "L",
		Speed:    "mm/s",
		Time:     "s",
	},
	Imperial: {
		Length:   "in",
		Pressure: "psi",
		Flow:     "gpm",
		Area:     "in²",
		Force:    "lbf",
		Volume:   "gal",
		Speed:    "in/s",
		Time:     "s",
	},
}

// Labels returns a copy of the label table for system. Unknown systems get metric labels.
func Labels(system UnitSystem) LabelSet {
	src, ok := labels[system]
	if !ok {
		src = labels[Metric]
	}
	out := make(LabelSet, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func Label(system UnitSystem, kind Kind) string {
	if set, ok := labels[system]; ok {
		return set[kind]
	}
	return labels[Metric][kind]
}

// Imperial factors. Input kinds are stated imperial→canonical, output kinds
// canonical→imperial, matching how each is applied in the derivation.
const (
	mmPerInch    = 25.4
	barPerPSI    = 0.0689476
	lpmPerGPM    = 3.78541
	cm2PerIn2    = 6.4516
	lbfPerKN     = 224.809
	galPerLitre  = 0.264172
	mmPerInchSec = 25.4
)

// ToCanonical converts v, expressed in system's unit for kind, to the
// canonical metric unit (mm, bar, L/min, cm², kN, L, mm/s, s).
func ToCanonical(v float64, kind Kind, system UnitSystem) float64 {
	if system != Imperial {
		return v
	}
	switch kind {
	case Length:
		return v * mmPerInch
	case Pressure:
		return v * barPerPSI
	case Flow:
		return v * lpmPerGPM
	case Area:
		return v * cm2PerIn2
	case Force:
		return v / lbfPerKN
	case Volume:
		return v / galPerLitre
	case Speed:
		return v * mmPerInchSec
	}
	return v
}

// FromCanonical is the inverse of ToCanonical.
func FromCanonical(v float64, kind Kind, system UnitSystem) float64 {
	if system != Imperial {
		return v
	}
	switch kind {
	case Length:
		return v / mmPerInch
	case Pressure:
		return v / barPerPSI
	case Flow:
		return v / lpmPerGPM
	case Area:
		return v / cm2PerIn2
	case Force:
		return v * lbfPerKN
	case Volume:
		return v * galPerLitre
	case Speed:
		return v / mmPerInchSec
	}
	return v
}
