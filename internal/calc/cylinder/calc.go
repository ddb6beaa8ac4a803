package cylinder

import (
	"encoding/json"
	"math"
)

// Inputs are the six cylinder parameters in the units of the selected system.
// Efficiency is a plain multiplier (0.9, not 90).
type Inputs struct {
	Bore       float64 `json:"bore"`
	Rod        float64 `json:"rod"`
	Stroke     float64 `json:"stroke"`
	Pressure   float64 `json:"pressure"`
	Flow       float64 `json:"flow"`
	Efficiency float64 `json:"efficiency"`
}

type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// MarshalJSON writes a non-finite value as null.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value *float64 `json:"value"`
		Unit  string   `json:"unit"`
	}{finite(q.Value), q.Unit})
}

func (in Inputs) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bore       *float64 `json:"bore"`
		Rod        *float64 `json:"rod"`
		Stroke     *float64 `json:"stroke"`
		Pressure   *float64 `json:"pressure"`
		Flow       *float64 `json:"flow"`
		Efficiency *float64 `json:"efficiency"`
	}{finite(in.Bore), finite(in.Rod), finite(in.Stroke), finite(in.Pressure), finite(in.Flow), finite(in.Efficiency)})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type Result struct {
	PistonArea    Quantity `json:"piston_area"`
	AnnulusArea   Quantity `json:"annulus_area"`
	ExtendForce   Quantity `json:"extend_force"`
	RetractForce  Quantity `json:"retract_force"`
	ExtendVolume  Quantity `json:"extend_volume"`
	RetractVolume Quantity `json:"retract_volume"`
	ExtendSpeed   Quantity `json:"extend_speed"`
	RetractSpeed  Quantity `json:"retract_speed"`
	ExtendTime    Quantity `json:"extend_time"`
	RetractTime   Quantity `json:"retract_time"`
	CycleTime     Quantity `json:"cycle_time"`
}

// canonical holds one derivation in mm, bar, L/min, cm², kN, L, mm/s and s.
type canonical struct {
	pistonArea, annulusArea     float64
	extendForce, retractForce   float64
	extendVolume, retractVolume float64
	extendSpeed, retractSpeed   float64
	extendTime, retractTime     float64
}

// Derive computes the cylinder's performance. Inputs are read in system's
// units and results are returned in system's units with their labels.
func Derive(in Inputs, system UnitSystem) Result {
	c := derive(Normalize(in, system))
	return c.display(system)
}

// Normalize re-expresses in, given in system's units, in canonical units.
func Normalize(in Inputs, system UnitSystem) Inputs {
	return Inputs{
		Bore:       ToCanonical(in.Bore, Length, system),
		Rod:        ToCanonical(in.Rod, Length, system),
		Stroke:     ToCanonical(in.Stroke, Length, system),
		Pressure:   ToCanonical(in.Pressure, Pressure, system),
		Flow:       ToCanonical(in.Flow, Flow, system),
		Efficiency: in.Efficiency,
	}
}

// ConvertInputs re-expresses field values entered in from as values in to.
func ConvertInputs(in Inputs, from, to UnitSystem) Inputs {
	c := Normalize(in, from)
	return Inputs{
		Bore:       FromCanonical(c.Bore, Length, to),
		Rod:        FromCanonical(c.Rod, Length, to),
		Stroke:     FromCanonical(c.Stroke, Length, to),
		Pressure:   FromCanonical(c.Pressure, Pressure, to),
		Flow:       FromCanonical(c.Flow, Flow, to),
		Efficiency: c.Efficiency,
	}
}

func derive(in Inputs) canonical {
	boreAreaMM := math.Pi * math.Pow(in.Bore/2, 2)
	rodAreaMM := math.Pi * math.Pow(in.Rod/2, 2)
	annulusAreaMM := math.Max(boreAreaMM-rodAreaMM, 0)

	var c canonical
	c.pistonArea = boreAreaMM / 100
	c.annulusArea = annulusAreaMM / 100

	// bar·cm²/100 is kN
	c.extendForce = in.Pressure * c.pistonArea / 100 * in.Efficiency
	c.retractForce = in.Pressure * c.annulusArea / 100 * in.Efficiency

	c.extendVolume = c.pistonArea * in.Stroke / 10000
	c.retractVolume = c.annulusArea * in.Stroke / 10000

	if in.Flow > 0 {
		c.extendSpeed = in.Flow * 1000 / (c.pistonArea * 100)
		c.retractSpeed = in.Flow * 1000 / (c.annulusArea * 100)
	}
	if c.extendSpeed > 0 {
		c.extendTime = in.Stroke / c.extendSpeed
	}
	if c.retractSpeed > 0 {
		c.retractTime = in.Stroke / c.retractSpeed
	}
	return c
}

func (c canonical) display(system UnitSystem) Result {
	q := func(v float64, kind Kind) Quantity {
		return Quantity{Value: FromCanonical(v, kind, system), Unit: Label(system, kind)}
	}
	return Result{
		PistonArea:    q(c.pistonArea, Area),
		AnnulusArea:   q(c.annulusArea, Area),
		ExtendForce:   q(c.extendForce, Force),
		RetractForce:  q(c.retractForce, Force),
		ExtendVolume:  q(c.extendVolume, Volume),
		RetractVolume: q(c.retractVolume, Volume),
		ExtendSpeed:   q(c.extendSpeed, Speed),
		RetractSpeed:  q(c.retractSpeed, Speed),
		ExtendTime:    q(c.extendTime, Time),
		RetractTime:   q(c.retractTime, Time),
		CycleTime:     q(c.extendTime+c.retractTime, Time),
	}
}
