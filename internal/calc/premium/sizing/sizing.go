package sizing

import (
	"fmt"
	"math"

	"Hydrocalc/internal/apperr"
	"Hydrocalc/internal/calc/cylinder"
)

// StandardBoresMM is the ISO 3320 bore series.
var StandardBoresMM = []float64{
	8, 10, 12, 16, 20, 25, 32, 40, 50, 63, 80, 100, 125, 140,
	160, 180, 200, 220, 250, 280, 320, 360, 400, 450, 500,
}

const defaultRodRatio = 0.5

// Input values are in the units of UnitSystem.
type Input struct {
	UnitSystem  string  `json:"unit_system"`
	TargetForce float64 `json:"target_force"`
	Pressure    float64 `json:"pressure"`
	Efficiency  float64 `json:"efficiency"`
	RodRatio    float64 `json:"rod_ratio"`
	Stroke      float64 `json:"stroke"`
	Flow        float64 `json:"flow"`
}

type Result struct {
	UnitSystem   cylinder.UnitSystem `json:"unit_system"`
	RequiredBore cylinder.Quantity   `json:"required_bore"`
	Bore         cylinder.Quantity   `json:"bore"`
	Rod          cylinder.Quantity   `json:"rod"`
	Derived      cylinder.Result     `json:"derived"`
	Notes        string              `json:"notes"`
}

// Bore picks the smallest standard bore whose extend force reaches the target.
func Bore(in Input) (Result, error) {
	system, err := cylinder.ParseUnitSystem(in.UnitSystem)
	if err != nil {
		return Result{}, err
	}
	if in.TargetForce <= 0 || in.Pressure <= 0 || in.Efficiency <= 0 {
		return Result{}, apperr.Invalid("sizing.bore", "target force, pressure and efficiency must be positive")
	}
	if in.RodRatio <= 0 {
		in.RodRatio = defaultRodRatio
	}
	if in.RodRatio >= 1 {
		return Result{}, apperr.Invalid("sizing.bore", "rod ratio must be below 1")
	}

	forceKN := cylinder.ToCanonical(in.TargetForce, cylinder.Force, system)
	pressureBar := cylinder.ToCanonical(in.Pressure, cylinder.Pressure, system)

	// F = p * A / 100 * eff  =>  A(cm²) = 100 F / (p eff)
	areaCM2 := 100 * forceKN / (pressureBar * in.Efficiency)
	requiredMM := 2 * math.Sqrt(areaCM2*100/math.Pi)

	for _, boreMM := range StandardBoresMM {
		if boreMM < requiredMM {
			continue
		}
		inputs := cylinder.ConvertInputs(cylinder.Inputs{
			Bore:       boreMM,
			Rod:        boreMM * in.RodRatio,
			Stroke:     cylinder.ToCanonical(in.Stroke, cylinder.Length, system),
			Pressure:   pressureBar,
			Flow:       cylinder.ToCanonical(in.Flow, cylinder.Flow, system),
			Efficiency: in.Efficiency,
		}, cylinder.Metric, system)
		length := func(mm float64) cylinder.Quantity {
			return cylinder.Quantity{
				Value: cylinder.FromCanonical(mm, cylinder.Length, system),
				Unit:  cylinder.Label(system, cylinder.Length),
			}
		}
		return Result{
			UnitSystem:   system,
			RequiredBore: length(requiredMM),
			Bore:         length(boreMM),
			Rod:          length(boreMM * in.RodRatio),
			Derived:      cylinder.Derive(inputs, system),
			Notes:        "Smallest ISO 3320 bore meeting the extend force.",
		}, nil
	}
	return Result{}, apperr.Invalid("sizing.bore",
		fmt.Sprintf("target force needs a bore above %.0f mm", StandardBoresMM[len(StandardBoresMM)-1]))
}
