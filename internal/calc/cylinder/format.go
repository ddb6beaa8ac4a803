package cylinder

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders numbers with fixed decimals and the locale's separators.
type Formatter struct {
	p *message.Printer
}

func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

// NewFormatterFor parses a BCP 47 locale; unparsable locales fall back to English.
func NewFormatterFor(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return NewFormatter(tag)
}

// Number renders v with two decimals. Non-finite values render as "0".
func (f *Formatter) Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return f.p.Sprintf("%.2f", v)
}

func (f *Formatter) Quantity(q Quantity) string {
	return f.Number(q.Value) + " " + q.Unit
}

// Display is the nine strings a UI shows for one derivation.
type Display struct {
	PistonArea    string `json:"piston_area"`
	AnnulusArea   string `json:"annulus_area"`
	ExtendForce   string `json:"extend_force"`
	RetractForce  string `json:"retract_force"`
	ExtendVolume  string `json:"extend_volume"`
	RetractVolume string `json:"retract_volume"`
	ExtendSpeed   string `json:"extend_speed"`
	RetractSpeed  string `json:"retract_speed"`
	CycleTime     string `json:"cycle_time"`
}

func Render(r Result, f *Formatter) Display {
	return Display{
		PistonArea:    f.Quantity(r.PistonArea),
		AnnulusArea:   f.Quantity(r.AnnulusArea),
		ExtendForce:   f.Quantity(r.ExtendForce),
		RetractForce:  f.Quantity(r.RetractForce),
		ExtendVolume:  f.Quantity(r.ExtendVolume),
		RetractVolume: f.Quantity(r.RetractVolume),
		ExtendSpeed:   f.Quantity(r.ExtendSpeed),
		RetractSpeed:  f.Quantity(r.RetractSpeed),
		CycleTime:     f.Quantity(r.CycleTime),
	}
}

// Rows lists the display strings with their captions, in page order.
func (d Display) Rows() [][2]string {
	return [][2]string{
		{"Piston area", d.PistonArea},
		{"Annulus area", d.AnnulusArea},
		{"Extend force", d.ExtendForce},
		{"Retract force", d.RetractForce},
		{"Extend volume", d.ExtendVolume},
		{"Retract volume", d.RetractVolume},
		{"Extend speed", d.ExtendSpeed},
		{"Retract speed", d.RetractSpeed},
		{"Cycle time", d.CycleTime},
	}
}
