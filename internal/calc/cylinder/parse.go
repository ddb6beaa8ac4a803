package cylinder

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseField reads the leading decimal number of a form field the way a
// browser's parseFloat does. Text without a leading number, NaN and zero all
// yield 0. Trailing characters are ignored.
func ParseField(raw string) float64 {
	s := strings.TrimLeftFunc(raw, leadingSpace)
	if v, ok := parseInfinity(s); ok {
		return v
	}
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	if math.IsNaN(v) || v == 0 {
		return 0
	}
	return v
}

// leadingSpace also skips the byte order mark, which browsers treat as
// whitespace.
func leadingSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func parseInfinity(s string) (float64, bool) {
	sign := 1.0
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if strings.HasPrefix(s, "Infinity") {
		return math.Inf(int(sign)), true
	}
	return 0, false
}

// numericPrefix returns the length of the longest [+-]d*[.d*][e[+-]d+] prefix
// holding at least one mantissa digit, or 0.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Field is one raw form value. It decodes from a JSON string, number or null.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	*f = Field(b)
	return nil
}

func (f Field) Float() float64 { return ParseField(string(f)) }

// RawInputs holds the six fields as the UI delivers them.
type RawInputs struct {
	Bore       Field `json:"bore"`
	Rod        Field `json:"rod"`
	Stroke     Field `json:"stroke"`
	Pressure   Field `json:"pressure"`
	Flow       Field `json:"flow"`
	Efficiency Field `json:"efficiency"`
}

func (r RawInputs) Parse() Inputs {
	return Inputs{
		Bore:       r.Bore.Float(),
		Rod:        r.Rod.Float(),
		Stroke:     r.Stroke.Float(),
		Pressure:   r.Pressure.Float(),
		Flow:       r.Flow.Float(),
		Efficiency: r.Efficiency.Float(),
	}
}
