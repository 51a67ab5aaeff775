package solver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var powerFormRe = regexp.MustCompile(`x(?:\^|\*\*)(\d+)`)

// derivativeTable maps normalized function forms to their derivatives.
var derivativeTable = []struct {
	forms  []string
	answer string
}{
	{[]string{"x^2", "x**2"}, "Derivative of x^2 is 2x"},
	{[]string{"x^3", "x**3"}, "Derivative of x^3 is 3x^2"},
	{[]string{"sin(x)", "sinx"}, "Derivative of sin(x) is cos(x)"},
	{[]string{"cos(x)", "cosx"}, "Derivative of cos(x) is -sin(x)"},
	{[]string{"e^x", "exp(x)"}, "Derivative of e^x is e^x"},
	{[]string{"ln(x)", "log(x)"}, "Derivative of ln(x) is 1/x"},
}

// TryDerivative answers differentiation requests against a table of known
// forms ("d/dx x^2", "derivative of sin(x)") and falls back to the power
// rule for x^n. Returns ("", false) when the question is not a
// differentiation request or the form is unknown.
func TryDerivative(text string) (string, bool) {
	t := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "")
	if t == "" {
		return "", false
	}
	if !strings.Contains(t, "d/dx") &&
		!strings.HasPrefix(t, "derivative") &&
		!strings.HasPrefix(t, "deriv") &&
		!strings.HasPrefix(t, "differentiate") {
		return "", false
	}

	for _, entry := range derivativeTable {
		for _, form := range entry.forms {
			if strings.Contains(t, form) {
				return entry.answer, true
			}
		}
	}

	// power rule for other x^n
	if m := powerFormRe.FindStringSubmatch(t); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			switch n {
			case 1:
				return "Derivative of x is 1", true
			case 2:
				return "Derivative of x^2 is 2x", true
			default:
				return fmt.Sprintf("Derivative of x^%d is %dx^%d", n, n, n-1), true
			}
		}
	}

	return "", false
}
