package solver

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonLinearRe    = regexp.MustCompile(`(?i)(\^|[²³]|x\s*\d)`)
	coefficientRe  = regexp.MustCompile(`([+\-]?\d+(?:\.\d+)?)x`)
	standaloneXRe  = regexp.MustCompile(`(^|[+\-])x`)
	constantTermRe = regexp.MustCompile(`[+\-]?\d+(?:\.\d+)?`)
)

// TryLinear solves a conservative single-variable linear equation such as
// "2x + 5 = 15", "x - 3 = 2" or "-x + 4 = 1". It refuses anything that
// looks non-linear (powers, x followed by a digit) and anything it cannot
// confidently solve, returning ("", false) in those cases.
func TryLinear(text string) (string, bool) {
	t := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if !strings.Contains(t, "=") || !strings.Contains(strings.ToLower(t), "x") {
		return "", false
	}
	if nonLinearRe.MatchString(t) {
		return "", false
	}

	left, right, _ := strings.Cut(t, "=")
	left = strings.ReplaceAll(left, "X", "x")

	// give standalone x an explicit coefficient: "x", "+x", "-x" -> "1x"
	left = standaloneXRe.ReplaceAllString(left, "${1}1x")

	loc := coefficientRe.FindStringSubmatchIndex(left)
	if loc == nil {
		return "", false
	}
	a, err := strconv.ParseFloat(left[loc[2]:loc[3]], 64)
	if err != nil {
		return "", false
	}

	// sum the remaining constants on the left side
	leftWithoutAx := left[:loc[0]] + left[loc[1]:]
	var b float64
	for _, c := range constantTermRe.FindAllString(leftWithoutAx, -1) {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return "", false
		}
		b += v
	}

	// right side must be a plain number with no variable
	if strings.Contains(strings.ToLower(right), "x") {
		return "", false
	}
	c, err := strconv.ParseFloat(right, 64)
	if err != nil {
		return "", false
	}

	if a == 0 {
		return "", false
	}
	x := (c - b) / a
	return "x = " + formatNumber(x), true
}
