package solver

import (
	"math"
	"strconv"
	"strings"
)

// TryArithmetic evaluates a question that is a pure numeric expression,
// such as "3+10" or "2 + 3 * 4". It supports + - * / ^ with the usual
// precedence, parentheses and unary minus. Returns the result and true,
// or ("", false) when the text is not a pure arithmetic expression.
func TryArithmetic(text string) (string, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return "", false
	}
	// normalize common unicode operators
	t = strings.ReplaceAll(t, "×", "*")
	t = strings.ReplaceAll(t, "÷", "/")

	p := &arithParser{input: t}
	res, ok := p.parse()
	if !ok {
		return "", false
	}
	if p.divByZero {
		// kept as an answer rather than a decline so "10 / 0" does not
		// fall through to the LLM
		return "Division by zero error", true
	}
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return "", false
	}
	return formatNumber(res), true
}

type arithParser struct {
	input     string
	pos       int
	binaryOps int
	divByZero bool
}

func (p *arithParser) parse() (float64, bool) {
	res, ok := p.parseExpr()
	if !ok {
		return 0, false
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, false
	}
	// a bare number is not an arithmetic question
	if p.binaryOps == 0 {
		return 0, false
	}
	return res, true
}

// expr := term (('+'|'-') term)*
func (p *arithParser) parseExpr() (float64, bool) {
	left, ok := p.parseTerm()
	if !ok {
		return 0, false
	}
	for {
		p.skipSpaces()
		op, found := p.peekOp("+-")
		if !found {
			return left, true
		}
		p.pos++
		right, ok := p.parseTerm()
		if !ok {
			return 0, false
		}
		p.binaryOps++
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

// term := factor (('*'|'/') factor)*
func (p *arithParser) parseTerm() (float64, bool) {
	left, ok := p.parseFactor()
	if !ok {
		return 0, false
	}
	for {
		p.skipSpaces()
		op, found := p.peekOp("*/")
		if !found {
			return left, true
		}
		p.pos++
		right, ok := p.parseFactor()
		if !ok {
			return 0, false
		}
		p.binaryOps++
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				p.divByZero = true
				right = 1
			}
			left /= right
		}
	}
}

// factor := unary ('^' factor)?  — exponent is right-associative
func (p *arithParser) parseFactor() (float64, bool) {
	base, ok := p.parseUnary()
	if !ok {
		return 0, false
	}
	p.skipSpaces()
	if _, found := p.peekOp("^"); found {
		p.pos++
		exp, ok := p.parseFactor()
		if !ok {
			return 0, false
		}
		p.binaryOps++
		return math.Pow(base, exp), true
	}
	return base, true
}

func (p *arithParser) parseUnary() (float64, bool) {
	p.skipSpaces()
	neg := false
	for p.pos < len(p.input) && (p.input[p.pos] == '+' || p.input[p.pos] == '-') {
		if p.input[p.pos] == '-' {
			neg = !neg
		}
		p.pos++
		p.skipSpaces()
	}
	v, ok := p.parsePrimary()
	if !ok {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func (p *arithParser) parsePrimary() (float64, bool) {
	p.skipSpaces()
	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		p.pos++
		v, ok := p.parseExpr()
		if !ok {
			return 0, false
		}
		p.skipSpaces()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, false
		}
		p.pos++
		return v, true
	}
	return p.parseNumber()
}

func (p *arithParser) parseNumber() (float64, bool) {
	start := p.pos
	seenDigit := false
	seenDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		default:
			goto done
		}
		p.pos++
	}
done:
	if !seenDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (p *arithParser) peekOp(ops string) (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	c := p.input[p.pos]
	if strings.IndexByte(ops, c) >= 0 {
		return c, true
	}
	return 0, false
}

func (p *arithParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// formatNumber renders integer-valued results without a decimal part.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
