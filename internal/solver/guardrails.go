package solver

import (
	"regexp"
	"strings"
)

var mathPatternRe = regexp.MustCompile(`[+\-*/=^]|x\d|x\^|\d+\s*x|\d+\s*[+\-*/]\s*\d+`)

var mathKeywords = []string{
	"solve", "equation", "value of", "simplify", "add", "subtract", "multiply", "divide",
	"integrate", "differentiate", "derivative", "limit", "function", "geometry", "theorem",
	"triangle", "circle", "area", "perimeter", "algebra", "calculus", "trigonometry",
	"sin", "cos", "tan", "log", "root", "square", "cube", "mean", "median", "mode",
	"probability", "statistics", "vector", "matrix", "formula", "radius", "diameter",
	"volume", "height", "base", "hypotenuse", "pythagoras", "slope",
}

var injectionPhrases = []string{
	"ignore previous", "system prompt", "change rules", "bypass", "act as", "jailbreak",
	"reveal", "show hidden", "write code", "malware", "sql injection", "prompt injection",
	"delete all", "sudo", "hack", "disable filter",
}

// IsMathQuestion reports whether text looks math-related: arithmetic,
// algebra, geometry, trigonometry, calculus or surrounding theory.
func IsMathQuestion(text string) bool {
	t := strings.ToLower(text)
	for _, word := range mathKeywords {
		if strings.Contains(t, word) {
			return true
		}
	}
	return mathPatternRe.MatchString(t)
}

// ContainsPromptInjection detects input that tries to override system
// behavior or smuggle in unrelated non-math tasks.
func ContainsPromptInjection(text string) bool {
	t := strings.ToLower(text)
	for _, phrase := range injectionPhrases {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}
