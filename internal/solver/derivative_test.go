package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTryDerivative(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "d/dx notation", input: "d/dx x^2", want: "Derivative of x^2 is 2x", wantOK: true},
		{name: "derivative of prefix", input: "derivative of x^3", want: "Derivative of x^3 is 3x^2", wantOK: true},
		{name: "sine", input: "derivative of sin(x)", want: "Derivative of sin(x) is cos(x)", wantOK: true},
		{name: "cosine", input: "derivative cos(x)", want: "Derivative of cos(x) is -sin(x)", wantOK: true},
		{name: "natural log", input: "derivative of ln(x)", want: "Derivative of ln(x) is 1/x", wantOK: true},
		{name: "exponential", input: "d/dx e^x", want: "Derivative of e^x is e^x", wantOK: true},
		{name: "power rule fallback", input: "derivative of x^5", want: "Derivative of x^5 is 5x^4", wantOK: true},
		{name: "python style power", input: "differentiate x**4", want: "Derivative of x^4 is 4x^3", wantOK: true},
		{name: "not a derivative question", input: "what is x^2", wantOK: false},
		{name: "unknown form declines", input: "derivative of arctan(x)", wantOK: false},
		{name: "empty declines", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TryDerivative(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
