package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredits(t *testing.T) {
	assert.Equal(t, "0.000 credits", Credits(0, ""))
	assert.Equal(t, "< 0.01 credits", Credits(0.004, ""))
	assert.Equal(t, "0.010 credits", Credits(0.01, ""))
	assert.Equal(t, "0.125 créditos", Credits(0.125, "créditos"))
	assert.Equal(t, "4.500 kredi yo", Credits(4.5, "kredi yo"))
}

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		0:       "0.000 credits",
		0.005:   "< 0.01 credits",
		0.75:    "0.750 credits",
		1:       "$1.00",
		12.5:    "$12.50",
		1250:    "$1.25K",
		3400000: "$3.40M",
	}
	for in, want := range cases {
		assert.Equal(t, want, Format(in), "%v", in)
	}
}
