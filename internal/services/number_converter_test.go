package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "CERO LEMPIRAS CON 00/100"},
		{21, "VEINTIUNO LEMPIRAS CON 00/100"},
		{100, "CIEN LEMPIRAS CON 00/100"},
		{135, "CIENTO TREINTA Y CINCO LEMPIRAS CON 00/100"},
		{1500.50, "MIL QUINIENTOS LEMPIRAS CON 50/100"},
		{107000, "CIENTO SIETE MIL LEMPIRAS CON 00/100"},
		{2000000, "DOS MILLONES LEMPIRAS CON 00/100"},
		{3110.72, "TRES MIL CIENTO DIEZ LEMPIRAS CON 72/100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NumberToWords(tt.amount), "amount %v", tt.amount)
	}
}
