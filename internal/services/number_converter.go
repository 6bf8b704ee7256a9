package services

import (
	"fmt"
	"math"
	"strings"
)

// NumberToWords spells a lempira amount in Spanish for the statement PDF.
// The cents are rendered as a fraction: 1500.50 -> "MIL QUINIENTOS LEMPIRAS
// CON 50/100".
func NumberToWords(amount float64) string {
	if amount == 0 {
		return "CERO LEMPIRAS CON 00/100"
	}

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))

	return fmt.Sprintf("%s LEMPIRAS CON %02d/100", strings.ToUpper(integerWords(whole)), cents)
}

// integerWords recursively spells an integer in Spanish, up to the billions.
func integerWords(n int64) string {
	if n == 0 {
		return "CERO"
	}

	if n < 0 {
		return "MENOS " + integerWords(-n)
	}

	if n < 10 {
		return units[n]
	}

	// 10..29 are irregular and spelled as single words
	if n < 30 {
		return specials[n]
	}

	if n < 100 {
		if n%10 == 0 {
			return tens[n/10]
		}
		return fmt.Sprintf("%s Y %s", tens[n/10], units[n%10])
	}

	if n < 1000 {
		rest := n % 100
		if rest == 0 {
			return hundreds[n/100]
		}
		if n/100 == 1 {
			// "CIEN" alone, "CIENTO" when followed by more
			return "CIENTO " + integerWords(rest)
		}
		return fmt.Sprintf("%s %s", hundreds[n/100], integerWords(rest))
	}

	if n < 1000000 {
		prefix := "MIL"
		if n/1000 > 1 {
			prefix = integerWords(n/1000) + " MIL"
		}
		if n%1000 == 0 {
			return prefix
		}
		return fmt.Sprintf("%s %s", prefix, integerWords(n%1000))
	}

	if n < 1000000000000 {
		prefix := "UN MILLÓN"
		if n/1000000 > 1 {
			prefix = integerWords(n/1000000) + " MILLONES"
		}
		if n%1000000 == 0 {
			return prefix
		}
		return fmt.Sprintf("%s %s", prefix, integerWords(n%1000000))
	}

	return "NÚMERO MUY GRANDE"
}

var units = []string{
	"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
}

var specials = map[int64]string{
	10: "DIEZ", 11: "ONCE", 12: "DOCE", 13: "TRECE", 14: "CATORCE", 15: "QUINCE",
	16: "DIECISÉIS", 17: "DIECISIETE", 18: "DIECIOCHO", 19: "DIECINUEVE",
	20: "VEINTE", 21: "VEINTIUNO", 22: "VEINTIDÓS", 23: "VEINTITRÉS", 24: "VEINTICUATRO",
	25: "VEINTICINCO", 26: "VEINTISÉIS", 27: "VEINTISIETE", 28: "VEINTIOCHO", 29: "VEINTINUEVE",
}

var tens = []string{
	"", "", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

var hundreds = []string{
	"", "CIEN", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}
