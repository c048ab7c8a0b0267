package models

import (
	"fmt"
	"math"
	"strconv"
)

// FormatMoney renders a COP amount the way the billing staff reads it:
// dollar sign, thousands separated by dots, no decimals.
// e.g. 50000 -> "$50.000"
func FormatMoney(value float64) string {
	rounded := int64(math.Round(value))

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	digits := strconv.FormatInt(rounded, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	if negative {
		return fmt.Sprintf("-$%s", grouped)
	}
	return fmt.Sprintf("$%s", grouped)
}
