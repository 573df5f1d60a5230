// Package format renders values the way Brazilian documents print them.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04:05"
)

// Currency formats an amount as BRL, e.g. R$ 1.500,50.
func Currency(value decimal.Decimal) string {
	sign := ""
	if value.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + Amount(value.Abs())
}

// Amount formats a non-negative amount with pt-BR separators and no symbol.
func Amount(value decimal.Decimal) string {
	fixed := value.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

func Date(t time.Time) string {
	return t.Format(dateLayout)
}

func DateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Document masks a CPF (11 digits) or CNPJ (14 digits). Anything else is
// returned unchanged.
func Document(document string) string {
	d := OnlyDigits(document)
	switch len(d) {
	case 11:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	case 14:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	}
	return document
}

// ZipCode masks an 8 digit CEP as XXXXX-XXX.
func ZipCode(zip string) string {
	d := OnlyDigits(zip)
	if len(d) != 8 {
		return zip
	}
	return d[0:5] + "-" + d[5:8]
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
