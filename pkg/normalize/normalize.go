// Package normalize normaliza identificadores ingresados por usuarios
// (seriales, SKUs, números de lote) a una forma canónica comparable.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quitarDiacriticos = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold devuelve la forma canónica de un identificador: sin espacios en los
// extremos, sin diacríticos y en mayúsculas. "  ñu-01 " y "NU-01" colisionan
// a propósito: dos etiquetas que un operador no distingue son el mismo serial.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	plano, _, err := transform.String(quitarDiacriticos, s)
	if err != nil {
		plano = s
	}
	return strings.ToUpper(plano)
}

// Equal compara dos identificadores en forma canónica.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
