// Package normalizar contiene las reglas de normalización de texto que
// permiten comparar identidades (docente, curso, sección) entre el
// roster importado y el historial de reuniones, que escriben los mismos
// datos de formas distintas.
package normalizar

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinTokensComunes es el mínimo de tokens compartidos para aceptar dos
// nombres de docente como la misma persona sin igualdad exacta. Valor
// heredado de la operación original; no recalibrar sin consultar.
const MinTokensComunes = 2

var (
	reRomanos    = regexp.MustCompile(`(?i)\b(III|II|IV|V)\b`)
	reNoPalabra  = regexp.MustCompile(`[^0-9A-Za-z_]`)
	rePrefijo    = regexp.MustCompile(`^PEAD[-_ ]`)
	reNoAlfanum  = regexp.MustCompile(`[^0-9A-Z]`)
	foldRomanos  = map[string]string{"II": "2", "III": "3", "IV": "4", "V": "5"}
	quitaAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// QuitarTildes elimina diacríticos (NFD + marcas combinantes fuera).
func QuitarTildes(s string) string {
	res, _, err := transform.String(quitaAcentos, s)
	if err != nil {
		return s
	}
	return res
}

// Docente normaliza un nombre de docente: mayúsculas, tokens de una
// letra fuera, y tokens ordenados para tolerar apellido-nombre invertido
// entre las dos fuentes.
func Docente(s string) string {
	tokens := tokensDocente(s)
	return strings.Join(tokens, " ")
}

func tokensDocente(s string) []string {
	var tokens []string
	for _, t := range strings.Fields(strings.ToUpper(strings.TrimSpace(s))) {
		if utf8.RuneCountInString(t) > 1 {
			tokens = append(tokens, t)
		}
	}
	sort.Strings(tokens)
	return tokens
}

// Curso normaliza un nombre de curso: números romanos II..V a arábigos
// (palabra completa), mayúsculas, sin tildes, todo lo no alfanumérico a
// espacio, y tokens de una letra fuera. Los tokens numéricos se
// conservan aunque midan un dígito: el nivel del curso distingue
// cohortes.
func Curso(s string) string {
	s = reRomanos.ReplaceAllStringFunc(s, func(m string) string {
		return foldRomanos[strings.ToUpper(m)]
	})
	s = reNoPalabra.ReplaceAllString(QuitarTildes(strings.ToUpper(s)), " ")
	var tokens []string
	for _, t := range strings.Fields(s) {
		if utf8.RuneCountInString(t) > 1 || esNumero(t) {
			tokens = append(tokens, t)
		}
	}
	return strings.Join(tokens, " ")
}

func esNumero(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Seccion normaliza un código de sección: quita el prefijo PEAD y todo
// lo que no sea alfanumérico ("PEAD-ad" y "AD" quedan iguales).
func Seccion(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = rePrefijo.ReplaceAllString(s, "")
	return reNoAlfanum.ReplaceAllString(s, "")
}

// SeccionesCoinciden compara dos códigos de sección ya en crudo.
// parcial=true cuando la coincidencia fue por subcadena (códigos
// truncados tipo "A" contra "AA"): vale como match pero el llamador
// debe avisar al operador porque puede ser un falso positivo.
func SeccionesCoinciden(a, b string) (coincide, parcial bool) {
	na, nb := Seccion(a), Seccion(b)
	if na == nb {
		return true, false
	}
	if na == "" || nb == "" {
		return false, false
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true, true
	}
	return false, false
}

// DocentesCoinciden acepta igualdad exacta de la forma normalizada o al
// menos MinTokensComunes tokens compartidos (nombres parciales o en
// otro orden).
func DocentesCoinciden(a, b string) bool {
	ta, tb := tokensDocente(a), tokensDocente(b)
	if strings.Join(ta, " ") == strings.Join(tb, " ") && len(ta) > 0 {
		return true
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	comunes := 0
	for _, t := range tb {
		if set[t] {
			comunes++
			set[t] = false
		}
	}
	return comunes >= MinTokensComunes
}
