// Package temporal extrae fechas, horas y duraciones de los textos
// heterogéneos que traen el roster y el historial de reuniones. El
// formato de los timestamps exportados cambia según la configuración
// regional de quien exporta, así que todo parseo es por capas con
// degradación al texto original.
package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/normalizar"
)

// Valores de turno según la hora de inicio de la sesión.
const (
	TurnoManana = "MORNING"   // [6, 12)
	TurnoTarde  = "AFTERNOON" // [12, 18)
	TurnoNoche  = "NIGHT"     // resto
)

var meses = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
	"june": 6, "july": 7, "august": 8, "september": 9, "october": 10,
	"november": 11, "december": 12,
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5,
	"junio": 6, "julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9,
	"octubre": 10, "noviembre": 11, "diciembre": 12,
}

var (
	reMesNombre = regexp.MustCompile(`([a-z]+)\s+(\d{1,2}),?\s+(\d{4})`)
	reISO       = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})`)
	reBarras    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})`)

	reHoraAMPM = regexp.MustCompile(`(?i)\d{1,2}:\d{2}:\d{2}\s*(?:AM|PM)`)
	reHoraEs   = regexp.MustCompile(`(?i)\d{1,2}:\d{2}:\d{2}\s*(?:a\.\s?m\.|p\.\s?m\.)`)
	reHoraSola = regexp.MustCompile(`^\s*(\d{1,2}:\d{2}:\d{2})`)

	// Los segundos son opcionales: la hora programada del roster suele
	// venir como "14:00" o "2:30 PM".
	reHora12 = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(AM|PM)`)
	reHora24 = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::(\d{2}))?`)

	reAmEs = regexp.MustCompile(`(?i)a\.\s?m\.`)
	rePmEs = regexp.MustCompile(`(?i)p\.\s?m\.`)

	// Formatos de último recurso para el parseo genérico.
	formatosGenericos = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006/01/02",
		"Jan 2, 2006",
		"2 Jan 2006",
	}
)

// ExtraerFecha intenta, en orden: "Mes DD, YYYY" en inglés o español,
// ISO YYYY-M-D, D/M/YYYY ambiguo, parseo genérico, y si nada aplica
// devuelve el texto original sin tocar. Salida canónica DD/MM/YYYY.
func ExtraerFecha(texto string) string {
	plano := strings.ToLower(normalizar.QuitarTildes(texto))

	if m := reMesNombre.FindStringSubmatch(plano); m != nil {
		if mes, ok := meses[m[1]]; ok {
			dia, _ := strconv.Atoi(m[2])
			anio, _ := strconv.Atoi(m[3])
			return fmt.Sprintf("%02d/%02d/%04d", dia, mes, anio)
		}
	}

	if m := reISO.FindStringSubmatch(texto); m != nil {
		anio, _ := strconv.Atoi(m[1])
		mes, _ := strconv.Atoi(m[2])
		dia, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%02d/%02d/%04d", dia, mes, anio)
	}

	if m := reBarras.FindStringSubmatch(texto); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		anio := m[3]
		if len(anio) == 2 {
			anio = "20" + anio
		}
		dia, mes := a, b
		if b > 12 && a <= 12 {
			// El segundo número solo puede ser día: formato M/D.
			dia, mes = b, a
		}
		return fmt.Sprintf("%02d/%02d/%s", dia, mes, anio)
	}

	limpio := strings.TrimSpace(texto)
	for _, formato := range formatosGenericos {
		if t, err := time.Parse(formato, limpio); err == nil {
			return t.Format("02/01/2006")
		}
	}

	return texto
}

// ExtraerHora devuelve la primera hora reconocible del texto: primero
// con AM/PM, después con la abreviatura española a.m./p.m., después una
// hora pelada al inicio. Si no hay nada, el texto original.
func ExtraerHora(texto string) string {
	if m := reHoraAMPM.FindString(texto); m != "" {
		return m
	}
	if m := reHoraEs.FindString(texto); m != "" {
		return m
	}
	if m := reHoraSola.FindStringSubmatch(texto); m != nil {
		return m[1]
	}
	return texto
}

// ExtraerDuracion interpreta el campo de duración del registro: entero
// en minutos -> HH:MM:00; cualquier otro texto se devuelve recortado.
func ExtraerDuracion(valor string) string {
	valor = strings.TrimSpace(valor)
	if valor == "" {
		return ""
	}
	if minutos, err := strconv.Atoi(valor); err == nil {
		return fmt.Sprintf("%02d:%02d:00", minutos/60, minutos%60)
	}
	return valor
}

// DetectarTurno clasifica una hora en MORNING/AFTERNOON/NIGHT. No hay
// estado "desconocido": lo que no cae en mañana ni tarde es noche.
func DetectarTurno(horaTexto string) string {
	hora := -1
	normalizado := normalizarAMPM(horaTexto)
	if m := reHora12.FindStringSubmatch(normalizado); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h == 12 {
			h = 0
		}
		if strings.EqualFold(m[4], "PM") {
			h += 12
		}
		hora = h
	} else if m := reHora24.FindStringSubmatch(horaTexto); m != nil {
		hora, _ = strconv.Atoi(m[1])
	}

	switch {
	case hora >= 6 && hora < 12:
		return TurnoManana
	case hora >= 12 && hora < 18:
		return TurnoTarde
	default:
		return TurnoNoche
	}
}

// MinutosDesdeMedianoche convierte una hora a minutos desde las 00:00.
// Devuelve 0 cuando no se pudo parsear: el llamador debe tratar 0 como
// "sin hora válida", no como medianoche.
func MinutosDesdeMedianoche(texto string) int {
	normalizado := normalizarAMPM(texto)
	if m := reHora12.FindStringSubmatch(normalizado); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h == 12 {
			h = 0
		}
		if strings.EqualFold(m[4], "PM") {
			h += 12
		}
		return h*60 + min
	}
	if m := reHora24.FindStringSubmatch(texto); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h < 24 && min < 60 {
			return h*60 + min
		}
	}
	return 0
}

// normalizarAMPM reescribe las variantes españolas "a. m."/"p. m." como
// AM/PM para poder usar un solo parseo de 12 horas.
func normalizarAMPM(texto string) string {
	texto = reAmEs.ReplaceAllString(texto, "AM")
	texto = rePmEs.ReplaceAllString(texto, "PM")
	return texto
}
