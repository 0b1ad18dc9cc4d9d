package planilla

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Celda es el valor crudo de una celda tal como lo entrega el lector de
// planillas: el valor puede ser primitivo, una fecha, o una forma de
// objeto (texto enriquecido, hipervínculo, resultado de fórmula).
type Celda struct {
	Valor      any
	FormatoNum string
}

// TramoRico es un tramo de texto enriquecido dentro de una celda.
type TramoRico struct {
	Texto string
}

// ValorCompuesto cubre las formas de objeto del lector: texto
// enriquecido, hipervínculos y fórmulas con o sin resultado calculado.
type ValorCompuesto struct {
	TextoRico    []TramoRico
	Texto        string
	Hipervinculo string
	Formula      string
	Resultado    any
	Valor        any
}

var (
	reFechaIncrustada = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{1,2}-\d{1,2}`)
	reHoraIncrustada  = regexp.MustCompile(`(?i)\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM|a\.\s?m\.|p\.\s?m\.)?`)
)

const maxLargoTexto = 100

// ValorCelda decodifica una celda a su texto de presentación. El
// encabezado de la columna solo importa para SESION, que fuerza la
// coerción a entero.
func ValorCelda(c Celda, encabezado string) string {
	if c.Valor == nil {
		return ""
	}
	if strings.EqualFold(strings.TrimSpace(encabezado), "SESION") {
		return valorSesion(c)
	}
	return valorGenerico(c)
}

// valorSesion redondea números a entero (el 0 se conserva como "0") y
// desenvuelve resultados de fórmula anidados.
func valorSesion(c Celda) string {
	switch v := c.Valor.(type) {
	case float64:
		return strconv.Itoa(int(math.Round(v)))
	case int:
		return strconv.Itoa(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return strconv.Itoa(int(math.Round(f)))
		}
		return strings.TrimSpace(v)
	case *ValorCompuesto:
		if v.Resultado != nil {
			return valorSesion(Celda{Valor: v.Resultado, FormatoNum: c.FormatoNum})
		}
		if v.Valor != nil {
			return valorSesion(Celda{Valor: v.Valor, FormatoNum: c.FormatoNum})
		}
		if v.Texto != "" {
			return strings.TrimSpace(v.Texto)
		}
	}
	return valorGenerico(c)
}

func valorGenerico(c Celda) string {
	switch v := c.Valor.(type) {
	case time.Time:
		return formatearFecha(v)
	case float64:
		return valorNumerico(v, c.FormatoNum)
	case int:
		return valorNumerico(float64(v), c.FormatoNum)
	case string:
		return valorTexto(v)
	case bool:
		if v {
			return "VERDADERO"
		}
		return "FALSO"
	case *ValorCompuesto:
		return valorObjeto(v, c.FormatoNum)
	default:
		// Forma desconocida: se registra para diagnóstico, nunca se lanza.
		log.Printf("planilla: tipo de celda no reconocido %T", c.Valor)
		return ""
	}
}

// formatearFecha aplica la convención es-ES: DD/MM/YYYY, con sufijo de
// hora solo si la fecha trae hora. Los años 1899/1900 son el centinela
// "solo hora" de las planillas y se muestran como HH:MM:SS.
func formatearFecha(t time.Time) string {
	t = t.UTC()
	if t.Year() == 1899 || t.Year() == 1900 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	fecha := t.Format("02/01/2006")
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		return fecha + t.Format(" 15:04:05")
	}
	return fecha
}

func valorNumerico(v float64, formato string) string {
	if strings.Contains(formato, "%") {
		return fmt.Sprintf("%d%%", int(math.Round(v*100)))
	}
	if (v >= 0 && v < 1 && !esFormatoFechaPura(formato)) || esFormatoHora(formato) {
		return horaDeFraccion(v)
	}
	if v >= 1 && v < 100000 {
		t := fechaDeSerie(v)
		if a := t.Year(); a > 1900 && a < 2100 {
			return formatearFecha(t)
		}
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fechaDeSerie convierte un serial de planilla (días desde 1899-12-30)
// a fecha.
func fechaDeSerie(v float64) time.Time {
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(math.Round(v*86400)) * time.Second)
}

func horaDeFraccion(v float64) string {
	frac := v - math.Floor(v)
	seg := int(math.Round(frac*86400)) % 86400
	return fmt.Sprintf("%02d:%02d:%02d", seg/3600, (seg%3600)/60, seg%60)
}

func esFormatoHora(formato string) bool {
	f := strings.ToLower(formato)
	return strings.Contains(f, "h:") || strings.Contains(f, "hh") || strings.Contains(f, "[h]")
}

func esFormatoFechaPura(formato string) bool {
	f := strings.ToLower(formato)
	return strings.Contains(f, "d") && strings.Contains(f, "y") && !esFormatoHora(f)
}

func valorObjeto(v *ValorCompuesto, formato string) string {
	if len(v.TextoRico) > 0 {
		var b strings.Builder
		for _, tramo := range v.TextoRico {
			b.WriteString(tramo.Texto)
		}
		return b.String()
	}
	if v.Texto != "" {
		return v.Texto
	}
	if v.Resultado != nil {
		return valorGenerico(Celda{Valor: v.Resultado, FormatoNum: formato})
	}
	if v.Valor != nil {
		return valorGenerico(Celda{Valor: v.Valor, FormatoNum: formato})
	}
	if v.Formula != "" {
		// Fórmula sin resultado calculado.
		return "=" + v.Formula
	}
	log.Printf("planilla: forma de objeto no reconocida: %+v", v)
	return ""
}

// valorTexto extrae una fecha u hora incrustada si la hay; si no,
// recorta a 100 caracteres.
func valorTexto(s string) string {
	if m := reFechaIncrustada.FindString(s); m != "" {
		return m
	}
	if m := reHoraIncrustada.FindString(s); m != "" {
		return m
	}
	runas := []rune(s)
	if len(runas) > maxLargoTexto {
		return string(runas[:maxLargoTexto]) + "…"
	}
	return s
}
