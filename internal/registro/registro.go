// Package registro decodifica la exportación de texto del historial de
// reuniones (delimitador ambiguo entre ;, tabulador y coma) y acumula
// los registros de varias cargas deduplicando entradas idénticas.
package registro

import (
	"errors"
	"strings"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/normalizar"
)

// ErrExportacionVacia se devuelve ante un texto sin línea de
// encabezados: es el único caso estructural que no degrada.
var ErrExportacionVacia = errors.New("registro: exportación vacía, sin línea de encabezados")

// Candidatos de encabezado por campo: la exportación cambia de idioma
// según la cuenta que la genera.
var (
	candidatosAnfitrion = []string{"ANFITRION", "HOST", "ORGANIZADOR"}
	candidatosTema      = []string{"TEMA", "TOPIC"}
	candidatosInicio    = []string{"HORA DE INICIO", "HORA INICIO", "START TIME", "INICIO"}
	candidatosFin       = []string{"HORA DE FINALIZACION", "HORA FIN", "END TIME", "FIN"}
	candidatosDuracion  = []string{"DURACION (MINUTOS)", "DURACION", "DURATION (MINUTES)", "DURATION"}
)

// Parsear separa el texto exportado en registros planos. El delimitador
// se detecta sobre la primera línea: ; si aparece, después tabulador,
// después coma. La primera línea son los encabezados (sin comillas
// envolventes); los campos finales ausentes quedan en "".
func Parsear(texto string) ([]models.Registro, error) {
	lineas := strings.Split(strings.ReplaceAll(texto, "\r\n", "\n"), "\n")

	primera := ""
	resto := 0
	for i, l := range lineas {
		if strings.TrimSpace(l) != "" {
			primera = l
			resto = i + 1
			break
		}
	}
	if primera == "" {
		return nil, ErrExportacionVacia
	}

	delim := ","
	if strings.Contains(primera, ";") {
		delim = ";"
	} else if strings.Contains(primera, "\t") {
		delim = "\t"
	}

	crudos := strings.Split(primera, delim)
	encabezados := make([]string, len(crudos))
	for i, e := range crudos {
		encabezados[i] = strings.Trim(strings.TrimSpace(e), `"'`)
	}

	var registros []models.Registro
	for _, linea := range lineas[resto:] {
		if strings.TrimSpace(linea) == "" {
			continue
		}
		campos := strings.Split(linea, delim)
		fila := make(map[string]string, len(encabezados))
		for i, enc := range encabezados {
			if i < len(campos) {
				fila[enc] = strings.TrimSpace(campos[i])
			} else {
				fila[enc] = ""
			}
		}
		registros = append(registros, tipificar(fila))
	}
	return registros, nil
}

// tipificar resuelve los campos conocidos del registro contra los
// encabezados reales, sin distinguir mayúsculas ni tildes.
func tipificar(fila map[string]string) models.Registro {
	return models.Registro{
		Anfitrion: campo(fila, candidatosAnfitrion),
		Tema:      campo(fila, candidatosTema),
		Inicio:    campo(fila, candidatosInicio),
		Fin:       campo(fila, candidatosFin),
		Duracion:  campo(fila, candidatosDuracion),
	}
}

func campo(fila map[string]string, candidatos []string) string {
	for _, cand := range candidatos {
		for clave, valor := range fila {
			plano := strings.ToUpper(normalizar.QuitarTildes(strings.TrimSpace(clave)))
			if plano == cand {
				return valor
			}
		}
	}
	return ""
}

// Acumulador junta los registros de varias cargas en una sola colección
// deduplicada por (anfitrión, tema, inicio, fin). La primera aparición
// gana; las repeticiones se descartan en silencio.
type Acumulador struct {
	registros []models.Registro
	vistos    map[string]bool
}

func NuevoAcumulador() *Acumulador {
	return &Acumulador{vistos: make(map[string]bool)}
}

// Agregar incorpora una carga y devuelve cuántos registros eran nuevos.
func (a *Acumulador) Agregar(registros []models.Registro) int {
	nuevos := 0
	for _, r := range registros {
		clave := r.Clave()
		if a.vistos[clave] {
			continue
		}
		a.vistos[clave] = true
		a.registros = append(a.registros, r)
		nuevos++
	}
	return nuevos
}

// Registros devuelve la colección acumulada en orden de llegada.
func (a *Acumulador) Registros() []models.Registro {
	return append([]models.Registro(nil), a.registros...)
}

// Total devuelve cuántos registros únicos hay acumulados.
func (a *Acumulador) Total() int {
	return len(a.registros)
}
