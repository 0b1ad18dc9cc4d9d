// Package emparejar decide si una sesión programada y un registro del
// historial de reuniones hablan de la misma clase: descompone el tema
// libre del registro y compara identidades normalizadas, con un
// respaldo por proximidad horaria para filas sin fecha.
package emparejar

import (
	"regexp"
	"strconv"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/normalizar"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/temporal"
)

// MaxDesfaseMinutos es el umbral del respaldo por proximidad horaria.
// Valor heredado de la operación original; no recalibrar sin consultar.
const MaxDesfaseMinutos = 120

// Tema es la descomposición del asunto de una reunión con el patrón
// esperado `<curso> <separador> PEAD-<sección> [SESION <n>]`.
type Tema struct {
	Curso   string
	Seccion string
	// Numero 0 significa que el tema no afirma número de sesión.
	Numero int
}

var (
	// Patrón estricto: separador obligatorio y código PEAD-<alfanumérico>.
	reTemaEstricto = regexp.MustCompile(`(?i)^\s*(.+?)\s*[–\-/:]\s*(PEAD[-_ ]?[A-Za-z0-9]+)(?:\s+SESI[OÓ]N\s*(\d+))?`)
	// Patrón laxo: PEAD suelto, con o sin separador y sin código. Un
	// match por acá es "formato no estándar" y el operador debe verlo.
	reTemaLaxo = regexp.MustCompile(`(?i)^\s*(.*?)\s*[–\-/:]?\s*\b(PEAD(?:[-_ ]?[A-Za-z0-9]+)?)\b(?:\s+SESI[OÓ]N\s*(\d+))?`)
)

// DescomponerTema intenta el patrón estricto y después el laxo.
// noEstandar=true cuando solo el laxo reconoció el tema: sigue siendo
// utilizable, pero con confianza degradada.
func DescomponerTema(texto string) (t Tema, ok bool, noEstandar bool) {
	if m := reTemaEstricto.FindStringSubmatch(texto); m != nil {
		return armarTema(m), true, false
	}
	if m := reTemaLaxo.FindStringSubmatch(texto); m != nil && m[2] != "" {
		return armarTema(m), true, true
	}
	return Tema{}, false, false
}

func armarTema(m []string) Tema {
	n := 0
	if m[3] != "" {
		n, _ = strconv.Atoi(m[3])
	}
	return Tema{Curso: m[1], Seccion: m[2], Numero: n}
}

// EsMismaSesion decide si el registro corresponde exactamente a la fila
// programada. seccionParcial avisa que la sección coincidió solo por
// subcadena y hay que advertir al operador.
func EsMismaSesion(fila *models.Fila, reg models.Registro) (coincide, seccionParcial, temaNoEstandar bool) {
	if !normalizar.DocentesCoinciden(fila.Docente, reg.Anfitrion) {
		return false, false, false
	}
	tema, ok, noEstandar := DescomponerTema(reg.Tema)
	if !ok {
		return false, false, false
	}
	if normalizar.Curso(tema.Curso) != normalizar.Curso(fila.Curso) {
		return false, false, noEstandar
	}
	okSec, parcial := normalizar.SeccionesCoinciden(fila.Seccion, tema.Seccion)
	if !okSec {
		return false, false, noEstandar
	}
	if tema.Numero != fila.Sesion {
		return false, false, noEstandar
	}
	return true, parcial, noEstandar
}

// BuscarExacta recorre los registros y devuelve el primero que hace
// match exacto con la fila, junto con las señales de confianza
// degradada (sección por subcadena, tema reconocido por el patrón laxo).
func BuscarExacta(fila *models.Fila, registros []models.Registro) (reg models.Registro, parcial, noEstandar, ok bool) {
	for _, r := range registros {
		if coincide, p, ne := EsMismaSesion(fila, r); coincide {
			return r, p, ne, true
		}
	}
	return models.Registro{}, false, false, false
}

// MejorCoincidenciaHoraria es el respaldo para filas con hora
// programada pero sin fecha: el registro del mismo docente con la menor
// diferencia de minutos respecto de la hora programada, hasta
// MaxDesfaseMinutos. Cada hora de inicio del historial satisface a lo
// sumo una fila por pasada (el set usados lo garantiza).
func MejorCoincidenciaHoraria(docente, horaProgramada string, registros []models.Registro, usados map[string]bool) (models.Registro, bool) {
	minutosProg := temporal.MinutosDesdeMedianoche(horaProgramada)
	if minutosProg == 0 {
		return models.Registro{}, false
	}

	mejor := models.Registro{}
	mejorDif := MaxDesfaseMinutos + 1
	hallado := false
	for _, r := range registros {
		if usados[r.Inicio] || !normalizar.DocentesCoinciden(docente, r.Anfitrion) {
			continue
		}
		minutos := temporal.MinutosDesdeMedianoche(temporal.ExtraerHora(r.Inicio))
		if minutos == 0 {
			// Hora de inicio no parseable: fuera del respaldo.
			continue
		}
		dif := minutos - minutosProg
		if dif < 0 {
			dif = -dif
		}
		if dif < mejorDif {
			mejor, mejorDif, hallado = r, dif, true
		}
	}
	if !hallado {
		return models.Registro{}, false
	}
	usados[mejor.Inicio] = true
	return mejor, true
}
