// Package planilla carga la grilla cruda de una hoja importada: detecta
// la fila de encabezados, mapea columnas y decodifica cada celda a su
// texto de presentación.
package planilla

import (
	"fmt"
	"strings"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
)

// Hoja es la grilla cruda que entrega el colaborador externo.
type Hoja struct {
	Nombre string
	Celdas [][]Celda
	// FilasReportadas es el total de filas que declara el archivo;
	// 0 usa el largo real de la grilla.
	FilasReportadas int
}

const (
	filasEscaneo          = 3
	filasEscaneoMonitoreo = 10
	colsEscaneo           = 25
	colsEscaneoMonitoreo  = 60
	filasEscaneoExtendido = 20
	minCeldasEncabezado   = 5
	maxFilasDatos         = 1000
	encabezadosGenericos  = 20
)

// Encabezados que esperamos encontrar en la fila correcta. Sirven para
// desempatar cuando la hoja de monitoreo trae filas de título antes de
// los encabezados reales.
var palabrasClave = []string{
	"DOCENTE", "CURSO", "SECCION", "SECCIÓN", "SESION",
	"HORA INICIO", "HORA FIN", "FECHA", "DIA", "COLUMNA 13",
}

type filaEscaneada struct {
	textos   []string
	noVacias int
	claves   int
}

// Cargar produce el roster tipado a partir de la grilla. Los problemas
// de calidad de datos degradan (nunca abortan) y se informan en avisos.
func Cargar(hoja Hoja) (*models.Roster, []models.Aviso) {
	filaEnc, encabezados, avisos := detectarEncabezados(hoja)

	total := len(hoja.Celdas)
	if hoja.FilasReportadas > 0 && hoja.FilasReportadas < total {
		total = hoja.FilasReportadas
	}
	if total > maxFilasDatos {
		total = maxFilasDatos
	}

	var registros []map[string]string
	for r := filaEnc + 1; r < total; r++ {
		reg := make(map[string]string, len(encabezados))
		algo := false
		for c, enc := range encabezados {
			var v string
			if c < len(hoja.Celdas[r]) {
				v = ValorCelda(hoja.Celdas[r][c], enc)
			}
			reg[enc] = v
			if v != "" {
				algo = true
			}
		}
		if algo {
			registros = append(registros, reg)
		}
	}

	return models.NuevoRoster(encabezados, registros), avisos
}

// detectarEncabezados aplica el algoritmo de selección de fila de
// encabezados con su escalera de degradación. Devuelve -1 como fila
// cuando se recurrió a encabezados genéricos (los datos arrancan en 0).
func detectarEncabezados(hoja Hoja) (int, []string, []models.Aviso) {
	var avisos []models.Aviso

	monitoreo := strings.Contains(strings.ToLower(hoja.Nombre), "monitoreo")
	maxFilas, maxCols := filasEscaneo, colsEscaneo
	if monitoreo {
		// El encabezado de esta hoja a veces no es la primera fila.
		maxFilas, maxCols = filasEscaneoMonitoreo, colsEscaneoMonitoreo
	}
	if maxFilas > len(hoja.Celdas) {
		maxFilas = len(hoja.Celdas)
	}

	escaneadas := make([]filaEscaneada, maxFilas)
	for r := 0; r < maxFilas; r++ {
		escaneadas[r] = escanearFila(hoja.Celdas[r], maxCols)
	}

	seleccion := -1
	for r := 0; r < maxFilas; r++ {
		if escaneadas[r].noVacias >= minCeldasEncabezado {
			seleccion = r
			break
		}
	}

	// Solo para monitoreo: una fila posterior con más palabras clave
	// desplaza a la tentativa, siempre que la tentativa no tuviera
	// ninguna.
	if monitoreo && seleccion >= 0 && escaneadas[seleccion].claves == 0 {
		for r := seleccion + 1; r < maxFilas; r++ {
			if escaneadas[r].claves > escaneadas[seleccion].claves {
				seleccion = r
			}
		}
	}

	if seleccion >= 0 {
		return seleccion, limpiarEncabezados(escaneadas[seleccion].textos), avisos
	}

	// Degradación 1 (solo monitoreo): la fila con más celdas no vacías.
	if monitoreo {
		mejor, mejorCuenta := -1, 0
		for r := 0; r < maxFilas; r++ {
			if escaneadas[r].noVacias > mejorCuenta {
				mejor, mejorCuenta = r, escaneadas[r].noVacias
			}
		}
		if mejor >= 0 {
			avisos = append(avisos, models.Advertencia(
				"Encabezados dudosos en %q: se usó la fila %d por cantidad de celdas", hoja.Nombre, mejor+1))
			return mejor, limpiarEncabezados(escaneadas[mejor].textos), avisos
		}
	}

	// Degradación 2: primera fila con alguna celda no vacía en un
	// escaneo extendido.
	extendido := filasEscaneoExtendido
	if extendido > len(hoja.Celdas) {
		extendido = len(hoja.Celdas)
	}
	for r := 0; r < extendido; r++ {
		fila := escanearFila(hoja.Celdas[r], maxCols)
		if fila.noVacias > 0 {
			avisos = append(avisos, models.Advertencia(
				"Encabezados dudosos en %q: se usó la fila %d del escaneo extendido", hoja.Nombre, r+1))
			return r, limpiarEncabezados(fila.textos), avisos
		}
	}

	// Último recurso: encabezados genéricos para producir alguna salida.
	genericos := make([]string, encabezadosGenericos)
	for i := range genericos {
		genericos[i] = fmt.Sprintf("COLUMNA_%d", i+1)
	}
	avisos = append(avisos, models.Advertencia(
		"No se detectó fila de encabezados en %q: se usan encabezados genéricos", hoja.Nombre))
	return -1, genericos, avisos
}

func escanearFila(celdas []Celda, maxCols int) filaEscaneada {
	if maxCols > len(celdas) {
		maxCols = len(celdas)
	}
	fila := filaEscaneada{textos: make([]string, maxCols)}
	for c := 0; c < maxCols; c++ {
		texto := strings.TrimSpace(ValorCelda(celdas[c], ""))
		fila.textos[c] = texto
		if texto == "" {
			continue
		}
		fila.noVacias++
		for _, clave := range palabrasClave {
			if strings.EqualFold(texto, clave) {
				fila.claves++
				break
			}
		}
	}
	return fila
}

// limpiarEncabezados recorta las celdas vacías del final y bautiza con
// un nombre posicional a las vacías intermedias.
func limpiarEncabezados(textos []string) []string {
	fin := len(textos)
	for fin > 0 && textos[fin-1] == "" {
		fin--
	}
	encabezados := make([]string, fin)
	for i := 0; i < fin; i++ {
		if textos[i] == "" {
			encabezados[i] = fmt.Sprintf("COLUMNA_%d", i+1)
		} else {
			encabezados[i] = textos[i]
		}
	}
	return encabezados
}
