// Package conciliar orquesta la pasada completa de conciliación entre
// el roster importado y el historial de reuniones acumulado: completa
// filas existentes, agrupa en cohortes, sintetiza la forma fija de 16
// sesiones por cohorte y fusiona sesiones nuevas descubiertas en el
// historial. Toma sus entradas como inmutables y devuelve un roster
// nuevo; serializar pasadas concurrentes es responsabilidad del
// llamador.
package conciliar

import (
	"strconv"
	"strings"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/emparejar"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/normalizar"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/temporal"
)

// SesionesPorCohorte es la forma fija del calendario: toda cohorte
// termina con exactamente estas sesiones, 1..16, sin huecos.
const SesionesPorCohorte = 16

// Resultado es la salida de una pasada: el roster nuevo, los avisos
// para el operador y los contadores del resumen.
type Resultado struct {
	Roster  *models.Roster `json:"roster"`
	Avisos  []models.Aviso `json:"avisos"`
	Resumen models.Resumen `json:"resumen"`
}

// Conciliar ejecuta las fases A, B y C: autocompletado directo, respaldo por
// proximidad horaria y síntesis de cohortes. Correr la pasada dos veces
// con las mismas entradas produce el mismo roster.
func Conciliar(rosterIn *models.Roster, registros []models.Registro) Resultado {
	roster := rosterIn.Clonar()
	c := roster.Columnas
	var avisos []models.Aviso
	var resumen models.Resumen

	// Fase A: autocompletado directo de filas con identidad completa.
	for _, f := range roster.Filas {
		if !f.TieneIdentidad() || f.Sesion <= 0 {
			continue
		}
		reg, parcial, noEstandar, ok := emparejar.BuscarExacta(f, registros)
		if !ok {
			continue
		}
		completar(c, f, reg)
		resumen.SesionesCompletadas++
		avisos = append(avisos, models.Exito(
			"Sesión %d de %s (%s) completada con el historial de %s",
			f.Sesion, f.Curso, f.Seccion, f.Docente))
		avisos = append(avisos, avisosDegradados(f.Seccion, reg, parcial, noEstandar)...)
	}

	// Fase B: filas con hora programada pero sin fecha todavía. Cada
	// hora de inicio del historial se consume a lo sumo una vez.
	if c.Fecha != "" {
		usados := make(map[string]bool)
		for _, f := range roster.Filas {
			if f.Docente == "" || f.Fecha != "" {
				continue
			}
			hp := horaProgramada(roster, f)
			if hp == "" {
				continue
			}
			reg, ok := emparejar.MejorCoincidenciaHoraria(f.Docente, hp, registros, usados)
			if !ok {
				continue
			}
			completar(c, f, reg)
			resumen.SesionesCompletadas++
			avisos = append(avisos, models.Info(
				"Fila de %s completada por proximidad horaria (inicio %s)",
				f.Docente, reg.Inicio))
		}
	}

	// Fase C: síntesis de la forma fija de 16 sesiones por cohorte.
	cohortes, sueltas := agrupar(roster.Filas)
	var salida []*models.Fila
	for _, co := range cohortes {
		resumen.Cohortes++

		existentes := make(map[int]*models.Fila)
		for _, f := range co.filas {
			if f.Sesion >= 1 && f.Sesion <= SesionesPorCohorte {
				if _, ok := existentes[f.Sesion]; !ok {
					existentes[f.Sesion] = f
				}
			}
		}
		base := co.filas[0]
		if len(existentes) == 0 {
			// Ningún número de sesión en rango: la primera fila queda
			// como sesión 1, sin tocar el resto de sus campos.
			base.Sesion = 1
			existentes[1] = base
			avisos = append(avisos, models.Info(
				"Cohorte %s – %s (%s) sin números de sesión válidos: la primera fila se asumió como sesión 1",
				base.Docente, base.Curso, base.Seccion))
		}

		for n := 1; n <= SesionesPorCohorte; n++ {
			if f, ok := existentes[n]; ok {
				f.Sesion = n
				salida = append(salida, f)
				continue
			}
			nueva := sintetizar(roster, base, n)
			if reg, parcial, noEstandar, ok := emparejar.BuscarExacta(nueva, registros); ok {
				completar(c, nueva, reg)
				resumen.SesionesCompletadas++
				avisos = append(avisos, models.Exito(
					"Sesión %d de %s (%s) creada y completada con el historial",
					n, nueva.Curso, nueva.Seccion))
				avisos = append(avisos, avisosDegradados(nueva.Seccion, reg, parcial, noEstandar)...)
			}
			resumen.SesionesCreadas++
			salida = append(salida, nueva)
		}
	}
	// Las filas sin identidad quedan al final, fuera de toda cohorte.
	salida = append(salida, sueltas...)
	roster.Filas = salida

	return Resultado{Roster: roster, Avisos: avisos, Resumen: resumen}
}

// Fusionar es la fase D: incorpora a un roster ya conformado las
// sesiones del historial que no tienen fila. Para cada docente del
// roster, cada registro suyo se consume una sola vez por clave
// (curso, sección, sesión).
func Fusionar(rosterIn *models.Roster, registros []models.Registro) Resultado {
	roster := rosterIn.Clonar()
	c := roster.Columnas
	var avisos []models.Aviso
	var resumen models.Resumen

	consumidos := make(map[string]bool)
	for _, docente := range docentesDelRoster(roster) {
		for _, reg := range registros {
			if !normalizar.DocentesCoinciden(docente, reg.Anfitrion) {
				continue
			}
			tema, ok, noEstandar := emparejar.DescomponerTema(reg.Tema)
			if !ok {
				avisos = append(avisos, models.Advertencia(
					"Tema sin formato reconocible, omitido: %q", reg.Tema))
				continue
			}
			if noEstandar {
				avisos = append(avisos, models.Advertencia(
					"Formato de tema no estándar: %q", reg.Tema))
			}
			clave := claveSesion(docente, tema)
			if consumidos[clave] {
				continue
			}

			// 1. Ya existe una fila exacta: no se duplica.
			if f := filaExacta(roster, reg); f != nil {
				consumidos[clave] = true
				avisos = append(avisos, models.Info(
					"Sesión %d de %s (%s) ya estaba registrada para %s",
					tema.Numero, tema.Curso, tema.Seccion, docente))
				continue
			}

			// Mismo docente y curso pero sección desconocida: el
			// operador tiene que enterarse antes de que se cree nada.
			if enArchivo := seccionesEnArchivo(roster, docente, tema.Curso); len(enArchivo) > 0 {
				if !algunaSeccionCoincide(enArchivo, tema.Seccion) {
					avisos = append(avisos, models.Advertencia(
						"Sección %q del historial no figura para %s – %s (en archivo: %s)",
						tema.Seccion, docente, strings.TrimSpace(tema.Curso), strings.Join(enArchivo, ", ")))
				}
			}

			// 2. Autocompletar una fila incompleta del docente antes de
			// crear una nueva. Un tema sin número de sesión no sirve
			// acá: la fila quedaría incompleta y el próximo registro
			// la volvería a pisar.
			if f := filaIncompleta(roster, docente); f != nil && tema.Numero > 0 {
				f.Curso = strings.TrimSpace(tema.Curso)
				f.Seccion = tema.Seccion
				f.Sesion = tema.Numero
				completar(c, f, reg)
				consumidos[clave] = true
				resumen.SesionesCompletadas++
				avisos = append(avisos, models.Exito(
					"Fila incompleta de %s completada como %s (%s) sesión %d",
					docente, f.Curso, f.Seccion, f.Sesion))
				continue
			}

			// 3. Crear la fila desde el historial.
			nueva := roster.NuevaFila()
			nueva.Docente = docente
			nueva.Curso = strings.TrimSpace(tema.Curso)
			nueva.Seccion = tema.Seccion
			nueva.Sesion = tema.Numero
			completar(c, nueva, reg)
			roster.Filas = append(roster.Filas, nueva)
			consumidos[clave] = true
			resumen.SesionesCreadas++
			avisos = append(avisos, models.Exito(
				"Sesión creada desde el historial: %s – %s (%s) sesión %d",
				docente, nueva.Curso, nueva.Seccion, nueva.Sesion))
		}
	}

	return Resultado{Roster: roster, Avisos: avisos, Resumen: resumen}
}

// completar escribe en la fila los datos del registro, pero solo en las
// columnas que el roster realmente trae. El turno no se pisa si la fila
// ya tenía uno.
func completar(c models.Columnas, f *models.Fila, reg models.Registro) {
	if c.Fecha != "" {
		f.Fecha = temporal.ExtraerFecha(reg.Inicio)
	}
	if c.HoraInicio != "" {
		f.HoraInicio = temporal.ExtraerHora(reg.Inicio)
	}
	if c.HoraFin != "" {
		f.HoraFin = temporal.ExtraerHora(reg.Fin)
	}
	if c.Duracion != "" {
		f.Duracion = temporal.ExtraerDuracion(reg.Duracion)
	}
	if c.Turno != "" && f.Turno == "" {
		f.Turno = temporal.DetectarTurno(temporal.ExtraerHora(reg.Inicio))
	}
}

func avisosDegradados(seccion string, reg models.Registro, parcial, noEstandar bool) []models.Aviso {
	var avisos []models.Aviso
	if parcial {
		avisos = append(avisos, models.Advertencia(
			"Sección %q aceptada por coincidencia parcial con el tema %q: verificar", seccion, reg.Tema))
	}
	if noEstandar {
		avisos = append(avisos, models.Advertencia(
			"Formato de tema no estándar: %q", reg.Tema))
	}
	return avisos
}

// horaProgramada busca la hora programada de la fila: primero cualquier
// columna HORA ... PROG(RAMADA), después la hora de inicio común.
func horaProgramada(roster *models.Roster, f *models.Fila) string {
	for _, enc := range roster.Encabezados {
		up := strings.ToUpper(enc)
		if strings.Contains(up, "HORA") && strings.Contains(up, "PROG") {
			if v := f.Valor(roster.Columnas, enc); v != "" {
				return v
			}
		}
	}
	return f.HoraInicio
}

type cohorte struct {
	filas []*models.Fila
}

// agrupar junta las filas por (docente, curso, sección) normalizados,
// en orden ascendente del primer índice original de cada cohorte para
// que la salida sea estable respecto de la entrada.
func agrupar(filas []*models.Fila) ([]*cohorte, []*models.Fila) {
	var cohortes []*cohorte
	var sueltas []*models.Fila
	porClave := make(map[string]*cohorte)
	for _, f := range filas {
		if !f.TieneIdentidad() {
			sueltas = append(sueltas, f)
			continue
		}
		clave := normalizar.Docente(f.Docente) + "|" +
			normalizar.Curso(f.Curso) + "|" +
			normalizar.Seccion(f.Seccion)
		co, ok := porClave[clave]
		if !ok {
			co = &cohorte{}
			porClave[clave] = co
			cohortes = append(cohortes, co)
		}
		co.filas = append(co.filas, f)
	}
	return cohortes, sueltas
}

// sintetizar crea la fila faltante de una cohorte copiando de la
// primera fila la identidad, toda columna de hora programada y los
// metadatos fijos (modelo, modalidad, ciclo, periodo, aula, días y el
// turno si lo había).
func sintetizar(roster *models.Roster, base *models.Fila, n int) *models.Fila {
	c := roster.Columnas
	nueva := roster.NuevaFila()

	for _, enc := range roster.Encabezados {
		up := strings.ToUpper(enc)
		if strings.Contains(up, "HORA") && strings.Contains(up, "PROG") {
			nueva.Fijar(c, enc, base.Valor(c, enc))
		}
	}

	nueva.Docente = base.Docente
	nueva.Curso = base.Curso
	nueva.Seccion = base.Seccion
	nueva.Modelo = base.Modelo
	nueva.Modalidad = base.Modalidad
	nueva.Ciclo = base.Ciclo
	nueva.Periodo = base.Periodo
	nueva.Aula = base.Aula
	nueva.Dias = base.Dias
	if base.Turno != "" {
		nueva.Turno = base.Turno
	}
	// El aula puede venir duplicada bajo la clave original y la
	// mayúscula; lo que no resolvió a columna tipada vive en Extras.
	for k, v := range base.Extras {
		up := strings.ToUpper(k)
		if up == "AULA USS" || up == "AULA" {
			nueva.Fijar(c, k, v)
		}
	}
	nueva.Sesion = n
	return nueva
}

func docentesDelRoster(roster *models.Roster) []string {
	var docentes []string
	vistos := make(map[string]bool)
	for _, f := range roster.Filas {
		if f.Docente == "" {
			continue
		}
		nd := normalizar.Docente(f.Docente)
		if vistos[nd] {
			continue
		}
		vistos[nd] = true
		docentes = append(docentes, f.Docente)
	}
	return docentes
}

func claveSesion(docente string, tema emparejar.Tema) string {
	return normalizar.Docente(docente) + "|" +
		normalizar.Curso(tema.Curso) + "|" +
		normalizar.Seccion(tema.Seccion) + "|" +
		strconv.Itoa(tema.Numero)
}

func filaExacta(roster *models.Roster, reg models.Registro) *models.Fila {
	for _, f := range roster.Filas {
		if !f.TieneIdentidad() || f.Sesion <= 0 {
			continue
		}
		if coincide, _, _ := emparejar.EsMismaSesion(f, reg); coincide {
			return f
		}
	}
	return nil
}

func filaIncompleta(roster *models.Roster, docente string) *models.Fila {
	for _, f := range roster.Filas {
		if f.Docente == "" || !normalizar.DocentesCoinciden(docente, f.Docente) {
			continue
		}
		if f.Curso == "" || f.Seccion == "" || f.Sesion <= 0 {
			return f
		}
	}
	return nil
}

func seccionesEnArchivo(roster *models.Roster, docente, curso string) []string {
	var secciones []string
	vistos := make(map[string]bool)
	cursoNorm := normalizar.Curso(curso)
	for _, f := range roster.Filas {
		if f.Seccion == "" || f.Docente == "" {
			continue
		}
		if !normalizar.DocentesCoinciden(docente, f.Docente) || normalizar.Curso(f.Curso) != cursoNorm {
			continue
		}
		ns := normalizar.Seccion(f.Seccion)
		if vistos[ns] {
			continue
		}
		vistos[ns] = true
		secciones = append(secciones, f.Seccion)
	}
	return secciones
}

func algunaSeccionCoincide(secciones []string, seccion string) bool {
	for _, s := range secciones {
		if ok, _ := normalizar.SeccionesCoinciden(s, seccion); ok {
			return true
		}
	}
	return false
}
