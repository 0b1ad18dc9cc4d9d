package models

import "strings"

// Columnas guarda qué encabezado real respalda cada campo conocido del
// roster ("" si la planilla no trae esa columna). Se resuelve una sola
// vez por roster probando candidatos en orden fijo: el primero que
// aparece gana.
type Columnas struct {
	Docente    string
	Curso      string
	Seccion    string
	Sesion     string
	Fecha      string
	HoraInicio string
	HoraFin    string
	Turno      string
	Duracion   string
	Aula       string
	Modalidad  string
	Ciclo      string
	Periodo    string
	Dias       string
	Modelo     string
}

// Candidatos por campo. Las dos fuentes escriben los encabezados de
// formas distintas; el orden refleja la preferencia.
var (
	CandidatosDocente    = []string{"DOCENTE", "PROFESOR", "NOMBRE DOCENTE"}
	CandidatosCurso      = []string{"CURSO", "ASIGNATURA", "EXPERIENCIA CURRICULAR"}
	CandidatosSeccion    = []string{"SECCION", "SECCIÓN"}
	CandidatosSesion     = []string{"SESION", "SESIÓN", "N° SESION"}
	CandidatosFecha      = []string{"FECHA", "FECHA SESION", "FECHA DE SESION"}
	CandidatosHoraInicio = []string{"HORA INICIO", "HORA DE INICIO", "INICIO"}
	CandidatosHoraFin    = []string{"HORA FIN", "HORA DE FIN", "HORA FINAL", "FIN"}
	CandidatosTurno      = []string{"TURNO"}
	CandidatosDuracion   = []string{"DURACION", "DURACIÓN", "TIEMPO"}
	CandidatosAula       = []string{"AULA USS", "AULA"}
	CandidatosModalidad  = []string{"MODALIDAD"}
	CandidatosCiclo      = []string{"CICLO"}
	CandidatosPeriodo    = []string{"PERIODO", "PERÍODO"}
	CandidatosDias       = []string{"DIAS", "DÍAS", "DIA", "DÍA"}
	CandidatosModelo     = []string{"MODELO"}
)

// BuscarColumna devuelve el primer encabezado presente entre los
// candidatos, comparando sin distinguir mayúsculas. "" si ninguno existe.
func BuscarColumna(encabezados []string, candidatos ...string) string {
	for _, cand := range candidatos {
		for _, enc := range encabezados {
			if strings.EqualFold(strings.TrimSpace(enc), cand) {
				return enc
			}
		}
	}
	return ""
}

// ResolverColumnas mapea cada campo conocido al encabezado real.
func ResolverColumnas(encabezados []string) Columnas {
	return Columnas{
		Docente:    BuscarColumna(encabezados, CandidatosDocente...),
		Curso:      BuscarColumna(encabezados, CandidatosCurso...),
		Seccion:    BuscarColumna(encabezados, CandidatosSeccion...),
		Sesion:     BuscarColumna(encabezados, CandidatosSesion...),
		Fecha:      BuscarColumna(encabezados, CandidatosFecha...),
		HoraInicio: BuscarColumna(encabezados, CandidatosHoraInicio...),
		HoraFin:    BuscarColumna(encabezados, CandidatosHoraFin...),
		Turno:      BuscarColumna(encabezados, CandidatosTurno...),
		Duracion:   BuscarColumna(encabezados, CandidatosDuracion...),
		Aula:       BuscarColumna(encabezados, CandidatosAula...),
		Modalidad:  BuscarColumna(encabezados, CandidatosModalidad...),
		Ciclo:      BuscarColumna(encabezados, CandidatosCiclo...),
		Periodo:    BuscarColumna(encabezados, CandidatosPeriodo...),
		Dias:       BuscarColumna(encabezados, CandidatosDias...),
		Modelo:     BuscarColumna(encabezados, CandidatosModelo...),
	}
}
