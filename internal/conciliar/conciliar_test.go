package conciliar

import (
	"reflect"
	"strings"
	"testing"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
)

func rosterPrueba(t *testing.T, filas []map[string]string) *models.Roster {
	t.Helper()
	encabezados := []string{"DOCENTE", "CURSO", "SECCION", "SESION", "FECHA", "HORA INICIO", "HORA FIN", "TURNO", "DURACION"}
	return models.NuevoRoster(encabezados, filas)
}

func tieneAviso(avisos []models.Aviso, tipo models.TipoAviso, fragmento string) bool {
	for _, a := range avisos {
		if a.Tipo == tipo && strings.Contains(a.Mensaje, fragmento) {
			return true
		}
	}
	return false
}

func TestConciliarCompletaYSintetizaCohorte(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{
			"DOCENTE": "Maria Garcia Lopez",
			"CURSO":   "Intro to Python",
			"SECCION": "ad",
			"SESION":  "3",
		},
	})
	registros := []models.Registro{
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Intro to Python – PEAD-ad SESION 3",
			Inicio:    "January 5, 2024 2:30:00 PM",
			Fin:       "January 5, 2024 4:00:00 PM",
			Duracion:  "90",
		},
	}

	res := Conciliar(roster, registros)

	if len(res.Roster.Filas) != SesionesPorCohorte {
		t.Fatalf("filas = %d, se esperaban %d", len(res.Roster.Filas), SesionesPorCohorte)
	}
	for i, f := range res.Roster.Filas {
		if f.Sesion != i+1 {
			t.Errorf("fila %d: sesión %d, se esperaba %d", i, f.Sesion, i+1)
		}
		if f.Docente != "Maria Garcia Lopez" || f.Curso != "Intro to Python" || f.Seccion != "ad" {
			t.Errorf("fila %d perdió la identidad de la cohorte: %+v", i, f)
		}
	}

	f := res.Roster.Filas[2]
	if f.Fecha != "05/01/2024" {
		t.Errorf("Fecha = %q, se esperaba 05/01/2024", f.Fecha)
	}
	if f.HoraInicio != "2:30:00 PM" {
		t.Errorf("HoraInicio = %q", f.HoraInicio)
	}
	if f.HoraFin != "4:00:00 PM" {
		t.Errorf("HoraFin = %q", f.HoraFin)
	}
	if f.Duracion != "01:30:00" {
		t.Errorf("Duracion = %q, se esperaba 01:30:00", f.Duracion)
	}
	if f.Turno != "AFTERNOON" {
		t.Errorf("Turno = %q, se esperaba AFTERNOON", f.Turno)
	}

	if res.Resumen.Cohortes != 1 {
		t.Errorf("Cohortes = %d", res.Resumen.Cohortes)
	}
	if res.Resumen.SesionesCreadas != SesionesPorCohorte-1 {
		t.Errorf("SesionesCreadas = %d, se esperaban %d", res.Resumen.SesionesCreadas, SesionesPorCohorte-1)
	}
	if res.Resumen.SesionesCompletadas != 1 {
		t.Errorf("SesionesCompletadas = %d", res.Resumen.SesionesCompletadas)
	}
	if !tieneAviso(res.Avisos, models.AvisoExito, "Sesión 3") {
		t.Errorf("falta el aviso de éxito de la sesión 3: %+v", res.Avisos)
	}
}

func TestConciliarDescartaDuplicadosYFueraDeRango(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Juan Perez", "CURSO": "Calculo I", "SECCION": "b", "SESION": "1", "FECHA": "01/04/2024"},
		{"DOCENTE": "Juan Perez", "CURSO": "Calculo I", "SECCION": "b", "SESION": "1", "FECHA": "08/04/2024"},
		{"DOCENTE": "Juan Perez", "CURSO": "Calculo I", "SECCION": "b", "SESION": "20"},
	})

	res := Conciliar(roster, nil)

	if len(res.Roster.Filas) != SesionesPorCohorte {
		t.Fatalf("filas = %d, se esperaban %d", len(res.Roster.Filas), SesionesPorCohorte)
	}
	// La primera fila con sesión 1 gana; la duplicada y la fuera de
	// rango no sobreviven.
	if res.Roster.Filas[0].Fecha != "01/04/2024" {
		t.Errorf("la sesión 1 no conservó la primera fila: Fecha = %q", res.Roster.Filas[0].Fecha)
	}
	for _, f := range res.Roster.Filas {
		if f.Fecha == "08/04/2024" {
			t.Error("la fila duplicada de la sesión 1 sobrevivió")
		}
		if f.Sesion == 20 {
			t.Error("la fila fuera de rango sobrevivió")
		}
	}
}

func TestConciliarSinNumerosDeSesionAsumePrimera(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Ana Torres Diaz", "CURSO": "Fisica II", "SECCION": "c", "FECHA": "12/03/2024"},
	})

	res := Conciliar(roster, nil)

	if len(res.Roster.Filas) != SesionesPorCohorte {
		t.Fatalf("filas = %d", len(res.Roster.Filas))
	}
	if res.Roster.Filas[0].Sesion != 1 || res.Roster.Filas[0].Fecha != "12/03/2024" {
		t.Errorf("la fila original no quedó como sesión 1: %+v", res.Roster.Filas[0])
	}
	if !tieneAviso(res.Avisos, models.AvisoInfo, "se asumió como sesión 1") {
		t.Errorf("falta el aviso de la sesión asumida: %+v", res.Avisos)
	}
}

func TestConciliarProximidadHoraria(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{
			"DOCENTE":     "Juan Perez Garcia",
			"CURSO":       "Calculo I",
			"SECCION":     "b",
			"SESION":      "2",
			"HORA INICIO": "14:00",
		},
	})
	registros := []models.Registro{
		{
			Anfitrion: "PEREZ GARCIA JUAN",
			Tema:      "Reunion sin tema reconocible",
			Inicio:    "January 5, 2024 02:05:00 PM",
			Fin:       "January 5, 2024 03:35:00 PM",
			Duracion:  "90",
		},
	}

	res := Conciliar(roster, registros)

	f := res.Roster.Filas[1]
	if f.Sesion != 2 {
		t.Fatalf("la segunda fila no es la sesión 2: %+v", f)
	}
	if f.Fecha != "05/01/2024" {
		t.Errorf("Fecha = %q, se esperaba 05/01/2024", f.Fecha)
	}
	if f.HoraInicio != "02:05:00 PM" {
		t.Errorf("HoraInicio = %q", f.HoraInicio)
	}
	if !tieneAviso(res.Avisos, models.AvisoInfo, "proximidad horaria") {
		t.Errorf("falta el aviso de proximidad horaria: %+v", res.Avisos)
	}
}

func TestConciliarEsIdempotente(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Maria Garcia Lopez", "CURSO": "Intro to Python", "SECCION": "ad", "SESION": "3"},
		{"DOCENTE": "Juan Perez", "CURSO": "Calculo I", "SECCION": "b", "SESION": "1"},
	})
	registros := []models.Registro{
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Intro to Python – PEAD-ad SESION 3",
			Inicio:    "January 5, 2024 2:30:00 PM",
			Fin:       "January 5, 2024 4:00:00 PM",
			Duracion:  "90",
		},
	}

	primera := Conciliar(roster, registros)
	segunda := Conciliar(primera.Roster, registros)

	if !reflect.DeepEqual(primera.Roster.Registros(), segunda.Roster.Registros()) {
		t.Error("la segunda pasada modificó el roster")
	}
}

func TestConciliarMantieneFilasSinIdentidad(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Juan Perez", "CURSO": "Calculo I", "SECCION": "b", "SESION": "1"},
		{"FECHA": "01/04/2024"},
	})

	res := Conciliar(roster, nil)

	if len(res.Roster.Filas) != SesionesPorCohorte+1 {
		t.Fatalf("filas = %d", len(res.Roster.Filas))
	}
	ultima := res.Roster.Filas[SesionesPorCohorte]
	if ultima.Docente != "" || ultima.Fecha != "01/04/2024" {
		t.Errorf("la fila sin identidad no quedó intacta al final: %+v", ultima)
	}
}

func TestFusionarOmiteSesionYaRegistrada(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Maria Garcia Lopez", "CURSO": "Intro to Python", "SECCION": "ad", "SESION": "3"},
	})
	registros := []models.Registro{
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Intro to Python – PEAD-ad SESION 3",
			Inicio:    "January 5, 2024 2:30:00 PM",
			Fin:       "January 5, 2024 4:00:00 PM",
			Duracion:  "90",
		},
	}

	res := Fusionar(roster, registros)

	if len(res.Roster.Filas) != 1 {
		t.Fatalf("filas = %d, se esperaba 1", len(res.Roster.Filas))
	}
	if res.Resumen.SesionesCreadas != 0 || res.Resumen.SesionesCompletadas != 0 {
		t.Errorf("resumen inesperado: %+v", res.Resumen)
	}
	if !tieneAviso(res.Avisos, models.AvisoInfo, "ya estaba registrada") {
		t.Errorf("falta el aviso de sesión ya registrada: %+v", res.Avisos)
	}
}

func TestFusionarCreaSesionNueva(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Maria Garcia Lopez", "CURSO": "Intro to Python", "SECCION": "ad", "SESION": "1"},
	})
	registros := []models.Registro{
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Intro to Python – PEAD-ad SESION 5",
			Inicio:    "February 2, 2024 9:00:00 AM",
			Fin:       "February 2, 2024 10:30:00 AM",
			Duracion:  "90",
		},
	}

	res := Fusionar(roster, registros)

	if len(res.Roster.Filas) != 2 {
		t.Fatalf("filas = %d, se esperaban 2", len(res.Roster.Filas))
	}
	nueva := res.Roster.Filas[1]
	if nueva.Sesion != 5 || nueva.Curso != "Intro to Python" || nueva.Seccion != "PEAD-ad" {
		t.Errorf("fila creada inesperada: %+v", nueva)
	}
	if nueva.Fecha != "02/02/2024" || nueva.Turno != "MORNING" {
		t.Errorf("la fila creada no se completó: %+v", nueva)
	}
	if res.Resumen.SesionesCreadas != 1 {
		t.Errorf("SesionesCreadas = %d", res.Resumen.SesionesCreadas)
	}
}

func TestFusionarAdvierteSeccionDesconocida(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Maria Garcia Lopez", "CURSO": "Intro to Python", "SECCION": "ad", "SESION": "1"},
	})
	registros := []models.Registro{
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Intro to Python – PEAD-bx SESION 2",
			Inicio:    "February 2, 2024 9:00:00 AM",
			Fin:       "February 2, 2024 10:30:00 AM",
			Duracion:  "90",
		},
	}

	res := Fusionar(roster, registros)

	if !tieneAviso(res.Avisos, models.AvisoAdvertencia, "no figura") {
		t.Errorf("falta la advertencia de sección desconocida: %+v", res.Avisos)
	}
	if len(res.Roster.Filas) != 2 {
		t.Errorf("filas = %d, la sesión igual debía crearse", len(res.Roster.Filas))
	}
}

func TestFusionarCompletaFilaIncompleta(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Maria Garcia Lopez"},
	})
	registros := []models.Registro{
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Intro to Python – PEAD-ad SESION 2",
			Inicio:    "February 2, 2024 9:00:00 AM",
			Fin:       "February 2, 2024 10:30:00 AM",
			Duracion:  "90",
		},
	}

	res := Fusionar(roster, registros)

	if len(res.Roster.Filas) != 1 {
		t.Fatalf("filas = %d, no debía crearse ninguna", len(res.Roster.Filas))
	}
	f := res.Roster.Filas[0]
	if f.Curso != "Intro to Python" || f.Seccion != "PEAD-ad" || f.Sesion != 2 {
		t.Errorf("la fila incompleta no se completó: %+v", f)
	}
	if res.Resumen.SesionesCompletadas != 1 {
		t.Errorf("SesionesCompletadas = %d", res.Resumen.SesionesCompletadas)
	}
	if !tieneAviso(res.Avisos, models.AvisoExito, "completada") {
		t.Errorf("faltó el aviso de fila completada: %+v", res.Avisos)
	}
}

func TestFusionarNoCompletaConTemaSinNumero(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Maria Garcia Lopez"},
	})
	registros := []models.Registro{
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Intro to Python – PEAD-ad",
			Inicio:    "February 2, 2024 9:00:00 AM",
			Fin:       "February 2, 2024 10:30:00 AM",
			Duracion:  "90",
		},
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Intro to Python – PEAD-ad SESION 2",
			Inicio:    "February 9, 2024 9:00:00 AM",
			Fin:       "February 9, 2024 10:30:00 AM",
			Duracion:  "90",
		},
	}

	res := Fusionar(roster, registros)

	// El tema sin número crea su propia fila; la fila incompleta queda
	// reservada para el registro que sí afirma la sesión.
	if len(res.Roster.Filas) != 2 {
		t.Fatalf("filas = %d, se esperaban 2", len(res.Roster.Filas))
	}
	f := res.Roster.Filas[0]
	if f.Curso != "Intro to Python" || f.Seccion != "PEAD-ad" || f.Sesion != 2 {
		t.Errorf("la fila incompleta no se completó con la sesión 2: %+v", f)
	}
	if res.Resumen.SesionesCompletadas != 1 || res.Resumen.SesionesCreadas != 1 {
		t.Errorf("resumen inesperado: %+v", res.Resumen)
	}
}

func TestFusionarOmiteTemaIrreconocible(t *testing.T) {
	roster := rosterPrueba(t, []map[string]string{
		{"DOCENTE": "Maria Garcia Lopez", "CURSO": "Intro to Python", "SECCION": "ad", "SESION": "1"},
	})
	registros := []models.Registro{
		{
			Anfitrion: "GARCIA LOPEZ MARIA",
			Tema:      "Reunion de coordinacion",
			Inicio:    "February 2, 2024 9:00:00 AM",
			Fin:       "February 2, 2024 9:30:00 AM",
			Duracion:  "30",
		},
	}

	res := Fusionar(roster, registros)

	if len(res.Roster.Filas) != 1 {
		t.Errorf("filas = %d, no debía crearse ninguna", len(res.Roster.Filas))
	}
	if !tieneAviso(res.Avisos, models.AvisoAdvertencia, "omitido") {
		t.Errorf("falta la advertencia de tema omitido: %+v", res.Avisos)
	}
}
