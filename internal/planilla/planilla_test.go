package planilla

import (
	"strings"
	"testing"
	"time"
)

func celdasDeTextos(textos ...string) []Celda {
	fila := make([]Celda, len(textos))
	for i, t := range textos {
		if t != "" {
			fila[i] = Celda{Valor: t}
		}
	}
	return fila
}

func TestValorCeldaSesion(t *testing.T) {
	casos := []struct {
		celda    Celda
		esperado string
	}{
		{Celda{Valor: 3.0}, "3"},
		{Celda{Valor: 0.0}, "0"},
		{Celda{Valor: "7.0"}, "7"},
		{Celda{Valor: " 12 "}, "12"},
		{Celda{Valor: &ValorCompuesto{Formula: "A1+1", Resultado: 4.0}}, "4"},
	}
	for _, c := range casos {
		if got := ValorCelda(c.celda, "SESION"); got != c.esperado {
			t.Errorf("ValorCelda(%v, SESION) = %q, esperaba %q", c.celda.Valor, got, c.esperado)
		}
	}
}

func TestValorCeldaFechas(t *testing.T) {
	soloHora := time.Date(1899, 12, 31, 14, 30, 0, 0, time.UTC)
	if got := ValorCelda(Celda{Valor: soloHora}, "FECHA"); got != "14:30:00" {
		t.Errorf("centinela solo-hora devolvió %q", got)
	}
	fecha := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	if got := ValorCelda(Celda{Valor: fecha}, "FECHA"); got != "14/03/2024" {
		t.Errorf("fecha sin hora devolvió %q", got)
	}
	fechaHora := time.Date(2024, 3, 14, 9, 5, 0, 0, time.UTC)
	if got := ValorCelda(Celda{Valor: fechaHora}, "FECHA"); got != "14/03/2024 09:05:00" {
		t.Errorf("fecha con hora devolvió %q", got)
	}
}

func TestValorCeldaNumerico(t *testing.T) {
	if got := ValorCelda(Celda{Valor: 0.85, FormatoNum: "0%"}, "AVANCE"); got != "85%" {
		t.Errorf("porcentaje devolvió %q", got)
	}
	// Fracción de día sin formato de fecha: hora.
	if got := ValorCelda(Celda{Valor: 0.5}, "HORA INICIO"); got != "12:00:00" {
		t.Errorf("fracción de día devolvió %q", got)
	}
	// Serial de planilla plausible: fecha.
	if got := ValorCelda(Celda{Valor: 45365.0}, "FECHA"); got != "14/03/2024" {
		t.Errorf("serial de fecha devolvió %q", got)
	}
	// Número fuera de rango de serial: literal.
	if got := ValorCelda(Celda{Valor: 123456.0}, "X"); got != "123456" {
		t.Errorf("número grande devolvió %q", got)
	}
}

func TestValorCeldaObjetos(t *testing.T) {
	rico := &ValorCompuesto{TextoRico: []TramoRico{{Texto: "JUAN "}, {Texto: "PEREZ"}}}
	if got := ValorCelda(Celda{Valor: rico}, "DOCENTE"); got != "JUAN PEREZ" {
		t.Errorf("texto enriquecido devolvió %q", got)
	}
	enlace := &ValorCompuesto{Texto: "Ver grabación", Hipervinculo: "https://example.com"}
	if got := ValorCelda(Celda{Valor: enlace}, "LINK"); got != "Ver grabación" {
		t.Errorf("hipervínculo devolvió %q", got)
	}
	sinResultado := &ValorCompuesto{Formula: "SUM(A1:A4)"}
	if got := ValorCelda(Celda{Valor: sinResultado}, "X"); got != "=SUM(A1:A4)" {
		t.Errorf("fórmula sin resultado devolvió %q", got)
	}
	if got := ValorCelda(Celda{Valor: &ValorCompuesto{}}, "X"); got != "" {
		t.Errorf("objeto vacío devolvió %q", got)
	}
}

func TestValorCeldaTexto(t *testing.T) {
	if got := ValorCelda(Celda{Valor: "Sesión del 14/03/2024 por la tarde"}, "OBS"); got != "14/03/2024" {
		t.Errorf("fecha incrustada devolvió %q", got)
	}
	largo := strings.Repeat("a", 150)
	got := ValorCelda(Celda{Valor: largo}, "OBS")
	if len([]rune(got)) != 101 || !strings.HasSuffix(got, "…") {
		t.Errorf("texto largo no se recortó: %d runas", len([]rune(got)))
	}
	if got := ValorCelda(Celda{}, "X"); got != "" {
		t.Errorf("celda nula devolvió %q", got)
	}
}

func TestCargarDetectaEncabezadosSimples(t *testing.T) {
	hoja := Hoja{
		Nombre: "Programación",
		Celdas: [][]Celda{
			celdasDeTextos("DOCENTE", "CURSO", "SECCION", "SESION", "FECHA", "HORA INICIO"),
			celdasDeTextos("JUAN PEREZ", "Comunicación II", "PEAD-A1", "1", "", ""),
			celdasDeTextos("", "", "", "", "", ""),
		},
	}
	roster, avisos := Cargar(hoja)
	if len(avisos) != 0 {
		t.Fatalf("no esperaba avisos, got %v", avisos)
	}
	if len(roster.Filas) != 1 {
		t.Fatalf("esperaba 1 fila de datos, got %d", len(roster.Filas))
	}
	f := roster.Filas[0]
	if f.Docente != "JUAN PEREZ" || f.Curso != "Comunicación II" || f.Seccion != "PEAD-A1" || f.Sesion != 1 {
		t.Errorf("fila mal tipificada: %+v", f)
	}
}

func TestCargarMonitoreoPrefiereFilaConClaves(t *testing.T) {
	// La primera fila llena es un título repetido; la segunda trae los
	// encabezados reales. El desempate por palabras clave solo aplica a
	// las hojas de monitoreo.
	hoja := Hoja{
		Nombre: "Monitoreo 2024-I",
		Celdas: [][]Celda{
			celdasDeTextos("REPORTE", "GENERAL", "DEL", "PERIODO", "ACADEMICO", "2024"),
			celdasDeTextos("DOCENTE", "CURSO", "SECCION", "SESION", "FECHA", "HORA INICIO"),
			celdasDeTextos("ANA RIOS", "Inglés IV", "PEAD-B2", "2", "", ""),
		},
	}
	roster, _ := Cargar(hoja)
	if roster.Columnas.Docente != "DOCENTE" {
		t.Fatalf("no se resolvió la columna DOCENTE: %+v", roster.Columnas)
	}
	if len(roster.Filas) != 1 || roster.Filas[0].Docente != "ANA RIOS" {
		t.Errorf("datos mal leídos: %+v", roster.Filas)
	}
}

func TestCargarEncabezadoConHuecos(t *testing.T) {
	hoja := Hoja{
		Nombre: "Programación",
		Celdas: [][]Celda{
			celdasDeTextos("DOCENTE", "CURSO", "", "SECCION", "SESION", "FECHA", ""),
			celdasDeTextos("JUAN PEREZ", "Física", "x", "PEAD-C3", "4", "", ""),
		},
	}
	roster, _ := Cargar(hoja)
	esperados := []string{"DOCENTE", "CURSO", "COLUMNA_3", "SECCION", "SESION", "FECHA"}
	if len(roster.Encabezados) != len(esperados) {
		t.Fatalf("encabezados = %v", roster.Encabezados)
	}
	for i, e := range esperados {
		if roster.Encabezados[i] != e {
			t.Errorf("encabezado %d = %q, esperaba %q", i, roster.Encabezados[i], e)
		}
	}
}

func TestCargarSinEncabezadosUsaGenericos(t *testing.T) {
	hoja := Hoja{
		Nombre: "Hoja1",
		Celdas: [][]Celda{
			celdasDeTextos("", "", ""),
			celdasDeTextos("", "", ""),
		},
	}
	roster, avisos := Cargar(hoja)
	if len(avisos) == 0 {
		t.Fatal("esperaba un aviso de degradación")
	}
	if len(roster.Encabezados) != 20 {
		t.Fatalf("esperaba 20 encabezados genéricos, got %d", len(roster.Encabezados))
	}
	if roster.Encabezados[0] != "COLUMNA_1" {
		t.Errorf("primer encabezado genérico = %q", roster.Encabezados[0])
	}
}

func TestCargarFilaNoVaciaEnEscaneoExtendido(t *testing.T) {
	hoja := Hoja{
		Nombre: "Hoja1",
		Celdas: [][]Celda{
			celdasDeTextos("", "", ""),
			celdasDeTextos("", "solo esto", ""),
		},
	}
	roster, avisos := Cargar(hoja)
	if len(avisos) == 0 {
		t.Fatal("esperaba un aviso de degradación")
	}
	esperados := []string{"COLUMNA_1", "solo esto"}
	if len(roster.Encabezados) != 2 || roster.Encabezados[0] != esperados[0] || roster.Encabezados[1] != esperados[1] {
		t.Errorf("encabezados = %v", roster.Encabezados)
	}
}
