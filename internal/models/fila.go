package models

import "strconv"

// Fila representa una sesión programada del roster importado.
// Los campos conocidos van tipados; los encabezados que no reconocemos
// se conservan en Extras para no perderlos al re-exportar.
type Fila struct {
	Docente    string `json:"docente"`
	Curso      string `json:"curso"`
	Seccion    string `json:"seccion"`
	Sesion     int    `json:"sesion"` // 0 = sin número de sesión
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"hora_inicio"`
	HoraFin    string `json:"hora_fin"`
	Turno      string `json:"turno"`
	Duracion   string `json:"duracion"`
	Aula       string `json:"aula"`
	Modalidad  string `json:"modalidad"`
	Ciclo      string `json:"ciclo"`
	Periodo    string `json:"periodo"`
	Dias       string `json:"dias"`
	Modelo     string `json:"modelo"`

	Extras map[string]string `json:"extras,omitempty"`
}

// TieneIdentidad indica si la fila alcanza para agrupar en una cohorte.
func (f *Fila) TieneIdentidad() bool {
	return f.Docente != "" && f.Curso != "" && f.Seccion != ""
}

// Valor devuelve el contenido de la fila para un encabezado concreto,
// resolviendo primero contra las columnas tipadas y después contra Extras.
func (f *Fila) Valor(c Columnas, encabezado string) string {
	switch encabezado {
	case c.Docente:
		return f.Docente
	case c.Curso:
		return f.Curso
	case c.Seccion:
		return f.Seccion
	case c.Sesion:
		if f.Sesion > 0 {
			return strconv.Itoa(f.Sesion)
		}
		return ""
	case c.Fecha:
		return f.Fecha
	case c.HoraInicio:
		return f.HoraInicio
	case c.HoraFin:
		return f.HoraFin
	case c.Turno:
		return f.Turno
	case c.Duracion:
		return f.Duracion
	case c.Aula:
		return f.Aula
	case c.Modalidad:
		return f.Modalidad
	case c.Ciclo:
		return f.Ciclo
	case c.Periodo:
		return f.Periodo
	case c.Dias:
		return f.Dias
	case c.Modelo:
		return f.Modelo
	}
	return f.Extras[encabezado]
}

// Fijar escribe un valor bajo un encabezado concreto, con la misma
// resolución que Valor.
func (f *Fila) Fijar(c Columnas, encabezado, valor string) {
	switch encabezado {
	case "":
		return
	case c.Docente:
		f.Docente = valor
	case c.Curso:
		f.Curso = valor
	case c.Seccion:
		f.Seccion = valor
	case c.Sesion:
		n, _ := strconv.Atoi(valor)
		f.Sesion = n
	case c.Fecha:
		f.Fecha = valor
	case c.HoraInicio:
		f.HoraInicio = valor
	case c.HoraFin:
		f.HoraFin = valor
	case c.Turno:
		f.Turno = valor
	case c.Duracion:
		f.Duracion = valor
	case c.Aula:
		f.Aula = valor
	case c.Modalidad:
		f.Modalidad = valor
	case c.Ciclo:
		f.Ciclo = valor
	case c.Periodo:
		f.Periodo = valor
	case c.Dias:
		f.Dias = valor
	case c.Modelo:
		f.Modelo = valor
	default:
		if f.Extras == nil {
			f.Extras = make(map[string]string)
		}
		f.Extras[encabezado] = valor
	}
}

// Clonar devuelve una copia profunda de la fila.
func (f *Fila) Clonar() *Fila {
	copia := *f
	if f.Extras != nil {
		copia.Extras = make(map[string]string, len(f.Extras))
		for k, v := range f.Extras {
			copia.Extras[k] = v
		}
	}
	return &copia
}

// Roster es la lista de sesiones programadas más el orden original de
// encabezados, que hay que preservar al exportar.
type Roster struct {
	Encabezados []string `json:"encabezados"`
	Columnas    Columnas `json:"-"`
	Filas       []*Fila  `json:"filas"`
}

// NuevoRoster tipifica registros crudos (clave = encabezado) en filas.
func NuevoRoster(encabezados []string, registros []map[string]string) *Roster {
	r := &Roster{
		Encabezados: encabezados,
		Columnas:    ResolverColumnas(encabezados),
	}
	for _, reg := range registros {
		f := &Fila{}
		for _, enc := range encabezados {
			if v, ok := reg[enc]; ok && v != "" {
				f.Fijar(r.Columnas, enc, v)
			}
		}
		r.Filas = append(r.Filas, f)
	}
	return r
}

// NuevaFila crea una fila vacía compatible con los encabezados del roster.
func (r *Roster) NuevaFila() *Fila {
	return &Fila{Extras: make(map[string]string)}
}

// Clonar copia el roster completo. Las pasadas de conciliación trabajan
// siempre sobre una copia para no mutar la entrada del llamador.
func (r *Roster) Clonar() *Roster {
	copia := &Roster{
		Encabezados: append([]string(nil), r.Encabezados...),
		Columnas:    r.Columnas,
	}
	for _, f := range r.Filas {
		copia.Filas = append(copia.Filas, f.Clonar())
	}
	return copia
}

// Registros vuelca las filas a mapas clave=encabezado, en el orden original.
func (r *Roster) Registros() []map[string]string {
	var salida []map[string]string
	for _, f := range r.Filas {
		reg := make(map[string]string, len(r.Encabezados))
		for _, enc := range r.Encabezados {
			reg[enc] = f.Valor(r.Columnas, enc)
		}
		salida = append(salida, reg)
	}
	return salida
}

// Exportar produce la tabla completa (encabezados + datos) para CSV.
func (r *Roster) Exportar() [][]string {
	tabla := [][]string{append([]string(nil), r.Encabezados...)}
	for _, f := range r.Filas {
		fila := make([]string, len(r.Encabezados))
		for i, enc := range r.Encabezados {
			fila[i] = f.Valor(r.Columnas, enc)
		}
		tabla = append(tabla, fila)
	}
	return tabla
}
