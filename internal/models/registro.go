package models

// Registro es una entrada del historial de reuniones exportado por la
// plataforma de videoconferencia. Nunca se muta después de creado.
type Registro struct {
	Anfitrion string `json:"anfitrion"`
	Tema      string `json:"tema"`
	Inicio    string `json:"inicio"`
	Fin       string `json:"fin"`
	Duracion  string `json:"duracion"` // minutos como entero o ya formateada
}

// Clave compone la llave de deduplicación entre cargas.
func (r Registro) Clave() string {
	return r.Anfitrion + "||" + r.Tema + "||" + r.Inicio + "||" + r.Fin
}
