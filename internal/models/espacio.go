package models

// Espacio es un espacio de trabajo de conciliación: un roster importado
// más su historial de reuniones acumulado, con el estado de la pasada.
type Espacio struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Estado string `json:"estado"`
	Creado string `json:"creado"`
}
