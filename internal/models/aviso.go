package models

import "fmt"

// TipoAviso clasifica los avisos que el motor emite durante una pasada.
// El llamador decide cómo mostrarlos (toast, log, panel).
type TipoAviso string

const (
	AvisoExito       TipoAviso = "exito"
	AvisoAdvertencia TipoAviso = "advertencia"
	AvisoInfo        TipoAviso = "info"
)

// Aviso es un evento estructurado dirigido al operador.
type Aviso struct {
	Tipo    TipoAviso `json:"tipo"`
	Mensaje string    `json:"mensaje"`
}

func Exito(formato string, args ...any) Aviso {
	return Aviso{Tipo: AvisoExito, Mensaje: fmt.Sprintf(formato, args...)}
}

func Advertencia(formato string, args ...any) Aviso {
	return Aviso{Tipo: AvisoAdvertencia, Mensaje: fmt.Sprintf(formato, args...)}
}

func Info(formato string, args ...any) Aviso {
	return Aviso{Tipo: AvisoInfo, Mensaje: fmt.Sprintf(formato, args...)}
}

// Resumen son los contadores que devuelve una pasada completa.
type Resumen struct {
	Cohortes            int `json:"cohortes"`
	SesionesCreadas     int `json:"sesiones_creadas"`
	SesionesCompletadas int `json:"sesiones_completadas"`
}
