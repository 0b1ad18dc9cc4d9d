package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/patrickmn/go-cache"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/conciliar"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/planilla"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/registro"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/repository"
)

// Estados del pipeline de un espacio de trabajo.
const (
	EstadoInicio            = "inicio"
	EstadoRosterCargado     = "roster_cargado"
	EstadoRegistrosCargados = "registros_cargados"
	EstadoConciliado        = "conciliado"
)

// EspacioSesion guarda la máquina de estados viva de cada espacio.
// El mutex serializa las pasadas: la conciliación trabaja sobre el
// roster completo y dos pasadas concurrentes se pisarían.
type EspacioSesion struct {
	ID  string
	FSM *fsm.FSM
	mu  sync.Mutex
}

// NuevaEspacioSesion arma la máquina de estados del pipeline partiendo
// del estado persistido del espacio.
func NuevaEspacioSesion(id, estado string) *EspacioSesion {
	session := &EspacioSesion{ID: id}

	session.FSM = fsm.NewFSM(
		estado,
		fsm.Events{
			// Recargar la planilla reinicia el pipeline desde cualquier punto.
			{Name: "cargar_planilla", Src: []string{EstadoInicio, EstadoRosterCargado, EstadoRegistrosCargados, EstadoConciliado}, Dst: EstadoRosterCargado},
			// El historial se puede seguir acumulando después de conciliar.
			{Name: "cargar_registros", Src: []string{EstadoRosterCargado, EstadoRegistrosCargados, EstadoConciliado}, Dst: EstadoRegistrosCargados},
			{Name: "conciliar", Src: []string{EstadoRegistrosCargados, EstadoConciliado}, Dst: EstadoConciliado},
			// Fusionar exige un roster ya conformado.
			{Name: "fusionar", Src: []string{EstadoConciliado}, Dst: EstadoConciliado},
			{Name: "purgar_registros", Src: []string{EstadoRegistrosCargados, EstadoConciliado}, Dst: EstadoRosterCargado},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Printf("Espacio %s: %s -> %s (%s)", id, e.Src, e.Dst, e.Event)
			},
		},
	)

	return session
}

type EspacioHandler struct {
	Rosters   *repository.RosterRepository
	Registros *repository.RegistroRepository
	Hub       *AvisosHub
	Sesiones  *cache.Cache
}

func NewEspacioHandler(rosters *repository.RosterRepository, registros *repository.RegistroRepository, hub *AvisosHub) *EspacioHandler {
	return &EspacioHandler{
		Rosters:   rosters,
		Registros: registros,
		Hub:       hub,
		Sesiones:  cache.New(2*time.Hour, 10*time.Minute),
	}
}

// sesion recupera la sesión viva del espacio o la reconstruye desde el
// estado persistido si expiró del cache.
func (h *EspacioHandler) sesion(id string) (*EspacioSesion, error) {
	if s, ok := h.Sesiones.Get(id); ok {
		return s.(*EspacioSesion), nil
	}
	e, err := h.Rosters.GetEspacio(id)
	if err != nil {
		return nil, err
	}
	session := NuevaEspacioSesion(e.ID, e.Estado)
	h.Sesiones.SetDefault(id, session)
	return session, nil
}

// avanzar dispara el evento del pipeline y persiste el estado nuevo.
// Un evento que deja la máquina en el mismo estado (segunda carga de
// registros, conciliar de nuevo, fusionar) no es un error del pipeline.
func (h *EspacioHandler) avanzar(s *EspacioSesion, evento string) error {
	if err := s.FSM.Event(context.Background(), evento); err != nil {
		var sinTransicion fsm.NoTransitionError
		if !errors.As(err, &sinTransicion) {
			return err
		}
	}
	return h.Rosters.UpdateEstado(s.ID, s.FSM.Current())
}

func (h *EspacioHandler) CreateEspacio(c *gin.Context) {
	var body struct {
		Nombre string `json:"nombre" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e := models.Espacio{
		ID:     uuid.NewString(),
		Nombre: body.Nombre,
		Estado: EstadoInicio,
		Creado: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Rosters.CreateEspacio(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.Sesiones.SetDefault(e.ID, NuevaEspacioSesion(e.ID, e.Estado))
	c.JSON(http.StatusCreated, e)
}

func (h *EspacioHandler) GetEspacios(c *gin.Context) {
	espacios, err := h.Rosters.GetAllEspacios()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"espacios": espacios})
}

func (h *EspacioHandler) GetEspacio(c *gin.Context) {
	e, err := h.Rosters.GetEspacio(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "espacio no encontrado"})
		return
	}
	total, _ := h.Registros.Count(e.ID)
	c.JSON(http.StatusOK, gin.H{"espacio": e, "registros": total})
}

func (h *EspacioHandler) DeleteEspacio(c *gin.Context) {
	id := c.Param("id")
	if err := h.Rosters.DeleteEspacio(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.Sesiones.Delete(id)
	c.JSON(http.StatusOK, gin.H{"eliminado": id})
}

/// hojaJSON es la forma de subida de la planilla: la grilla cruda de
// celdas tal como la entrega el lector del lado del cliente.
type hojaJSON struct {
	Nombre          string        `json:"nombre"`
	FilasReportadas int           `json:"filas_reportadas"`
	Celdas          [][]celdaJSON `json:"celdas"`
}

type celdaJSON struct {
	Valor      any    `json:"valor"`
	FormatoNum string `json:"formato_num"`
}

func (h *EspacioHandler) CargarPlanilla(c *gin.Context) {
	s, err := h.sesion(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "espacio no encontrado"})
		return
	}
	var body hojaJSON
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body.Celdas) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "planilla sin filas"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster, avisos := planilla.Cargar(convertirHoja(body))
	if err := h.avanzar(s, "cargar_planilla"); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := h.Rosters.SaveRoster(s.ID, roster); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.Hub.Broadcast(s.ID, avisos)
	c.JSON(http.StatusOK, gin.H{
		"estado":      s.FSM.Current(),
		"encabezados": roster.Encabezados,
		"filas":       len(roster.Filas),
		"avisos":      avisos,
	})
}

func (h *EspacioHandler) CargarRegistros(c *gin.Context) {
	s, err := h.sesion(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "espacio no encontrado"})
		return
	}
	texto, err := leerTextoSubido(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parseados, err := registro.Parsear(texto)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Dedup dentro del mismo archivo antes de tocar la base.
	acum := registro.NuevoAcumulador()
	acum.Agregar(parseados)

	if err := h.avanzar(s, "cargar_registros"); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	nuevos, err := h.Registros.Save(s.ID, acum.Registros())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, _ := h.Registros.Count(s.ID)
	c.JSON(http.StatusOK, gin.H{
		"estado": s.FSM.Current(),
		"nuevos": nuevos,
		"total":  total,
	})
}

// PurgarRegistros vacía el historial acumulado y devuelve el pipeline
// al estado de roster cargado.
func (h *EspacioHandler) PurgarRegistros(c *gin.Context) {
	s, err := h.sesion(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "espacio no encontrado"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := h.avanzar(s, "purgar_registros"); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := h.Registros.DeleteAll(s.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"estado": s.FSM.Current()})
}

func (h *EspacioHandler) Conciliar(c *gin.Context) {
	h.ejecutarPasada(c, "conciliar", conciliar.Conciliar)
}

func (h *EspacioHandler) Fusionar(c *gin.Context) {
	h.ejecutarPasada(c, "fusionar", conciliar.Fusionar)
}

func (h *EspacioHandler) ejecutarPasada(c *gin.Context, evento string, pasada func(*models.Roster, []models.Registro) conciliar.Resultado) {
	s, err := h.sesion(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "espacio no encontrado"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := h.Rosters.GetRoster(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if roster == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "el espacio no tiene planilla cargada"})
		return
	}
	registros, err := h.Registros.GetAll(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.avanzar(s, evento); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	res := pasada(roster, registros)
	if err := h.Rosters.SaveRoster(s.ID, res.Roster); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.Hub.Broadcast(s.ID, res.Avisos)
	c.JSON(http.StatusOK, gin.H{
		"estado":  s.FSM.Current(),
		"resumen": res.Resumen,
		"avisos":  res.Avisos,
		"filas":   len(res.Roster.Filas),
	})
}

func (h *EspacioHandler) GetRoster(c *gin.Context) {
	roster, err := h.Rosters.GetRoster(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "espacio no encontrado"})
		return
	}
	if roster == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "el espacio no tiene planilla cargada"})
		return
	}
	c.JSON(http.StatusOK, roster)
}

// ExportarCSV baja el roster como CSV con los encabezados originales.
func (h *EspacioHandler) ExportarCSV(c *gin.Context) {
	roster, err := h.Rosters.GetRoster(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "espacio no encontrado"})
		return
	}
	if roster == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "el espacio no tiene planilla cargada"})
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="roster.csv"`)
	w := csv.NewWriter(c.Writer)
	if err := w.WriteAll(roster.Exportar()); err != nil {
		log.Println("Error exportando CSV:", err)
	}
}

// leerTextoSubido acepta el historial como archivo multipart o como
// cuerpo crudo de la petición.
func leerTextoSubido(c *gin.Context) (string, error) {
	if fh, err := c.FormFile("archivo"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		datos, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}
		return string(datos), nil
	}
	datos, err := c.GetRawData()
	if err != nil {
		return "", err
	}
	return string(datos), nil
}

// convertirHoja pasa la grilla JSON a las celdas crudas del cargador.
func convertirHoja(h hojaJSON) planilla.Hoja {
	hoja := planilla.Hoja{Nombre: h.Nombre, FilasReportadas: h.FilasReportadas}
	for _, fila := range h.Celdas {
		celdas := make([]planilla.Celda, len(fila))
		for i, c := range fila {
			celdas[i] = planilla.Celda{Valor: convertirValor(c.Valor), FormatoNum: c.FormatoNum}
		}
		hoja.Celdas = append(hoja.Celdas, celdas)
	}
	return hoja
}

// convertirValor reconstruye las formas de objeto del lector a partir
// del JSON. Los strings con forma RFC3339 vuelven a ser fechas.
func convertirValor(v any) any {
	switch val := v.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return t
		}
		return val
	case map[string]any:
		compuesto := &planilla.ValorCompuesto{}
		if s, ok := val["texto"].(string); ok {
			compuesto.Texto = s
		}
		if s, ok := val["hipervinculo"].(string); ok {
			compuesto.Hipervinculo = s
		}
		if s, ok := val["formula"].(string); ok {
			compuesto.Formula = s
		}
		if r, ok := val["resultado"]; ok {
			compuesto.Resultado = convertirValor(r)
		}
		if r, ok := val["valor"]; ok {
			compuesto.Valor = convertirValor(r)
		}
		if tramos, ok := val["texto_rico"].([]any); ok {
			for _, t := range tramos {
				if m, ok := t.(map[string]any); ok {
					if s, ok := m["texto"].(string); ok {
						compuesto.TextoRico = append(compuesto.TextoRico, planilla.TramoRico{Texto: s})
					}
				}
			}
		}
		return compuesto
	default:
		return v
	}
}
