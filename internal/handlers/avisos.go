package handlers

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // NOTA: En producción, validar el dominio aquí por seguridad
	},
}

// AvisosHub reparte los avisos de cada pasada de conciliación a los
// clientes suscriptos al espacio.
type AvisosHub struct {
	mu       sync.Mutex
	clientes map[string]map[*websocket.Conn]bool
}

func NewAvisosHub() *AvisosHub {
	return &AvisosHub{clientes: make(map[string]map[*websocket.Conn]bool)}
}

// HandleWebSocket suscribe la conexión a los avisos del espacio de la URL.
func (h *AvisosHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Failed to upgrade:", err)
		return
	}
	espacioID := c.Param("id")
	h.suscribir(espacioID, conn)
	defer h.desuscribir(espacioID, conn)

	// Loop de lectura: solo para detectar el cierre del cliente.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast envía los avisos a todos los suscriptores del espacio.
func (h *AvisosHub) Broadcast(espacioID string, avisos []models.Aviso) {
	if len(avisos) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clientes[espacioID] {
		for _, aviso := range avisos {
			if err := conn.WriteJSON(aviso); err != nil {
				log.Println("Write Error:", err)
				conn.Close()
				delete(h.clientes[espacioID], conn)
				break
			}
		}
	}
}

func (h *AvisosHub) suscribir(espacioID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clientes[espacioID] == nil {
		h.clientes[espacioID] = make(map[*websocket.Conn]bool)
	}
	h.clientes[espacioID][conn] = true
}

func (h *AvisosHub) desuscribir(espacioID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clientes[espacioID], conn)
	conn.Close()
}
