package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/database"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/handlers"
	"github.com/usscentroinformatica/registro-docentes-sub000/internal/repository"
)

func main() {
	// .env es opcional: en despliegue las variables vienen del entorno
	if err := godotenv.Load(); err != nil {
		log.Println("Sin archivo .env, usando variables de entorno")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./espacios.db"
	}

	// Inicializar Base de Datos
	db, err := database.InitDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Inicializar Repositorios
	rosterRepo := repository.NewRosterRepository(db)
	registroRepo := repository.NewRegistroRepository(db)

	// Inicializar Handlers
	hub := handlers.NewAvisosHub()
	espacioHandler := handlers.NewEspacioHandler(rosterRepo, registroRepo, hub)
	authHandler := handlers.NewAuthHandler()

	// Configurar Gin
	r := gin.Default()

	// Rutas de Autenticación
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// API de espacios de trabajo
	api := r.Group("/api")
	{
		api.POST("/espacios", espacioHandler.CreateEspacio)
		api.GET("/espacios", espacioHandler.GetEspacios)
		api.GET("/espacios/:id", espacioHandler.GetEspacio)

		api.POST("/espacios/:id/planilla", espacioHandler.CargarPlanilla)
		api.POST("/espacios/:id/registros", espacioHandler.CargarRegistros)
		api.POST("/espacios/:id/conciliar", espacioHandler.Conciliar)
		api.POST("/espacios/:id/fusionar", espacioHandler.Fusionar)

		api.GET("/espacios/:id/roster", espacioHandler.GetRoster)
		api.GET("/espacios/:id/roster.csv", espacioHandler.ExportarCSV)
		api.GET("/espacios/:id/avisos", hub.HandleWebSocket)
	}

	// Rutas Protegidas (borrado)
	protegido := r.Group("/api")
	protegido.Use(handlers.AuthMiddleware())
	{
		protegido.DELETE("/espacios/:id", espacioHandler.DeleteEspacio)
		protegido.DELETE("/espacios/:id/registros", espacioHandler.PurgarRegistros)
	}

	// Iniciar servidor
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
