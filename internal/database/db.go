package database

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// InitDB inicializa la conexión a la base de datos y crea las tablas si no existen
func InitDB(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	sqlStmt := `
	CREATE TABLE IF NOT EXISTS espacios (
		id TEXT PRIMARY KEY,
		nombre TEXT,
		estado TEXT,
		encabezados TEXT,
		creado TEXT
	);
	CREATE TABLE IF NOT EXISTS sesiones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		espacio_id TEXT,
		orden INTEGER,
		docente TEXT,
		curso TEXT,
		seccion TEXT,
		sesion INTEGER,
		fecha TEXT,
		hora_inicio TEXT,
		hora_fin TEXT,
		turno TEXT,
		duracion TEXT,
		aula TEXT,
		modalidad TEXT,
		ciclo TEXT,
		periodo TEXT,
		dias TEXT,
		modelo TEXT,
		extras TEXT,
		FOREIGN KEY(espacio_id) REFERENCES espacios(id)
	);
	CREATE TABLE IF NOT EXISTS registros (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		espacio_id TEXT,
		anfitrion TEXT,
		tema TEXT,
		inicio TEXT,
		fin TEXT,
		duracion TEXT,
		UNIQUE(espacio_id, anfitrion, tema, inicio, fin),
		FOREIGN KEY(espacio_id) REFERENCES espacios(id)
	);
	CREATE INDEX IF NOT EXISTS idx_sesiones_espacio ON sesiones(espacio_id, orden);
	CREATE INDEX IF NOT EXISTS idx_registros_espacio ON registros(espacio_id);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		log.Printf("%q: %s\n", err, sqlStmt)
		return nil, err
	}

	return db, nil
}
