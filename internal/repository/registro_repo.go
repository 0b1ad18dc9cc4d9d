package repository

import (
	"database/sql"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
)

type RegistroRepository struct {
	DB *sql.DB
}

func NewRegistroRepository(db *sql.DB) *RegistroRepository {
	return &RegistroRepository{DB: db}
}

// Save agrega registros del historial al espacio y devuelve cuántos
// eran realmente nuevos. El UNIQUE de la tabla hace la deduplicación
// entre cargas repetidas del mismo archivo.
func (r *RegistroRepository) Save(espacioID string, registros []models.Registro) (int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO registros(
		espacio_id, anfitrion, tema, inicio, fin, duracion
	) VALUES(?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	nuevos := 0
	for _, reg := range registros {
		res, err := stmt.Exec(espacioID, reg.Anfitrion, reg.Tema, reg.Inicio, reg.Fin, reg.Duracion)
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			nuevos++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return nuevos, nil
}

func (r *RegistroRepository) GetAll(espacioID string) ([]models.Registro, error) {
	rows, err := r.DB.Query(`SELECT anfitrion, tema, inicio, fin, duracion
		FROM registros WHERE espacio_id = ? ORDER BY id ASC`, espacioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registros []models.Registro
	for rows.Next() {
		var reg models.Registro
		if err := rows.Scan(&reg.Anfitrion, &reg.Tema, &reg.Inicio, &reg.Fin, &reg.Duracion); err != nil {
			return nil, err
		}
		registros = append(registros, reg)
	}
	return registros, rows.Err()
}

// DeleteAll vacía el historial acumulado del espacio.
func (r *RegistroRepository) DeleteAll(espacioID string) error {
	_, err := r.DB.Exec("DELETE FROM registros WHERE espacio_id = ?", espacioID)
	return err
}

func (r *RegistroRepository) Count(espacioID string) (int, error) {
	var n int
	err := r.DB.QueryRow("SELECT COUNT(*) FROM registros WHERE espacio_id = ?", espacioID).Scan(&n)
	return n, err
}
