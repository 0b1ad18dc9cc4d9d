package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/usscentroinformatica/registro-docentes-sub000/internal/models"
)

type RosterRepository struct {
	DB *sql.DB
}

func NewRosterRepository(db *sql.DB) *RosterRepository {
	return &RosterRepository{DB: db}
}

func (r *RosterRepository) CreateEspacio(e models.Espacio) error {
	stmt, err := r.DB.Prepare("INSERT INTO espacios(id, nombre, estado, encabezados, creado) VALUES(?, ?, ?, '[]', ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(e.ID, e.Nombre, e.Estado, e.Creado)
	return err
}

func (r *RosterRepository) GetEspacio(id string) (models.Espacio, error) {
	var e models.Espacio
	err := r.DB.QueryRow("SELECT id, nombre, estado, COALESCE(creado, '') FROM espacios WHERE id = ?", id).
		Scan(&e.ID, &e.Nombre, &e.Estado, &e.Creado)
	return e, err
}

func (r *RosterRepository) GetAllEspacios() ([]models.Espacio, error) {
	rows, err := r.DB.Query("SELECT id, nombre, estado, COALESCE(creado, '') FROM espacios ORDER BY creado DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var espacios []models.Espacio
	for rows.Next() {
		var e models.Espacio
		if err := rows.Scan(&e.ID, &e.Nombre, &e.Estado, &e.Creado); err != nil {
			return nil, err
		}
		espacios = append(espacios, e)
	}
	return espacios, nil
}

func (r *RosterRepository) UpdateEstado(id, estado string) error {
	_, err := r.DB.Exec("UPDATE espacios SET estado = ? WHERE id = ?", estado, id)
	return err
}

func (r *RosterRepository) DeleteEspacio(id string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sesiones WHERE espacio_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM registros WHERE espacio_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM espacios WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveRoster reemplaza el roster completo del espacio. Se guarda entero
// en cada pasada: las sesiones no tienen identidad estable entre
// conciliaciones, así que no hay update incremental posible.
func (r *RosterRepository) SaveRoster(espacioID string, roster *models.Roster) error {
	encabezados, err := json.Marshal(roster.Encabezados)
	if err != nil {
		return err
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE espacios SET encabezados = ? WHERE id = ?", string(encabezados), espacioID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sesiones WHERE espacio_id = ?", espacioID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO sesiones(
		espacio_id, orden, docente, curso, seccion, sesion, fecha,
		hora_inicio, hora_fin, turno, duracion, aula, modalidad,
		ciclo, periodo, dias, modelo, extras
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for orden, f := range roster.Filas {
		extras := "{}"
		if len(f.Extras) > 0 {
			b, err := json.Marshal(f.Extras)
			if err != nil {
				return err
			}
			extras = string(b)
		}
		_, err = stmt.Exec(
			espacioID, orden, f.Docente, f.Curso, f.Seccion, f.Sesion, f.Fecha,
			f.HoraInicio, f.HoraFin, f.Turno, f.Duracion, f.Aula, f.Modalidad,
			f.Ciclo, f.Periodo, f.Dias, f.Modelo, extras,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRoster reconstruye el roster del espacio en el orden original.
// Devuelve nil sin error si el espacio todavía no tiene planilla cargada.
func (r *RosterRepository) GetRoster(espacioID string) (*models.Roster, error) {
	var encabezadosJSON string
	err := r.DB.QueryRow("SELECT encabezados FROM espacios WHERE id = ?", espacioID).Scan(&encabezadosJSON)
	if err != nil {
		return nil, err
	}
	var encabezados []string
	if err := json.Unmarshal([]byte(encabezadosJSON), &encabezados); err != nil {
		return nil, err
	}
	if len(encabezados) == 0 {
		return nil, nil
	}

	rows, err := r.DB.Query(`SELECT docente, curso, seccion, sesion, fecha,
		hora_inicio, hora_fin, turno, duracion, aula, modalidad,
		ciclo, periodo, dias, modelo, extras
		FROM sesiones WHERE espacio_id = ? ORDER BY orden ASC`, espacioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := &models.Roster{
		Encabezados: encabezados,
		Columnas:    models.ResolverColumnas(encabezados),
	}
	for rows.Next() {
		var f models.Fila
		var extras string
		err := rows.Scan(&f.Docente, &f.Curso, &f.Seccion, &f.Sesion, &f.Fecha,
			&f.HoraInicio, &f.HoraFin, &f.Turno, &f.Duracion, &f.Aula, &f.Modalidad,
			&f.Ciclo, &f.Periodo, &f.Dias, &f.Modelo, &extras)
		if err != nil {
			return nil, err
		}
		if extras != "" && extras != "{}" {
			if err := json.Unmarshal([]byte(extras), &f.Extras); err != nil {
				return nil, err
			}
		}
		roster.Filas = append(roster.Filas, &f)
	}
	return roster, rows.Err()
}
