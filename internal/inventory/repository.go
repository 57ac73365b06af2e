package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for inventory persistence.
type Repository interface {
	ListClassifications(ctx context.Context) ([]Classification, error)
	GetClassification(ctx context.Context, id int64) (*Classification, error)
	AddClassification(ctx context.Context, name string) (*Classification, error)

	ListByClassification(ctx context.Context, classificationID int64) ([]Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*Vehicle, error)
	AddVehicle(ctx context.Context, v *Vehicle) error
	UpdateVehicle(ctx context.Context, v *Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed inventory repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ListClassifications returns all classifications ordered by name.
func (r *SQLiteRepository) ListClassifications(ctx context.Context) ([]Classification, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT classification_id, name FROM classifications ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}
	defer rows.Close()

	var classifications []Classification
	for rows.Next() {
		var c Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning classification: %w", err)
		}
		classifications = append(classifications, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classifications: %w", err)
	}

	if classifications == nil {
		classifications = []Classification{}
	}
	return classifications, nil
}

// GetClassification retrieves a classification by id.
func (r *SQLiteRepository) GetClassification(ctx context.Context, id int64) (*Classification, error) {
	var c Classification
	err := r.db.QueryRowContext(ctx,
		"SELECT classification_id, name FROM classifications WHERE classification_id = ?", id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassificationNotFound
		}
		return nil, fmt.Errorf("scanning classification: %w", err)
	}
	return &c, nil
}

// AddClassification inserts a new classification and returns it with its
// generated id. A duplicate name surfaces as ErrClassificationExists.
func (r *SQLiteRepository) AddClassification(ctx context.Context, name string) (*Classification, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO classifications (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrClassificationExists
		}
		return nil, fmt.Errorf("adding classification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new classification id: %w", err)
	}
	return &Classification{ID: id, Name: name}, nil
}

const vehicleColumns = `i.inv_id, i.classification_id, i.make, i.model, i.year,
	i.description, i.image, i.thumbnail, i.price, i.miles, i.colour,
	i.created_at, i.updated_at`

// ListByClassification returns all vehicles in a classification, joined
// with the classification name, ordered by make and model. An unknown
// classification simply yields an empty slice.
func (r *SQLiteRepository) ListByClassification(ctx context.Context, classificationID int64) ([]Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+`, c.name
		 FROM inventory i
		 JOIN classifications c ON i.classification_id = c.classification_id
		 WHERE i.classification_id = ?
		 ORDER BY i.make, i.model`,
		classificationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows, true)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vehicles: %w", err)
	}

	if vehicles == nil {
		vehicles = []Vehicle{}
	}
	return vehicles, nil
}

// GetVehicle retrieves a single vehicle by id.
func (r *SQLiteRepository) GetVehicle(ctx context.Context, id int64) (*Vehicle, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM inventory i WHERE i.inv_id = ?`, id)

	v, err := scanVehicleRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

// AddVehicle inserts a new vehicle. The generated id is written back.
// A classification_id that references no classification surfaces as
// ErrClassificationNotFound via the foreign key constraint.
func (r *SQLiteRepository) AddVehicle(ctx context.Context, v *Vehicle) error {
	now := time.Now().UTC().Format(time.RFC3339)
	v.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	v.UpdatedAt = v.CreatedAt

	if v.Image == "" {
		v.Image = DefaultImage
	}
	if v.Thumbnail == "" {
		v.Thumbnail = DefaultThumbnail
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory (classification_id, make, model, year, description,
		   image, thumbnail, price, miles, colour, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ClassificationID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Colour, now, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrClassificationNotFound
		}
		return fmt.Errorf("adding vehicle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new vehicle id: %w", err)
	}
	v.ID = id

	return nil
}

// UpdateVehicle modifies all mutable fields of a vehicle row.
func (r *SQLiteRepository) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	now := time.Now().UTC().Format(time.RFC3339)
	v.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	result, err := r.db.ExecContext(ctx,
		`UPDATE inventory SET classification_id = ?, make = ?, model = ?, year = ?,
		   description = ?, image = ?, thumbnail = ?, price = ?, miles = ?,
		   colour = ?, updated_at = ?
		 WHERE inv_id = ?`,
		v.ClassificationID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Colour, now, v.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrClassificationNotFound
		}
		return fmt.Errorf("updating vehicle: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// DeleteVehicle removes a vehicle row by id.
func (r *SQLiteRepository) DeleteVehicle(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM inventory WHERE inv_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting vehicle: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanVehicle scans a vehicle from sql.Rows; withName includes the joined
// classification name as the trailing column.
func scanVehicle(rows *sql.Rows, withName bool) (*Vehicle, error) {
	return scanVehicleFrom(rows, withName)
}

// scanVehicleRow scans a vehicle (without the joined name) from sql.Row.
func scanVehicleRow(row *sql.Row) (*Vehicle, error) {
	return scanVehicleFrom(row, false)
}

func scanVehicleFrom(s scanner, withName bool) (*Vehicle, error) {
	var v Vehicle
	var createdAt, updatedAt string

	dest := []any{
		&v.ID, &v.ClassificationID, &v.Make, &v.Model, &v.Year,
		&v.Description, &v.Image, &v.Thumbnail, &v.Price, &v.Miles,
		&v.Colour, &createdAt, &updatedAt,
	}
	if withName {
		dest = append(dest, &v.ClassificationName)
	}

	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning vehicle: %w", err)
	}

	v.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	v.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &v, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation checks if a SQLite error is a FOREIGN KEY constraint violation.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
