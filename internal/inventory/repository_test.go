package inventory

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the inventory schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "inventory-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE classifications (
			classification_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name              TEXT NOT NULL UNIQUE
		) STRICT;

		CREATE TABLE inventory (
			inv_id            INTEGER PRIMARY KEY AUTOINCREMENT,
			classification_id INTEGER NOT NULL,
			make              TEXT NOT NULL,
			model             TEXT NOT NULL,
			year              INTEGER NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			image             TEXT NOT NULL DEFAULT '/images/no-image.png',
			thumbnail         TEXT NOT NULL DEFAULT '/images/no-image-tn.png',
			price             REAL NOT NULL,
			miles             INTEGER NOT NULL,
			colour            TEXT NOT NULL,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL,
			FOREIGN KEY (classification_id) REFERENCES classifications(classification_id)
		) STRICT;
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying inventory schema: %v", err)
	}

	return db
}

func seedClassification(t *testing.T, repo *SQLiteRepository, name string) *Classification {
	t.Helper()
	c, err := repo.AddClassification(context.Background(), name)
	if err != nil {
		t.Fatalf("AddClassification(%q): %v", name, err)
	}
	return c
}

func seedVehicle(t *testing.T, repo *SQLiteRepository, classificationID int64, make, model string) *Vehicle {
	t.Helper()
	v := &Vehicle{
		ClassificationID: classificationID,
		Make:             make,
		Model:            model,
		Year:             2020,
		Description:      "A tidy example.",
		Price:            19999.50,
		Miles:            30500,
		Colour:           "Blue",
	}
	if err := repo.AddVehicle(context.Background(), v); err != nil {
		t.Fatalf("AddVehicle(%s %s): %v", make, model, err)
	}
	return v
}

func TestClassifications_AddAndList(t *testing.T) {
	repo := NewRepository(testDB(t))

	seedClassification(t, repo, "SUV")
	seedClassification(t, repo, "Classic")

	classifications, err := repo.ListClassifications(context.Background())
	if err != nil {
		t.Fatalf("ListClassifications() error = %v", err)
	}
	if len(classifications) != 2 {
		t.Fatalf("len = %d, want 2", len(classifications))
	}
	// Ordered by name
	if classifications[0].Name != "Classic" || classifications[1].Name != "SUV" {
		t.Errorf("unexpected order: %+v", classifications)
	}
}

func TestAddClassification_Duplicate(t *testing.T) {
	repo := NewRepository(testDB(t))

	seedClassification(t, repo, "SUV")
	if _, err := repo.AddClassification(context.Background(), "SUV"); !errors.Is(err, ErrClassificationExists) {
		t.Errorf("AddClassification(dup) = %v, want ErrClassificationExists", err)
	}
}

func TestListByClassification(t *testing.T) {
	repo := NewRepository(testDB(t))

	suv := seedClassification(t, repo, "SUV")
	classic := seedClassification(t, repo, "Classic")
	seedVehicle(t, repo, suv.ID, "Land Rover", "Defender")
	seedVehicle(t, repo, suv.ID, "Ford", "Bronco")
	seedVehicle(t, repo, classic.ID, "Jaguar", "E-Type")

	vehicles, err := repo.ListByClassification(context.Background(), suv.ID)
	if err != nil {
		t.Fatalf("ListByClassification() error = %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("len = %d, want 2", len(vehicles))
	}
	// Ordered by make
	if vehicles[0].Make != "Ford" {
		t.Errorf("first make = %q, want Ford", vehicles[0].Make)
	}
	if vehicles[0].ClassificationName != "SUV" {
		t.Errorf("ClassificationName = %q, want SUV", vehicles[0].ClassificationName)
	}
}

func TestListByClassification_Empty(t *testing.T) {
	repo := NewRepository(testDB(t))

	empty := seedClassification(t, repo, "Empty")

	vehicles, err := repo.ListByClassification(context.Background(), empty.ID)
	if err != nil {
		t.Fatalf("ListByClassification() error = %v", err)
	}
	if vehicles == nil {
		t.Fatal("ListByClassification() should return an empty slice, not nil")
	}
	if len(vehicles) != 0 {
		t.Errorf("len = %d, want 0", len(vehicles))
	}

	// Unknown classification behaves the same way: empty, not an error.
	vehicles, err = repo.ListByClassification(context.Background(), 999)
	if err != nil {
		t.Fatalf("ListByClassification(999) error = %v", err)
	}
	if len(vehicles) != 0 {
		t.Errorf("len = %d for unknown classification, want 0", len(vehicles))
	}
}

func TestVehicle_AddGetUpdateDelete(t *testing.T) {
	repo := NewRepository(testDB(t))

	suv := seedClassification(t, repo, "SUV")
	v := seedVehicle(t, repo, suv.ID, "Land Rover", "Defender")
	if v.ID == 0 {
		t.Fatal("AddVehicle() should assign a positive id")
	}
	if v.Image != DefaultImage || v.Thumbnail != DefaultThumbnail {
		t.Errorf("blank image paths should default, got %q / %q", v.Image, v.Thumbnail)
	}

	got, err := repo.GetVehicle(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("GetVehicle() error = %v", err)
	}
	if got.Make != "Land Rover" || got.Model != "Defender" {
		t.Errorf("GetVehicle() = %+v", got)
	}

	got.Price = 24750
	got.Colour = "Green"
	if err := repo.UpdateVehicle(context.Background(), got); err != nil {
		t.Fatalf("UpdateVehicle() error = %v", err)
	}

	updated, err := repo.GetVehicle(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("GetVehicle() error = %v", err)
	}
	if updated.Price != 24750 || updated.Colour != "Green" {
		t.Errorf("update not persisted: %+v", updated)
	}

	if err := repo.DeleteVehicle(context.Background(), v.ID); err != nil {
		t.Fatalf("DeleteVehicle() error = %v", err)
	}
	if _, err := repo.GetVehicle(context.Background(), v.ID); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("GetVehicle() after delete = %v, want ErrVehicleNotFound", err)
	}
}

func TestVehicle_NotFound(t *testing.T) {
	repo := NewRepository(testDB(t))

	if _, err := repo.GetVehicle(context.Background(), 42); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("GetVehicle() = %v, want ErrVehicleNotFound", err)
	}
	if err := repo.DeleteVehicle(context.Background(), 42); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("DeleteVehicle() = %v, want ErrVehicleNotFound", err)
	}
	if err := repo.UpdateVehicle(context.Background(), &Vehicle{ID: 42, ClassificationID: 1}); err == nil {
		t.Error("UpdateVehicle() of missing row should fail")
	}
}

func TestAddVehicle_UnknownClassification(t *testing.T) {
	repo := NewRepository(testDB(t))

	v := &Vehicle{
		ClassificationID: 999,
		Make:             "Ford",
		Model:            "Bronco",
		Year:             2021,
		Price:            30000,
		Miles:            1000,
		Colour:           "Red",
	}
	if err := repo.AddVehicle(context.Background(), v); !errors.Is(err, ErrClassificationNotFound) {
		t.Errorf("AddVehicle() with bad classification = %v, want ErrClassificationNotFound", err)
	}
}
