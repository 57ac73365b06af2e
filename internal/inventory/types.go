package inventory

import (
	"errors"
	"time"
)

// Classification is a named category owning zero or more vehicles.
type Classification struct {
	ID   int64  `json:"classification_id"`
	Name string `json:"name"`
}

// Vehicle is a single inventory row.
//
// ClassificationName is populated on reads that join the classifications
// table (list by classification); it is never written.
type Vehicle struct {
	ID                 int64     `json:"inv_id"`
	ClassificationID   int64     `json:"classification_id"`
	Make               string    `json:"make"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	Description        string    `json:"description"`
	Image              string    `json:"image"`
	Thumbnail          string    `json:"thumbnail"`
	Price              float64   `json:"price"`
	Miles              int       `json:"miles"`
	Colour             string    `json:"colour"`
	ClassificationName string    `json:"classification_name,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Default image paths used when a form leaves them blank.
const (
	DefaultImage     = "/images/no-image.png"
	DefaultThumbnail = "/images/no-image-tn.png"
)

// Sentinel errors for inventory operations.
var (
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrClassificationNotFound = errors.New("classification not found")
	ErrClassificationExists   = errors.New("classification already exists")
)
