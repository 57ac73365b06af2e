package inventory

import (
	"regexp"
	"time"
)

// classificationNamePattern: alphanumeric, no spaces or punctuation.
// Classification names become URL path segments and nav links.
var classificationNamePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,30}$`)

// firstProductionYear: nothing on a forecourt predates the Benz Patent-Motorwagen.
const firstProductionYear = 1886

// ValidateClassificationName returns a human-readable problem with the
// proposed name, or "" if it is acceptable.
func ValidateClassificationName(name string) string {
	if name == "" {
		return "Please provide a classification name."
	}
	if !classificationNamePattern.MatchString(name) {
		return "Classification name must be alphanumeric with no spaces."
	}
	return ""
}

// ValidateVehicle checks a vehicle's fields and returns a map of field name
// to problem message. An empty map means the vehicle is valid. The caller
// feeds the map straight back into the form template.
func ValidateVehicle(v *Vehicle) map[string]string {
	problems := make(map[string]string)

	if v.ClassificationID <= 0 {
		problems["classification_id"] = "Please choose a classification."
	}
	if v.Make == "" {
		problems["make"] = "Please provide a make."
	}
	if v.Model == "" {
		problems["model"] = "Please provide a model."
	}
	if v.Year < firstProductionYear || v.Year > time.Now().Year()+1 {
		problems["year"] = "Please provide a valid year."
	}
	if v.Price < 0 {
		problems["price"] = "Price cannot be negative."
	}
	if v.Miles < 0 {
		problems["miles"] = "Mileage cannot be negative."
	}
	if v.Colour == "" {
		problems["colour"] = "Please provide a colour."
	}

	return problems
}
