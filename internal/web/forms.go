package web

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/forecourthq/forecourt/internal/auth"
	"github.com/forecourthq/forecourt/internal/inventory"
)

// minPasswordLength is the minimum acceptable password length.
const minPasswordLength = 12

// validatePassword checks the password policy and returns a problem
// message, or "" if the password is acceptable.
func validatePassword(password string) string {
	if len(password) < minPasswordLength {
		return "Password must be at least 12 characters."
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return "Password must contain an uppercase letter, a lowercase letter, a digit and a symbol."
	}
	return ""
}

// registrationForm carries the fields of the registration and account
// update forms.
type registrationForm struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func parseRegistrationForm(r *http.Request) registrationForm {
	return registrationForm{
		FirstName: strings.TrimSpace(r.PostFormValue("account_firstname")),
		LastName:  strings.TrimSpace(r.PostFormValue("account_lastname")),
		Email:     strings.ToLower(strings.TrimSpace(r.PostFormValue("account_email"))),
		Password:  r.PostFormValue("account_password"),
	}
}

// validate checks the profile fields shared by registration and account
// update. Password checks are separate because updates do not carry one.
func (f registrationForm) validate() map[string]string {
	problems := make(map[string]string)

	if f.FirstName == "" {
		problems["account_firstname"] = "Please provide a first name."
	}
	if f.LastName == "" {
		problems["account_lastname"] = "Please provide a last name."
	}
	if !auth.IsValidEmail(f.Email) {
		problems["account_email"] = "Please provide a valid email address."
	}

	return problems
}

// values returns the re-renderable form fields. The password is never
// echoed back.
func (f registrationForm) values() map[string]string {
	return map[string]string{
		"account_firstname": f.FirstName,
		"account_lastname":  f.LastName,
		"account_email":     f.Email,
	}
}

// parseVehicleForm reads a vehicle out of an add or edit submission.
// Unparseable numeric fields become zero values and fall to validation.
func parseVehicleForm(r *http.Request) *inventory.Vehicle {
	classificationID, _ := strconv.ParseInt(r.PostFormValue("classification_id"), 10, 64)
	year, _ := strconv.Atoi(r.PostFormValue("inv_year"))
	price, _ := strconv.ParseFloat(r.PostFormValue("inv_price"), 64)
	miles, _ := strconv.Atoi(r.PostFormValue("inv_miles"))

	return &inventory.Vehicle{
		ClassificationID: classificationID,
		Make:             strings.TrimSpace(r.PostFormValue("inv_make")),
		Model:            strings.TrimSpace(r.PostFormValue("inv_model")),
		Year:             year,
		Description:      strings.TrimSpace(r.PostFormValue("inv_description")),
		Image:            strings.TrimSpace(r.PostFormValue("inv_image")),
		Thumbnail:        strings.TrimSpace(r.PostFormValue("inv_thumbnail")),
		Price:            price,
		Miles:            miles,
		Colour:           strings.TrimSpace(r.PostFormValue("inv_colour")),
	}
}

// vehicleFormValues returns the re-renderable fields of a vehicle form.
func vehicleFormValues(v *inventory.Vehicle) map[string]string {
	return map[string]string{
		"classification_id": strconv.FormatInt(v.ClassificationID, 10),
		"inv_make":          v.Make,
		"inv_model":         v.Model,
		"inv_year":          strconv.Itoa(v.Year),
		"inv_description":   v.Description,
		"inv_image":         v.Image,
		"inv_thumbnail":     v.Thumbnail,
		"inv_price":         strconv.FormatFloat(v.Price, 'f', -1, 64),
		"inv_miles":         strconv.Itoa(v.Miles),
		"inv_colour":        v.Colour,
	}
}
