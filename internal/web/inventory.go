package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/forecourthq/forecourt/internal/inventory"
)

// handleHome renders the landing page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", &viewData{Title: "Home"})
}

// handleClassificationView lists the vehicles in one classification.
func (s *Server) handleClassificationView(w http.ResponseWriter, r *http.Request) {
	classificationID, err := strconv.ParseInt(chi.URLParam(r, "classificationID"), 10, 64)
	if err != nil {
		s.renderNotFound(w, r)
		return
	}

	classification, err := s.inventory.GetClassification(r.Context(), classificationID)
	if err != nil {
		if errors.Is(err, inventory.ErrClassificationNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("loading classification", "error", err, "classification_id", classificationID)
		s.renderServerError(w, r)
		return
	}

	vehicles, err := s.inventory.ListByClassification(r.Context(), classificationID)
	if err != nil {
		s.logger.Error("listing vehicles", "error", err, "classification_id", classificationID)
		s.renderServerError(w, r)
		return
	}

	s.render(w, r, http.StatusOK, "classification", &viewData{
		Title: classification.Name + " vehicles",
		Data:  vehicles,
	})
}

// handleVehicleDetail renders a single vehicle's detail page.
func (s *Server) handleVehicleDetail(w http.ResponseWriter, r *http.Request) {
	invID, err := strconv.ParseInt(chi.URLParam(r, "invID"), 10, 64)
	if err != nil {
		s.renderNotFound(w, r)
		return
	}

	vehicle, err := s.inventory.GetVehicle(r.Context(), invID)
	if err != nil {
		if errors.Is(err, inventory.ErrVehicleNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("loading vehicle", "error", err, "inv_id", invID)
		s.renderServerError(w, r)
		return
	}

	s.render(w, r, http.StatusOK, "detail", &viewData{
		Title: fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model),
		Data:  vehicle,
	})
}

// handleInventoryManagement renders the staff management page with its
// classification picker.
func (s *Server) handleInventoryManagement(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "inventory-management", &viewData{
		Title: "Vehicle Management",
	})
}

func (s *Server) handleAddClassificationView(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "add-classification", &viewData{
		Title: "Add New Classification",
	})
}

// handleAddClassification creates a classification. The nav is rebuilt on
// every render, so a successful add shows up site-wide immediately.
func (s *Server) handleAddClassification(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("classification_name")

	if msg := inventory.ValidateClassificationName(name); msg != "" {
		s.render(w, r, http.StatusUnprocessableEntity, "add-classification", &viewData{
			Title:  "Add New Classification",
			Errors: map[string]string{"classification_name": msg},
			Form:   map[string]string{"classification_name": name},
		})
		return
	}

	classification, err := s.inventory.AddClassification(r.Context(), name)
	if err != nil {
		if errors.Is(err, inventory.ErrClassificationExists) {
			s.render(w, r, http.StatusUnprocessableEntity, "add-classification", &viewData{
				Title:  "Add New Classification",
				Errors: map[string]string{"classification_name": "That classification already exists."},
				Form:   map[string]string{"classification_name": name},
			})
			return
		}
		s.logger.Error("adding classification", "error", err)
		s.renderServerError(w, r)
		return
	}

	s.hub.Broadcast(classificationAdded(classification))
	s.addFlash(w, r, fmt.Sprintf("The %s classification was successfully added.", classification.Name))
	http.Redirect(w, r, "/inv/", http.StatusSeeOther)
}

func (s *Server) handleAddVehicleView(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "add-inventory", &viewData{
		Title: "Add New Vehicle",
	})
}

// handleAddVehicle creates a vehicle from the add form.
func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle := parseVehicleForm(r)

	problems := inventory.ValidateVehicle(vehicle)
	if len(problems) > 0 {
		s.render(w, r, http.StatusUnprocessableEntity, "add-inventory", &viewData{
			Title:  "Add New Vehicle",
			Errors: problems,
			Form:   vehicleFormValues(vehicle),
		})
		return
	}

	if err := s.inventory.AddVehicle(r.Context(), vehicle); err != nil {
		if errors.Is(err, inventory.ErrClassificationNotFound) {
			s.render(w, r, http.StatusUnprocessableEntity, "add-inventory", &viewData{
				Title:  "Add New Vehicle",
				Errors: map[string]string{"classification_id": "Please choose a classification."},
				Form:   vehicleFormValues(vehicle),
			})
			return
		}
		s.logger.Error("adding vehicle", "error", err)
		s.renderServerError(w, r)
		return
	}

	s.hub.Broadcast(inventoryChanged(vehicle.ClassificationID))
	s.addFlash(w, r, fmt.Sprintf("The %s %s was successfully added.", vehicle.Make, vehicle.Model))
	http.Redirect(w, r, "/inv/", http.StatusSeeOther)
}

// handleEditVehicleView renders the edit form pre-filled from the stored
// vehicle.
func (s *Server) handleEditVehicleView(w http.ResponseWriter, r *http.Request) {
	invID, err := strconv.ParseInt(chi.URLParam(r, "invID"), 10, 64)
	if err != nil {
		s.renderNotFound(w, r)
		return
	}

	vehicle, err := s.inventory.GetVehicle(r.Context(), invID)
	if err != nil {
		if errors.Is(err, inventory.ErrVehicleNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("loading vehicle for edit", "error", err, "inv_id", invID)
		s.renderServerError(w, r)
		return
	}

	values := vehicleFormValues(vehicle)
	values["inv_id"] = strconv.FormatInt(vehicle.ID, 10)
	s.render(w, r, http.StatusOK, "edit-inventory", &viewData{
		Title: fmt.Sprintf("Edit %s %s", vehicle.Make, vehicle.Model),
		Form:  values,
	})
}

// handleUpdateVehicle applies the edit form.
func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle := parseVehicleForm(r)
	vehicle.ID, _ = strconv.ParseInt(r.PostFormValue("inv_id"), 10, 64)

	problems := inventory.ValidateVehicle(vehicle)
	if vehicle.ID <= 0 {
		problems["inv_id"] = "Missing vehicle identifier."
	}
	if len(problems) > 0 {
		values := vehicleFormValues(vehicle)
		values["inv_id"] = strconv.FormatInt(vehicle.ID, 10)
		s.render(w, r, http.StatusUnprocessableEntity, "edit-inventory", &viewData{
			Title:  fmt.Sprintf("Edit %s %s", vehicle.Make, vehicle.Model),
			Errors: problems,
			Form:   values,
		})
		return
	}

	if err := s.inventory.UpdateVehicle(r.Context(), vehicle); err != nil {
		if errors.Is(err, inventory.ErrVehicleNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("updating vehicle", "error", err, "inv_id", vehicle.ID)
		s.renderServerError(w, r)
		return
	}

	s.hub.Broadcast(inventoryChanged(vehicle.ClassificationID))
	s.addFlash(w, r, fmt.Sprintf("The %s %s was successfully updated.", vehicle.Make, vehicle.Model))
	http.Redirect(w, r, "/inv/", http.StatusSeeOther)
}

// handleDeleteVehicleView renders the delete confirmation page.
func (s *Server) handleDeleteVehicleView(w http.ResponseWriter, r *http.Request) {
	invID, err := strconv.ParseInt(chi.URLParam(r, "invID"), 10, 64)
	if err != nil {
		s.renderNotFound(w, r)
		return
	}

	vehicle, err := s.inventory.GetVehicle(r.Context(), invID)
	if err != nil {
		if errors.Is(err, inventory.ErrVehicleNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("loading vehicle for delete", "error", err, "inv_id", invID)
		s.renderServerError(w, r)
		return
	}

	s.render(w, r, http.StatusOK, "delete-confirm", &viewData{
		Title: fmt.Sprintf("Delete %s %s", vehicle.Make, vehicle.Model),
		Data:  vehicle,
	})
}

// handleDeleteVehicle removes a vehicle after confirmation.
func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	invID, err := strconv.ParseInt(r.PostFormValue("inv_id"), 10, 64)
	if err != nil {
		s.renderNotFound(w, r)
		return
	}

	vehicle, err := s.inventory.GetVehicle(r.Context(), invID)
	if err != nil {
		if errors.Is(err, inventory.ErrVehicleNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("loading vehicle for delete", "error", err, "inv_id", invID)
		s.renderServerError(w, r)
		return
	}

	if err := s.inventory.DeleteVehicle(r.Context(), invID); err != nil {
		if errors.Is(err, inventory.ErrVehicleNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("deleting vehicle", "error", err, "inv_id", invID)
		s.renderServerError(w, r)
		return
	}

	s.hub.Broadcast(inventoryChanged(vehicle.ClassificationID))
	s.addFlash(w, r, fmt.Sprintf("The %s %s was successfully deleted.", vehicle.Make, vehicle.Model))
	http.Redirect(w, r, "/inv/", http.StatusSeeOther)
}

// handleInventoryJSON feeds the management page's vehicle table.
//
// This endpoint always answers 200 with a JSON array. A malformed ID, an
// unknown classification or even a repository failure all degrade to an
// empty array; the table script treats every response as rows to render.
func (s *Server) handleInventoryJSON(w http.ResponseWriter, r *http.Request) {
	vehicles := []inventory.Vehicle{}

	classificationID, err := strconv.ParseInt(chi.URLParam(r, "classificationID"), 10, 64)
	if err == nil {
		listed, listErr := s.inventory.ListByClassification(r.Context(), classificationID)
		if listErr != nil {
			s.logger.Error("listing vehicles for JSON", "error", listErr, "classification_id", classificationID)
		} else {
			vehicles = listed
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(vehicles); err != nil {
		s.logger.Error("encoding inventory JSON", "error", err)
	}
}
