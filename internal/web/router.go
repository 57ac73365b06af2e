package web

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter assembles the route tree and middleware chain.
//
// Session verification runs on every route. The authenticated gate guards
// the account pages; the staff gate guards inventory management. The
// public catalogue pages and the registration and login forms sit outside
// both gates.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodyLimitMiddleware)
	r.Use(s.verifySessionMiddleware)

	r.NotFound(s.renderNotFound)

	r.Get("/", s.handleHome)

	static, err := fs.Sub(assets, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	r.Route("/account", func(r chi.Router) {
		r.Get("/login", s.handleLoginView)
		r.Post("/login", s.handleLogin)
		r.Get("/register", s.handleRegisterView)
		r.Post("/register", s.handleRegister)

		// Logout is ungated: it clears the cookie whether or not the
		// visitor still holds a valid session.
		r.Get("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuthenticated)
			r.Get("/", s.handleManagement)
			r.Get("/update/{accountID}", s.handleUpdateView)
			r.Post("/update", s.handleUpdate)
			r.Post("/update-password", s.handleUpdatePassword)
		})
	})

	r.Route("/inv", func(r chi.Router) {
		r.Get("/type/{classificationID}", s.handleClassificationView)
		r.Get("/detail/{invID}", s.handleVehicleDetail)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuthenticated)
			r.Use(s.requireStaff)
			r.Get("/", s.handleInventoryManagement)
			r.Get("/add-classification", s.handleAddClassificationView)
			r.Post("/add-classification", s.handleAddClassification)
			r.Get("/add-inventory", s.handleAddVehicleView)
			r.Post("/add-inventory", s.handleAddVehicle)
			r.Get("/edit/{invID}", s.handleEditVehicleView)
			r.Post("/update", s.handleUpdateVehicle)
			r.Get("/delete/{invID}", s.handleDeleteVehicleView)
			r.Post("/delete", s.handleDeleteVehicle)
			r.Get("/getInventory/{classificationID}", s.handleInventoryJSON)
			r.Get("/ws", s.handleLiveUpdates)
		})
	})

	return r
}
