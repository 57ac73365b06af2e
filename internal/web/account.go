package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/forecourthq/forecourt/internal/auth"
)

// loginFailedMessage is shown for every login failure. Unknown email and
// wrong password produce identical responses so the form cannot be used to
// probe which addresses hold accounts.
const loginFailedMessage = "Please check your credentials and try again."

func (s *Server) handleLoginView(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", &viewData{Title: "Login"})
}

func (s *Server) handleRegisterView(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", &viewData{Title: "Register"})
}

// handleRegister creates a new customer account. A freshly registered
// visitor is not logged in automatically; they land on the login page and
// prove their password works.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	form := parseRegistrationForm(r)

	problems := form.validate()
	if msg := validatePassword(form.Password); msg != "" {
		problems["account_password"] = msg
	}
	if len(problems) == 0 {
		exists, err := s.accounts.EmailExists(r.Context(), form.Email)
		if err != nil {
			s.logger.Error("checking email availability", "error", err)
			s.renderServerError(w, r)
			return
		}
		if exists {
			problems["account_email"] = "That email address is already registered. Please log in or use a different email."
		}
	}
	if len(problems) > 0 {
		s.render(w, r, http.StatusUnprocessableEntity, "register", &viewData{
			Title:  "Register",
			Errors: problems,
			Form:   form.values(),
		})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		s.render(w, r, http.StatusInternalServerError, "register", &viewData{
			Title:   "Register",
			Notices: []string{"Sorry, there was an error processing the registration."},
			Form:    form.values(),
		})
		return
	}

	account := &auth.Account{
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: hash,
		Role:         auth.RoleCustomer,
	}
	if err := s.accounts.Create(r.Context(), account); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			// Lost the race with a concurrent registration for the same email.
			s.render(w, r, http.StatusUnprocessableEntity, "register", &viewData{
				Title:  "Register",
				Errors: map[string]string{"account_email": "That email address is already registered."},
				Form:   form.values(),
			})
			return
		}
		s.logger.Error("creating account", "error", err)
		s.render(w, r, http.StatusInternalServerError, "register", &viewData{
			Title:   "Register",
			Notices: []string{"Sorry, the registration failed."},
			Form:    form.values(),
		})
		return
	}

	s.logger.Info("account registered", "account_id", account.ID)
	s.render(w, r, http.StatusCreated, "login", &viewData{
		Title:   "Login",
		Notices: []string{fmt.Sprintf("Congratulations, you're registered %s. Please log in.", account.FirstName)},
	})
}

// handleLogin verifies credentials and establishes a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("account_email")))
	password := r.PostFormValue("account_password")

	failLogin := func() {
		s.render(w, r, http.StatusBadRequest, "login", &viewData{
			Title:   "Login",
			Notices: []string{loginFailedMessage},
			Form:    map[string]string{"account_email": email},
		})
	}

	if !auth.IsValidEmail(email) || password == "" {
		failLogin()
		return
	}

	account, err := s.accounts.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			failLogin()
			return
		}
		s.logger.Error("loading account for login", "error", err)
		s.renderServerError(w, r)
		return
	}

	if !auth.VerifyPassword(password, account.PasswordHash) {
		failLogin()
		return
	}

	token, err := s.codec.Issue(account.Identity())
	if err != nil {
		s.logger.Error("issuing session token", "error", err)
		s.renderServerError(w, r)
		return
	}

	s.setSessionCookie(w, token)
	s.logger.Info("login", "account_id", account.ID, "role", account.Role)
	http.Redirect(w, r, "/account/", http.StatusSeeOther)
}

// handleManagement renders the account management page.
func (s *Server) handleManagement(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())
	s.render(w, r, http.StatusOK, "account-management", &viewData{
		Title: "Account Management",
		Data:  id,
	})
}

// handleUpdateView renders the account update form, pre-filled from the
// stored account. Accounts are strictly self-service, so a mismatched path
// ID bounces back to the management page even for administrators.
func (s *Server) handleUpdateView(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil || targetID != identity.AccountID {
		s.addFlash(w, r, "You can only update your own account.")
		http.Redirect(w, r, "/account/", http.StatusSeeOther)
		return
	}

	account, err := s.accounts.GetByID(r.Context(), targetID)
	if err != nil {
		s.logger.Error("loading account for update", "error", err, "account_id", targetID)
		s.renderServerError(w, r)
		return
	}

	s.render(w, r, http.StatusOK, "account-update", &viewData{
		Title: "Update Account",
		Form: map[string]string{
			"account_id":        strconv.FormatInt(account.ID, 10),
			"account_firstname": account.FirstName,
			"account_lastname":  account.LastName,
			"account_email":     account.Email,
		},
	})
}

// handleUpdate applies profile changes and reissues the session token so
// the navigation greeting reflects the new name immediately.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	targetID, err := strconv.ParseInt(r.PostFormValue("account_id"), 10, 64)
	if err != nil || targetID != identity.AccountID {
		s.addFlash(w, r, "You can only update your own account.")
		http.Redirect(w, r, "/account/", http.StatusSeeOther)
		return
	}

	form := parseRegistrationForm(r)
	problems := form.validate()
	if len(problems) == 0 && form.Email != identity.Email {
		exists, err := s.accounts.EmailExists(r.Context(), form.Email)
		if err != nil {
			s.logger.Error("checking email availability", "error", err)
			s.renderServerError(w, r)
			return
		}
		if exists {
			problems["account_email"] = "That email address is already in use."
		}
	}
	if len(problems) > 0 {
		values := form.values()
		values["account_id"] = strconv.FormatInt(targetID, 10)
		s.render(w, r, http.StatusUnprocessableEntity, "account-update", &viewData{
			Title:  "Update Account",
			Errors: problems,
			Form:   values,
		})
		return
	}

	account, err := s.accounts.GetByID(r.Context(), targetID)
	if err != nil {
		s.logger.Error("loading account for update", "error", err, "account_id", targetID)
		s.renderServerError(w, r)
		return
	}

	account.FirstName = form.FirstName
	account.LastName = form.LastName
	account.Email = form.Email
	if err := s.accounts.Update(r.Context(), account); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			values := form.values()
			values["account_id"] = strconv.FormatInt(targetID, 10)
			s.render(w, r, http.StatusUnprocessableEntity, "account-update", &viewData{
				Title:  "Update Account",
				Errors: map[string]string{"account_email": "That email address is already in use."},
				Form:   values,
			})
			return
		}
		s.logger.Error("updating account", "error", err, "account_id", targetID)
		s.renderServerError(w, r)
		return
	}

	// The token embeds the profile, so a stale one would keep greeting the
	// visitor by their old name until it expired.
	token, err := s.codec.Issue(account.Identity())
	if err != nil {
		s.logger.Error("reissuing session token", "error", err, "account_id", targetID)
		s.renderServerError(w, r)
		return
	}
	s.setSessionCookie(w, token)

	s.addFlash(w, r, "Account information updated successfully.")
	http.Redirect(w, r, "/account/", http.StatusSeeOther)
}

// handleUpdatePassword replaces the account password. The session token is
// left alone; it carries no password material, so there is nothing stale to
// refresh.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	targetID, err := strconv.ParseInt(r.PostFormValue("account_id"), 10, 64)
	if err != nil || targetID != identity.AccountID {
		s.addFlash(w, r, "You can only update your own account.")
		http.Redirect(w, r, "/account/", http.StatusSeeOther)
		return
	}

	password := r.PostFormValue("account_password")
	if msg := validatePassword(password); msg != "" {
		s.render(w, r, http.StatusUnprocessableEntity, "account-update", &viewData{
			Title:  "Update Account",
			Errors: map[string]string{"account_password": msg},
			Form: map[string]string{
				"account_id":        strconv.FormatInt(targetID, 10),
				"account_firstname": identity.FirstName,
				"account_lastname":  identity.LastName,
				"account_email":     identity.Email,
			},
		})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		s.renderServerError(w, r)
		return
	}

	if err := s.accounts.UpdatePassword(r.Context(), targetID, hash); err != nil {
		s.logger.Error("updating password", "error", err, "account_id", targetID)
		s.renderServerError(w, r)
		return
	}

	s.logger.Info("password updated", "account_id", targetID)
	s.addFlash(w, r, "Password updated successfully.")
	http.Redirect(w, r, "/account/", http.StatusSeeOther)
}

// handleLogout ends the session and returns to the home page.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	s.addFlash(w, r, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
