package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// flashCookieName carries one-shot notices across a redirect.
const flashCookieName = "forecourt_flash"

// addFlash queues a notice for the next rendered page. Notices accumulate
// within a single response so a handler can flash more than once.
func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, message string) {
	messages := readFlashes(r)
	messages = append(messages, message)

	encoded, err := encodeFlashes(messages)
	if err != nil {
		s.logger.Warn("failed to encode flash messages", "error", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   !s.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns queued notices and clears the flash cookie so each
// notice is shown exactly once.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []string {
	messages := readFlashes(r)
	if len(messages) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !s.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})

	return messages
}

func readFlashes(r *http.Request) []string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var messages []string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}

func encodeFlashes(messages []string) (string, error) {
	raw, err := json.Marshal(messages)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
