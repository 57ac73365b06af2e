package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/forecourthq/forecourt/internal/auth"
	"github.com/forecourthq/forecourt/internal/inventory"
)

//go:embed templates static
var assets embed.FS

// views holds the parsed page templates, each one a clone of the shared
// layout with the page's content blocks attached.
type views struct {
	pages map[string]*template.Template
}

// viewData is the payload every template renders against.
type viewData struct {
	Title    string
	Identity *auth.Identity
	Nav      []inventory.Classification
	Notices  []string
	Errors   map[string]string
	Form     map[string]string
	Data     any
}

var templateFuncs = template.FuncMap{
	"usd":    formatUSD,
	"commas": formatCommas,
}

// parseViews loads the layout and every page template from the embedded
// filesystem. A page that fails to parse is a programming error and fails
// server construction.
func parseViews() (*views, error) {
	pages, err := fs.Glob(assets, "templates/pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("globbing page templates: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".tmpl")
		tmpl, err := template.New("layout.tmpl").Funcs(templateFuncs).
			ParseFS(assets, "templates/layout.tmpl", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		v.pages[name] = tmpl
	}

	return v, nil
}

// render writes a full page. The template executes into a buffer first so a
// mid-render failure produces a clean 500 instead of a torn page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data *viewData) {
	tmpl, ok := s.views.pages[page]
	if !ok {
		s.logger.Error("unknown page template", "page", page)
		s.renderServerError(w, r)
		return
	}

	if data == nil {
		data = &viewData{}
	}
	if id, ok := identityFromContext(r.Context()); ok {
		data.Identity = &id
	}
	if data.Nav == nil {
		data.Nav = s.nav(r)
	}
	data.Notices = append(s.popFlashes(w, r), data.Notices...)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.tmpl", data); err != nil {
		s.logger.Error("rendering page", "page", page, "error", err)
		s.renderServerError(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response is already committed
	w.Write(buf.Bytes())
}

// nav loads the classification list for the site navigation. A failure here
// degrades to an empty nav rather than taking the page down.
func (s *Server) nav(r *http.Request) []inventory.Classification {
	classifications, err := s.inventory.ListClassifications(r.Context())
	if err != nil {
		s.logger.Error("loading navigation classifications", "error", err)
		return []inventory.Classification{}
	}
	return classifications
}

// renderServerError writes the 500 page. It renders the error template
// directly, skipping nav and flash loading, because whatever broke the
// request may break those too.
func (s *Server) renderServerError(w http.ResponseWriter, _ *http.Request) {
	tmpl, ok := s.views.pages["error"]
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := &viewData{
		Title: "Server Error",
		Data:  "Oh no! There was a crash. Maybe try a different route?",
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.tmpl", data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	//nolint:errcheck // response is already committed
	w.Write(buf.Bytes())
}

// renderNotFound writes the 404 page.
func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", &viewData{
		Title: "404 Not Found",
		Data:  "Sorry, we appear to have lost that page.",
	})
}

// formatUSD renders a price the way the forecourt signage would,
// e.g. $24,999.
func formatUSD(price float64) string {
	return "$" + formatCommas(int(price+0.5))
}

// formatCommas inserts thousands separators into an integer.
func formatCommas(n int) string {
	if n < 0 {
		return "-" + formatCommas(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
