package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/bindvalue/bindvalue/internal/auth"
	"github.com/bindvalue/bindvalue/internal/build"
	"github.com/bindvalue/bindvalue/internal/session"
	"github.com/bindvalue/bindvalue/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	Title         string
	Authenticated bool
	User          *session.User // nil unless Authenticated
	Flash         *auth.Flash
	Version       string
}

// newBasePage builds layout data from the request's session state and
// consumes any pending flash message.
func newBasePage(r *http.Request, sm *scs.SessionManager, title string) BasePage {
	p := BasePage{Title: title, Version: build.Version}
	if u, ok := auth.StateFromContext(r.Context()).User(); ok {
		p.Authenticated = true
		p.User = &u
	}
	if sm != nil {
		p.Flash = auth.PopFlash(sm, r.Context())
	}
	return p
}

// pageCache maps a page file name (e.g. "dashboard.html") to a compiled
// template set containing base.html + partials + that one page file.
// Each page gets its own set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	var err error
	pageCache, err = parsePages(web.TemplateFS)
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}
	pages, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		cache[filepath.Base(p)] = t
	}
	return cache, nil
}

var funcs = template.FuncMap{
	"initials": func(name string) string {
		name = strings.TrimSpace(name)
		if name == "" {
			return "?"
		}
		return strings.ToUpper(string([]rune(name)[:1]))
	},
}

// render executes a full-page template (base layout + named page) with 200.
func render(w http.ResponseWriter, tmpl string, data any) {
	renderStatus(w, http.StatusOK, tmpl, data)
}

// renderStatus executes a full-page template with the given status code.
// The page is buffered so a template error still yields a clean 500.
func renderStatus(w http.ResponseWriter, status int, tmpl string, data any) {
	t, ok := pageCache[tmpl]
	if !ok {
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}
