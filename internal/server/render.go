package server

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"

	"dealsadmin/internal/domain"
	"dealsadmin/pkg/errcodes"
	"dealsadmin/pkg/httpx/reply"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutMain = "layouts/main"

// Pages renders the embedded HTML templates inside the main layout.
type Pages struct {
	engine *html.Engine
}

func NewPages() (*Pages, error) {
	root, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("fs.Sub: %w", err)
	}

	engine := html.NewFileSystem(http.FS(root), ".html")

	if err = engine.Load(); err != nil {
		return nil, fmt.Errorf("engine.Load: %w", err)
	}

	return &Pages{engine: engine}, nil
}

// Render executes the template into a buffer first so a failing template
// never leaves a half-written page.
func (p *Pages) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer

	if err := p.engine.Render(&buf, name, data, layoutMain); err != nil {
		return fmt.Errorf("engine.Render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("buf.WriteTo: %w", err)
	}

	return nil
}

func staticHandler() (http.Handler, error) {
	root, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("fs.Sub: %w", err)
	}

	return http.StripPrefix("/static/", http.FileServer(http.FS(root))), nil
}

// Renderer turns a view snapshot into a response. Both HTML views and the
// json view read the same store.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, page dealsPage) error
}

const (
	rendererList  = "list"
	rendererTable = "table"
	rendererJSON  = "json"
)

type templateRenderer struct {
	pages *Pages
	name  string
}

func (t templateRenderer) Render(w http.ResponseWriter, _ *http.Request, page dealsPage) error {
	return t.pages.Render(w, http.StatusOK, t.name, page)
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w http.ResponseWriter, r *http.Request, page dealsPage) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTDealsPage(page.snapshot))

	return nil
}

type renderers map[string]Renderer

func newRenderers(pages *Pages) renderers {
	return renderers{
		rendererList:  templateRenderer{pages: pages, name: "deals/list"},
		rendererTable: templateRenderer{pages: pages, name: "deals/table"},
		rendererJSON:  jsonRenderer{},
	}
}

// pick resolves ?view=, falling back to the view's default layout.
func (rs renderers) pick(requested, fallback string) (string, Renderer, error) {
	name := requested
	if name == "" {
		name = fallback
	}

	renderer, ok := rs[name]
	if !ok {
		return "", nil, domain.NewError(errcodes.InvalidView, fmt.Sprintf("Unknown view %q", requested))
	}

	return name, renderer, nil
}
