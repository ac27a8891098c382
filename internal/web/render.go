package web

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin/render"

	"github.com/ppiankov/factdash/internal/view"
)

var htmlContentType = []string{"text/html; charset=utf-8"}

// htmlRender plugs the page renderer into gin's c.HTML
type htmlRender struct {
	renderer *view.Renderer
}

func (h htmlRender) Instance(name string, data any) render.Render {
	page, ok := data.(view.Page)
	if !ok {
		page = view.Page{Data: data}
	}
	return pageRender{renderer: h.renderer, name: name, page: page}
}

type pageRender struct {
	renderer *view.Renderer
	name     string
	page     view.Page
}

// Render executes the template into a buffer first so a failed render never
// leaves half a page on the wire.
func (p pageRender) Render(w http.ResponseWriter) error {
	p.WriteContentType(w)

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, p.name, p.page); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (p pageRender) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = htmlContentType
	}
}
