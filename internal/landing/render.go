package landing

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sync"

	"bolao/internal/models"
)

// ResponseEffects collects the clipboard write and the confirmation dialog of
// a server-handled submission. The rendered page replays them in the browser.
type ResponseEffects struct {
	mu      sync.Mutex
	copied  string
	message string
}

func (e *ResponseEffects) WriteText(_ context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.copied = text
	return nil
}

func (e *ResponseEffects) Alert(message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.message = message
}

func (e *ResponseEffects) Copied() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copied
}

func (e *ResponseEffects) Message() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.message
}

// PageView is everything the landing template needs. SubmittedTitle is put
// back into the input by the browser when the clipboard write is rejected.
type PageView struct {
	Counters       models.CounterSnapshot
	Title          string
	TitleInvalid   bool
	SubmittedTitle string
	InviteCode     string
	Message        string
	Notice         string
}

func NewPageView(page *Page, effects *ResponseEffects) PageView {
	view := PageView{
		Counters: page.Counters.Current(),
		Title:    page.Form.Value(),
	}
	if effects != nil {
		view.InviteCode = effects.Copied()
		view.Message = effects.Message()
	}
	return view
}

type Renderer struct {
	templates *template.Template
}

// NewRenderer parses templates/*.html from assets.
func NewRenderer(assets fs.FS) (*Renderer, error) {
	templates, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse landing templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(w io.Writer, view PageView) error {
	return r.templates.ExecuteTemplate(w, "index.html", view)
}
