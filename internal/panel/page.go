package panel

import (
	"embed"
	"html/template"
	"io"
	"net/url"

	"github.com/ksyq12/dottux/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Flash kinds
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-shot message carried through the post/redirect/get cycle
type Flash struct {
	Kind    string
	Message string
}

// pageData is the view model of the index page
type pageData struct {
	Backend    string
	ListenPort int
	Domains    []domain.Name
	ListError  string
	Flash      *Flash
}

func renderIndex(w io.Writer, data pageData) error {
	return indexTemplate.Execute(w, data)
}

// flashURL builds the redirect target carrying a flash message
func flashURL(kind, message string) string {
	q := url.Values{}
	q.Set("kind", kind)
	q.Set("msg", message)
	return "/?" + q.Encode()
}

// flashFromQuery reads the flash message, if any, from a redirect target
func flashFromQuery(q url.Values) *Flash {
	msg := q.Get("msg")
	if msg == "" {
		return nil
	}
	kind := q.Get("kind")
	if kind != FlashSuccess {
		kind = FlashDanger
	}
	return &Flash{Kind: kind, Message: msg}
}
