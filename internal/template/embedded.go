package template

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed nginx/*.tmpl caddy/*.tmpl lighttpd/*.tmpl
var siteTemplates embed.FS

//go:embed site/*.tmpl
var pageTemplates embed.FS

// siteTemplatePath returns the embedded fragment template for a backend
func siteTemplatePath(backend string) (string, error) {
	path := backend + "/site.tmpl"
	if _, err := fs.Stat(siteTemplates, path); err != nil {
		return "", fmt.Errorf("no template for backend: %s", backend)
	}
	return path, nil
}

// Backends returns the backend names that have an embedded fragment template
func Backends() []string {
	entries, err := siteTemplates.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
