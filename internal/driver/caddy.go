package driver

import (
	"fmt"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/template"
)

// CaddyFormat implements the Format interface for Caddyfile site blocks.
// Caddy imports every file in its sites directory, so artifacts carry no extension.
type CaddyFormat struct{}

// Backend returns the backend name
func (CaddyFormat) Backend() Backend {
	return Caddy
}

// ArtifactName returns the bare domain
func (CaddyFormat) ArtifactName(d domain.Name) string {
	return d.String()
}

// DomainFromArtifact accepts only a bare, valid domain name
func (CaddyFormat) DomainFromArtifact(name string) (domain.Name, bool) {
	return suffixedName(name, "")
}

// Render returns a site block on port 80 serving siteRoot
func (CaddyFormat) Render(d domain.Name, siteRoot string, _ RenderOptions) (string, error) {
	content, err := template.RenderSite(string(Caddy), template.SiteData{
		Domain: d.String(),
		Root:   siteRoot,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render caddy site block: %w", err)
	}
	return content, nil
}

// init registers the caddy format
func init() {
	Register(CaddyFormat{})
}
