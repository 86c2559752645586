package driver

import (
	"fmt"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/template"
)

// LighttpdFormat implements the Format interface for lighttpd host conditionals
type LighttpdFormat struct{}

const lighttpdSuffix = ".conf"

// Backend returns the backend name
func (LighttpdFormat) Backend() Backend {
	return Lighttpd
}

// ArtifactName returns "<domain>.conf"
func (LighttpdFormat) ArtifactName(d domain.Name) string {
	return d.String() + lighttpdSuffix
}

// DomainFromArtifact strips the .conf suffix
func (LighttpdFormat) DomainFromArtifact(name string) (domain.Name, bool) {
	return suffixedName(name, lighttpdSuffix)
}

// Render returns a $HTTP["host"] conditional setting server.document-root
func (LighttpdFormat) Render(d domain.Name, siteRoot string, _ RenderOptions) (string, error) {
	content, err := template.RenderSite(string(Lighttpd), template.SiteData{
		Domain: d.String(),
		Root:   siteRoot,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render lighttpd block: %w", err)
	}
	return content, nil
}

// init registers the lighttpd format
func init() {
	Register(LighttpdFormat{})
}
