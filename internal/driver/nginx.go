package driver

import (
	"fmt"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/template"
)

// NginxFormat implements the Format interface for Nginx server blocks
type NginxFormat struct{}

// nginxSuffix is required on every file nginx includes from a conf.d directory
const nginxSuffix = ".conf"

// Backend returns the backend name
func (NginxFormat) Backend() Backend {
	return Nginx
}

// ArtifactName returns "<domain>.conf"
func (NginxFormat) ArtifactName(d domain.Name) string {
	return d.String() + nginxSuffix
}

// DomainFromArtifact strips the .conf suffix
func (NginxFormat) DomainFromArtifact(name string) (domain.Name, bool) {
	return suffixedName(name, nginxSuffix)
}

// Render returns a server block listening on opts.ListenPort
func (NginxFormat) Render(d domain.Name, siteRoot string, opts RenderOptions) (string, error) {
	content, err := template.RenderSite(string(Nginx), template.SiteData{
		Domain:     d.String(),
		Root:       siteRoot,
		ListenPort: opts.ListenPort,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render nginx server block: %w", err)
	}
	return content, nil
}

// init registers the nginx format
func init() {
	Register(NginxFormat{})
}
