package driver

import (
	"github.com/ksyq12/dottux/internal/domain"
)

// MockFormat is a test double for the Format interface
type MockFormat struct {
	Name   Backend
	Suffix string

	// Function mocks - set these to customize behavior
	RenderFunc func(d domain.Name, siteRoot string, opts RenderOptions) (string, error)

	// Call tracking - check these to verify interactions
	RenderCalls []RenderCall
}

// RenderCall records arguments passed to Render
type RenderCall struct {
	Domain   domain.Name
	SiteRoot string
	Opts     RenderOptions
}

// NewMockFormat creates a MockFormat whose artifacts are named "<domain><suffix>"
func NewMockFormat(name Backend, suffix string) *MockFormat {
	return &MockFormat{
		Name:        name,
		Suffix:      suffix,
		RenderCalls: make([]RenderCall, 0),
	}
}

// Backend returns the mock backend name
func (m *MockFormat) Backend() Backend {
	return m.Name
}

// ArtifactName appends the configured suffix
func (m *MockFormat) ArtifactName(d domain.Name) string {
	return d.String() + m.Suffix
}

// DomainFromArtifact strips the configured suffix
func (m *MockFormat) DomainFromArtifact(name string) (domain.Name, bool) {
	return suffixedName(name, m.Suffix)
}

// Render records the call and invokes the mock function if set
func (m *MockFormat) Render(d domain.Name, siteRoot string, opts RenderOptions) (string, error) {
	m.RenderCalls = append(m.RenderCalls, RenderCall{Domain: d, SiteRoot: siteRoot, Opts: opts})
	if m.RenderFunc != nil {
		return m.RenderFunc(d, siteRoot, opts)
	}
	return "# mock " + d.String() + "\n", nil
}
