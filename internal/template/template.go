package template

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
)

// SiteData contains data for rendering a configuration fragment
type SiteData struct {
	Domain     string
	Root       string
	ListenPort int
}

// PageData contains data for rendering the placeholder page
type PageData struct {
	Domain string
}

// RenderSite renders the configuration fragment for the given backend
func RenderSite(backend string, data SiteData) (string, error) {
	tmplPath, err := siteTemplatePath(backend)
	if err != nil {
		return "", err
	}

	content, err := siteTemplates.ReadFile(tmplPath)
	if err != nil {
		return "", fmt.Errorf("template not found: %s", tmplPath)
	}

	tmpl, err := template.New(backend).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	out := buf.String()
	if err := validateRendered(out); err != nil {
		return "", err
	}
	return out, nil
}

// RenderPlaceholder renders the default index.html for a new site
func RenderPlaceholder(domain string) (string, error) {
	content, err := pageTemplates.ReadFile("site/index.html.tmpl")
	if err != nil {
		return "", fmt.Errorf("placeholder template not found: %w", err)
	}

	tmpl, err := htmltemplate.New("index.html").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse placeholder template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PageData{Domain: domain}); err != nil {
		return "", fmt.Errorf("failed to render placeholder: %w", err)
	}
	return buf.String(), nil
}

// validateRendered rejects output with unresolved actions or unbalanced blocks
func validateRendered(s string) error {
	if strings.Contains(s, "{{") || strings.Contains(s, "}}") {
		return fmt.Errorf("template variables not resolved")
	}
	if strings.Count(s, "{") != strings.Count(s, "}") {
		return fmt.Errorf("unbalanced braces in configuration")
	}
	return nil
}
