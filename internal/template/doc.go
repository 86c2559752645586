// Package template renders backend configuration fragments and the default
// site placeholder page from embedded Go templates.
//
// # Template Organization
//
// One fragment template per backend, plus the placeholder page:
//
//	nginx/site.tmpl
//	caddy/site.tmpl
//	lighttpd/site.tmpl
//	site/index.html.tmpl
//
// # Rendering
//
//	content, err := template.RenderSite("nginx", template.SiteData{
//	    Domain:     "demo.tux",
//	    Root:       "/home/user/sites/demo.tux",
//	    ListenPort: 8080,
//	})
//
// Fragment templates receive SiteData:
//   - Domain: The managed domain name
//   - Root: Absolute site content directory
//   - ListenPort: Port the server block listens on (nginx)
//
// Every fragment begins with a "# managed by dottux: <domain>" marker line.
// The marker is informational; nothing parses it back.
//
// # Adding a Backend
//
//  1. Create <backend>/site.tmpl
//  2. Add the directory to the embed pattern in embedded.go
//  3. Register a driver.Format for the backend
package template
