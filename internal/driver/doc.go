// Package driver maps managed domains to backend-specific configuration
// artifacts for Nginx, Caddy and lighttpd.
//
// Each backend registers a Format in init(). A Format is pure: it names the
// artifact file for a domain, inverts that name back to a domain, and renders
// the fragment body from the embedded templates. Nothing in this package
// touches the filesystem, so adding a backend is a local change with no
// effect on the registry or writer.
//
// # Naming Rules
//
//	nginx     demo.tux.conf   server block, listen <port>, server_name, root, index
//	caddy     demo.tux        site block demo.tux:80 with root * and file_server
//	lighttpd  demo.tux.conf   $HTTP["host"] conditional with server.document-root
//
// # Usage
//
//	b, err := driver.ParseBackend(cfg.Backend)
//	if err != nil {
//	    return err // BackendNotConfigured or UnsupportedBackend
//	}
//
//	art, err := driver.Render(name, siteRoot, b, driver.RenderOptions{ListenPort: 8080})
//	// art.Name == "demo.tux.conf", art.Content == "server { ... }"
//
//	d, ok := driver.DomainFromArtifact("demo.tux.conf", driver.Nginx)
//	// d == "demo.tux", ok == true
//
// # Testing
//
// MockFormat can be registered under a test backend to inject render failures:
//
//	mock := driver.NewMockFormat("broken", ".conf")
//	mock.RenderFunc = func(...) (string, error) { return "", errors.New("boom") }
//	driver.Register(mock)
//	defer driver.Unregister("broken")
//
// # Error Handling
//
// Get, Render and ArtifactName return UnsupportedBackend for any backend
// without a registered Format. That is a configuration error and is never
// replaced by a default backend.
package driver
