// Package config manages the dottux application configuration stored in
// YAML format.
//
// Configuration lives at ~/.config/dottux/config.yaml. The location can be
// overridden with the DOTTUX_CONFIG environment variable or the --config flag.
//
// # Configuration Structure
//
// Example config.yaml:
//
//	backend: nginx
//	reserved_domain: dot.tux
//	listen_port: 8080
//	reload_timeout: 30s
//	paths:
//	  artifacts: /data/data/com.termux/files/usr/etc/nginx/conf.d
//	  sites: /data/data/com.termux/files/home/sites
//	  reload_script: /data/data/com.termux/files/home/Dot-Tux/reload.sh
//	panel:
//	  listen: 127.0.0.1:5000
//	  rate_per_minute: 30
//	watch:
//	  debounce: 2s
//	log_level: info
//	log_format: console
//
// # Backend Selection
//
// The backend key is the active-backend selector. It is read once at
// startup and passed explicitly to every component. A missing key is
// reported as BACKEND_NOT_CONFIGURED; there is no default backend.
//
//	cfg, err := config.Load()
//	b, err := cfg.ActiveBackend()
//	resolved, err := cfg.Resolve(b)
//
// # Path Defaults
//
// Empty paths are filled by Resolve: the artifacts directory from the
// platform package, sites from $HOME/sites, and the reload executable from
// $HOME/Dot-Tux/reload.sh.
//
// # Thread Safety
//
// Config operations are NOT thread-safe. Callers must implement their own
// synchronization if accessing Config from multiple goroutines.
package config
