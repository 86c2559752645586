package platform

import (
	"testing"
)

func fakeEnv(goos string, vars map[string]string, existing ...string) environment {
	set := make(map[string]bool, len(existing))
	for _, p := range existing {
		set[p] = true
	}
	return environment{
		goos:   goos,
		getenv: func(k string) string { return vars[k] },
		exists: func(p string) bool { return set[p] },
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		env       environment
		wantNginx string
		wantCaddy string
		wantLight string
		wantErr   bool
	}{
		{
			name:      "termux",
			env:       fakeEnv("android", map[string]string{"PREFIX": "/data/data/com.termux/files/usr"}),
			wantNginx: "/data/data/com.termux/files/usr/etc/nginx/conf.d",
			wantCaddy: "/data/data/com.termux/files/usr/etc/caddy/sites",
			wantLight: "/data/data/com.termux/files/usr/etc/lighttpd/conf.d",
		},
		{
			name:      "debian",
			env:       fakeEnv("linux", nil, "/etc/debian_version"),
			wantNginx: "/etc/nginx/conf.d",
			wantCaddy: "/etc/caddy/sites",
			wantLight: "/etc/lighttpd/conf-enabled",
		},
		{
			name:      "rhel",
			env:       fakeEnv("linux", nil, "/etc/nginx"),
			wantNginx: "/etc/nginx/conf.d",
			wantCaddy: "/etc/caddy/Caddyfile.d",
			wantLight: "/etc/lighttpd/conf.d",
		},
		{
			name:      "apple silicon homebrew",
			env:       fakeEnv("darwin", nil, "/opt/homebrew"),
			wantNginx: "/opt/homebrew/etc/nginx/servers",
			wantCaddy: "/opt/homebrew/etc/caddy/sites",
			wantLight: "/opt/homebrew/etc/lighttpd/conf.d",
		},
		{
			name:      "intel homebrew",
			env:       fakeEnv("darwin", nil, "/usr/local"),
			wantNginx: "/usr/local/etc/nginx/servers",
			wantCaddy: "/usr/local/etc/caddy/sites",
			wantLight: "/usr/local/etc/lighttpd/conf.d",
		},
		{
			name:    "linux without web server",
			env:     fakeEnv("linux", nil),
			wantErr: true,
		},
		{
			name:    "unsupported platform",
			env:     fakeEnv("windows", nil),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := detect(tt.env)
			if (err != nil) != tt.wantErr {
				t.Fatalf("detect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if paths.Nginx != tt.wantNginx {
				t.Errorf("Nginx = %q, want %q", paths.Nginx, tt.wantNginx)
			}
			if paths.Caddy != tt.wantCaddy {
				t.Errorf("Caddy = %q, want %q", paths.Caddy, tt.wantCaddy)
			}
			if paths.Lighttpd != tt.wantLight {
				t.Errorf("Lighttpd = %q, want %q", paths.Lighttpd, tt.wantLight)
			}
		})
	}
}

func TestPathExists(t *testing.T) {
	if !pathExists("/") {
		t.Error("root path should exist")
	}
	if pathExists("/this/path/should/definitely/not/exist/anywhere") {
		t.Error("non-existent path should return false")
	}
}

func TestPlatformPathsForBackend(t *testing.T) {
	paths := &PlatformPaths{
		Nginx:    "/etc/nginx/conf.d",
		Caddy:    "/etc/caddy/sites",
		Lighttpd: "/etc/lighttpd/conf.d",
	}

	tests := []struct {
		backend string
		want    string
		wantErr bool
	}{
		{"nginx", "/etc/nginx/conf.d", false},
		{"caddy", "/etc/caddy/sites", false},
		{"lighttpd", "/etc/lighttpd/conf.d", false},
		{"apache", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			got, err := paths.ForBackend(tt.backend)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ForBackend(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ForBackend(%q) = %q, want %q", tt.backend, got, tt.want)
			}
		})
	}
}

func TestPlatform(t *testing.T) {
	if Platform() == "" {
		t.Error("Platform() should not be empty")
	}
}
