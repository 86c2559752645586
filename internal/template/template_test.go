package template

import (
	"sort"
	"strings"
	"testing"
)

func TestRenderSite(t *testing.T) {
	data := SiteData{
		Domain:     "demo.tux",
		Root:       "/home/user/sites/demo.tux",
		ListenPort: 8080,
	}

	testCases := []struct {
		backend  string
		contains []string
	}{
		{
			backend: "nginx",
			contains: []string{
				"# managed by dottux: demo.tux",
				"listen 8080;",
				"server_name demo.tux;",
				"root /home/user/sites/demo.tux;",
				"index index.html index.htm;",
			},
		},
		{
			backend: "caddy",
			contains: []string{
				"demo.tux:80 {",
				"root * /home/user/sites/demo.tux",
				"file_server",
			},
		},
		{
			backend: "lighttpd",
			contains: []string{
				`$HTTP["host"] == "demo.tux" {`,
				`server.document-root = "/home/user/sites/demo.tux"`,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.backend, func(t *testing.T) {
			result, err := RenderSite(tc.backend, data)
			if err != nil {
				t.Fatalf("RenderSite failed: %v", err)
			}

			for _, expected := range tc.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, result)
				}
			}
		})
	}
}

func TestRenderSiteUnknownBackend(t *testing.T) {
	_, err := RenderSite("apache", SiteData{Domain: "demo.tux", Root: "/srv"})
	if err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestRenderPlaceholder(t *testing.T) {
	page, err := RenderPlaceholder("demo.tux")
	if err != nil {
		t.Fatalf("RenderPlaceholder failed: %v", err)
	}
	if !strings.Contains(page, "<h1>Welcome to demo.tux</h1>") {
		t.Errorf("placeholder should greet the domain, got:\n%s", page)
	}
}

func TestBackends(t *testing.T) {
	got := Backends()
	sort.Strings(got)
	want := []string{"caddy", "lighttpd", "nginx"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Backends() = %v, want %v", got, want)
	}
}

func TestValidateRendered(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"balanced", "server { listen 80; }", false},
		{"unresolved action", "server_name {{ .Domain }};", true},
		{"unbalanced", "server { listen 80;", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRendered(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRendered(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
