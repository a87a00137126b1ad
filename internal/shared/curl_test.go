package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:    "single header with single quotes",
			curlCmd: `curl -H 'X-WP-Nonce: abc123' https://www.chosic.com/api/tools/search`,
			wantHeaders: map[string]string{
				"X-WP-Nonce": "abc123",
			},
			wantCookie: "",
			wantErr:    false,
		},
		{
			name:    "single header with double quotes",
			curlCmd: `curl -H "X-WP-Nonce: abc123" https://www.chosic.com/api/tools/search`,
			wantHeaders: map[string]string{
				"X-WP-Nonce": "abc123",
			},
			wantCookie: "",
			wantErr:    false,
		},
		{
			name:    "multiple headers",
			curlCmd: `curl -H 'Content-Type: application/json' -H 'X-WP-Nonce: abc' https://www.chosic.com`,
			wantHeaders: map[string]string{
				"Content-Type": "application/json",
				"X-WP-Nonce":   "abc",
			},
			wantCookie: "",
			wantErr:    false,
		},
		{
			name:        "cookie in -b flag with single quotes",
			curlCmd:     `curl -b 'session=abc123' https://www.chosic.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "session=abc123",
			wantErr:     false,
		},
		{
			name:        "cookie in -b flag with double quotes",
			curlCmd:     `curl -b "session=abc123" https://www.chosic.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "session=abc123",
			wantErr:     false,
		},
		{
			name:        "cookie in -H header",
			curlCmd:     `curl -H 'Cookie: session=abc123; token=xyz' https://www.chosic.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "session=abc123; token=xyz",
			wantErr:     false,
		},
		{
			name:    "cookie header is excluded from regular headers",
			curlCmd: `curl -H 'Cookie: session=abc123' -H 'X-WP-Nonce: abc' https://www.chosic.com`,
			wantHeaders: map[string]string{
				"X-WP-Nonce": "abc",
			},
			wantCookie: "session=abc123",
			wantErr:    false,
		},
		{
			name: "multiline curl with backslashes",
			curlCmd: `curl -H 'X-WP-Nonce: abc' \
-H 'Content-Type: application/json' \
https://www.chosic.com`,
			wantHeaders: map[string]string{
				"X-WP-Nonce":   "abc",
				"Content-Type": "application/json",
			},
			wantCookie: "",
			wantErr:    false,
		},
		{
			name:    "headers with spaces around colon",
			curlCmd: `curl -H 'X-WP-Nonce : abc' https://www.chosic.com`,
			wantHeaders: map[string]string{
				"X-WP-Nonce": "abc",
			},
			wantCookie: "",
			wantErr:    false,
		},
		{
			name:        "-b cookie takes precedence over -H cookie",
			curlCmd:     `curl -H 'Cookie: old=value' -b 'new=value' https://www.chosic.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "new=value",
			wantErr:     false,
		},
		{
			name:    "no headers or cookies",
			curlCmd: `curl https://www.chosic.com`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
		{
			name: "complex real-world example",
			curlCmd: `curl 'https://www.chosic.com/api/tools/search?q=test' \
  -H 'accept: application/json, text/javascript, */*; q=0.01' \
  -H 'accept-language: en-US,en;q=0.9' \
  -H 'x-wp-nonce: 9f8e7d6c5b' \
  -H 'x-requested-with: XMLHttpRequest' \
  -H 'cookie: cf_clearance=xyz; wordpress_logged_in=abc' \
  --compressed`,
			wantHeaders: map[string]string{
				"accept":           "application/json, text/javascript, */*; q=0.01",
				"accept-language":  "en-US,en;q=0.9",
				"x-wp-nonce":       "9f8e7d6c5b",
				"x-requested-with": "XMLHttpRequest",
			},
			wantCookie: "cf_clearance=xyz; wordpress_logged_in=abc",
			wantErr:    false,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCurlCommand([]byte(tc.curlCmd))

			if (err != nil) != tc.wantErr {
				t.Errorf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
				return
			}

			if tc.wantErr {
				return
			}

			if result == nil {
				t.Fatal("ParseCurlCommand() returned nil result")
			}

			if len(result.Headers) != len(tc.wantHeaders) {
				t.Errorf("ParseCurlCommand() headers count = %v, want %v", len(result.Headers), len(tc.wantHeaders))
			}

			for key, want := range tc.wantHeaders {
				if got := result.Headers[key]; got != want {
					t.Errorf("ParseCurlCommand() header[%s] = %v, want %v", key, got, want)
				}
			}

			if result.Cookie != tc.wantCookie {
				t.Errorf("ParseCurlCommand() cookie = %v, want %v", result.Cookie, tc.wantCookie)
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		tmpDir := t.TempDir()
		curlFile := filepath.Join(tmpDir, "curl.sh")

		curlCmd := `curl -H 'X-WP-Nonce: abc123' -H 'Content-Type: application/json' https://www.chosic.com`
		if err := os.WriteFile(curlFile, []byte(curlCmd), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		result, err := ParseCurlFile(curlFile)
		if err != nil {
			t.Fatalf("ParseCurlFile() error = %v", err)
		}

		if len(result.Headers) != 2 {
			t.Errorf("ParseCurlFile() headers count = %v, want 2", len(result.Headers))
		}

		if result.Headers["X-WP-Nonce"] != "abc123" {
			t.Errorf("ParseCurlFile() X-WP-Nonce = %v, want abc123", result.Headers["X-WP-Nonce"])
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		_, err := ParseCurlFile("/nonexistent/file.sh")
		if err == nil {
			t.Error("ParseCurlFile() expected error for nonexistent file")
		}
	})

	t.Run("file with no valid headers", func(t *testing.T) {
		tmpDir := t.TempDir()
		curlFile := filepath.Join(tmpDir, "invalid.sh")

		if err := os.WriteFile(curlFile, []byte("curl https://www.chosic.com"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		_, err := ParseCurlFile(curlFile)
		if err == nil {
			t.Error("ParseCurlFile() expected error for file with no headers")
		}
	})
}

func TestCurlHeadersAccessors(t *testing.T) {
	t.Run("nonce lookup is case-insensitive", func(t *testing.T) {
		headers := &CurlHeaders{Headers: map[string]string{"x-wp-nonce": "abc"}}
		if got := headers.Nonce(); got != "abc" {
			t.Errorf("Nonce() = %q, want abc", got)
		}
	})

	t.Run("app marker", func(t *testing.T) {
		headers := &CurlHeaders{Headers: map[string]string{"App": "new_releases"}}
		if got := headers.App(); got != "new_releases" {
			t.Errorf("App() = %q, want new_releases", got)
		}
	})

	t.Run("user agent", func(t *testing.T) {
		headers := &CurlHeaders{Headers: map[string]string{"user-agent": "Mozilla/5.0"}}
		if got := headers.UserAgent(); got != "Mozilla/5.0" {
			t.Errorf("UserAgent() = %q, want Mozilla/5.0", got)
		}
	})

	t.Run("missing headers yield empty strings", func(t *testing.T) {
		headers := &CurlHeaders{Headers: map[string]string{}}
		if headers.Nonce() != "" || headers.App() != "" || headers.UserAgent() != "" {
			t.Error("expected empty accessors for missing headers")
		}
	})
}
