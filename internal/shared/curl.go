// Utilities for parsing cURL commands copied from the browser dev tools.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// CurlHeaders represents headers and cookies parsed from a cURL command.
// The Chosic session credentials (cookie, nonce, app marker) ride in here.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

var (
	curlHeaderRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRegex = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(filepath string) (*CurlHeaders, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers. The
// cookie is pulled from either a -b flag or a Cookie header.
func ParseCurlCommand(data []byte) (*CurlHeaders, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(curlCmd, -1) {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		key, value, found := strings.Cut(headerLine, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if cookie == "" {
				cookie = value
			}
			continue
		}
		headers[key] = value
	}

	if flagMatch := curlCookieRegex.FindStringSubmatch(curlCmd); len(flagMatch) > 1 {
		if flagMatch[1] != "" {
			cookie = flagMatch[1]
		} else if flagMatch[2] != "" {
			cookie = flagMatch[2]
		}
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &CurlHeaders{
		Headers: headers,
		Cookie:  cookie,
	}, nil
}

// header does a case-insensitive lookup.
func (c *CurlHeaders) header(name string) string {
	for key, value := range c.Headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// Nonce returns the WordPress REST nonce captured in the command, if any.
func (c *CurlHeaders) Nonce() string {
	return c.header("X-WP-Nonce")
}

// App returns the app marker header, if any.
func (c *CurlHeaders) App() string {
	return c.header("app")
}

// UserAgent returns the captured browser user agent, if any.
func (c *CurlHeaders) UserAgent() string {
	return c.header("User-Agent")
}
