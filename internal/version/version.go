// Package version reports the linguist release.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var embedded string

// override is set at link time:
//
//	go build -ldflags "-X github.com/ShayCichocki/linguist/internal/version.override=1.2.3"
var override string

// Get returns the release version. A link-time override wins over the
// embedded VERSION file.
func Get() string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	return strings.TrimSpace(embedded)
}
