// Package debug provides a package-level debug logger gated by the
// DEBUG_GITBUP environment variable, in the style of restic's
// internal/debug: Log is always callable and compiles down to a single
// boolean check when debugging isn't enabled.
package debug

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var opts struct {
	enabled bool
	logger  *log.Logger
}

func init() {
	path := os.Getenv("DEBUG_GITBUP")
	if path == "" {
		return
	}

	var out *os.File
	switch path {
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gitbup: unable to open debug log %q: %v\n", path, err)
			return
		}
		out = f
	}

	opts.logger = log.New(out, "", log.LstdFlags|log.Lmicroseconds)
	opts.enabled = true
}

// Log writes a formatted debug message tagged with the caller's
// component name. It is a no-op unless DEBUG_GITBUP is set.
func Log(component, format string, args ...interface{}) {
	if !opts.enabled {
		return
	}
	msg := fmt.Sprintf(format, args...)
	opts.logger.Printf("%s: %s", component, strings.TrimSuffix(msg, "\n"))
}

// Enabled reports whether debug logging is currently active.
func Enabled() bool {
	return opts.enabled
}
