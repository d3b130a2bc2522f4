// Package chanid derives stable channel identifiers from the call site
// that instrumented them, resolves human-readable display labels, and
// formats byte counts for the table and JSON renderers.
package chanid

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// CallerDepth is how many stack frames CaptureSite must ascend when
// called directly from one of the public Instrument* entry points, so
// the captured site is the user's call site rather than chanconsole's own
// code. It is exported so a caller that wraps Instrument* in its own
// helper can adjust the depth accordingly.
const CallerDepth = 2

// CaptureSite returns "<file>:<line>" for the caller `skip` frames above
// this function, mirroring the Rust crate's `concat!(file!(), ":", line!())`
// compile-time capture as closely as a runtime language allows.
func CaptureSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown:0"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// ResolveLabel implements the §4.A rule: an explicit label is returned
// verbatim, otherwise the id is parsed as "<path>:<line>" and the path is
// trimmed to its last two slash-separated segments.
func ResolveLabel(id string, label string) string {
	if label != "" {
		return label
	}

	idx := strings.LastIndex(id, ":")
	if idx < 0 {
		return extractFilename(id)
	}

	path := id[:idx]
	line := id[idx+1:]
	return extractFilename(path) + ":" + line
}

func extractFilename(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return path
}

var units = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders n bytes using the largest unit such that the scaled
// value is >= 1, dividing by 1024 per step. Bytes are printed with integer
// precision; every larger unit uses one fractional digit. Zero is "0 B".
func FormatBytes(n uint64) string {
	if n == 0 {
		return "0 B"
	}

	size := float64(n)
	unitIdx := 0
	for size >= 1024.0 && unitIdx < len(units)-1 {
		size /= 1024.0
		unitIdx++
	}

	if unitIdx == 0 {
		return strconv.FormatUint(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', 1, 64) + " " + units[unitIdx]
}
