package chanconsole

import "github.com/chanconsole/chanconsole/internal/chanid"

// FormatBytes renders n bytes in human-readable form, the same formatting
// the Table and teardown-guard renderers use for the Mem columns.
func FormatBytes(n uint64) string {
	return chanid.FormatBytes(n)
}
