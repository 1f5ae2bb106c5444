// Package config holds process-wide constants and the few global flags
// that the rest of the module reads instead of threading through every
// call site (test determinism, the SEL_FATAL debugging toggle).
package config

import "os"

// Version is the current sel version.
var Version = "0.1.0"

const SourceFileExt = ".sel"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".sel", ".lang"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode is not read by any package: a Named type variable always
// renders under the display name it was created with.
var IsTestMode = false

// Fatal reports whether SEL_FATAL=1 is set. The CLI then prints each
// error in its plain one-line-per-cause form instead of the rendered
// source-span view; the parser does not consult it.
func Fatal() bool {
	return os.Getenv("SEL_FATAL") == "1"
}
