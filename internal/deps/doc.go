// Package deps reports whether the external binaries subpick shells out to
// are installed.
package deps
