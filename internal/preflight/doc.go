// Package preflight provides readiness checks for the binaries and paths
// subpick depends on.
//
// The CLI "subpick check" command runs RunAll and renders each Result. Checks
// never modify the filesystem: a cache directory that does not exist yet
// passes because it is created on first use.
package preflight
