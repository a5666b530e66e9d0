// Package main hosts the subpick CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds a logger, and hands
// each media path to the selector service. Commands only render results:
// selection, relevance rules and ordering live in internal packages so other
// frontends can reuse them.
package main
