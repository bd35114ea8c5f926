// Package orchestrator wires the loader → engine → renderer pipeline for
// callers that want one entry point: load a descriptor document, mount a form,
// and render its initial view.
package orchestrator
