// Package engine runs one mounted form: it owns the committed field state and
// the transient UI state (open dropdown, visible help bubbles, submission
// outcome), applies edit events through typed handlers, and validates the
// required fields on submit.
//
// A Form is not safe for concurrent use. Callers that share one across
// goroutines, such as the HTTP server's session store, serialize access.
package engine
