// Package template defines the template engine seam HTML renderers depend on.
package template
