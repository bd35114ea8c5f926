package components

import "github.com/goliatone/go-formengine/pkg/widgets"

// Canonical component names used by the vanilla renderer and default registry.
// Each matches the widget kind it renders.
const (
	NameText     = string(widgets.KindText)
	NameInteger  = string(widgets.KindInteger)
	NameSelect   = string(widgets.KindSelect)
	NameDateTime = string(widgets.KindDateTime)
	NamePhoto    = string(widgets.KindPhoto)
	NameComment  = string(widgets.KindComment)
)
