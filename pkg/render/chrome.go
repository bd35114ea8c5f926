package render

import (
	"strings"

	"github.com/goliatone/go-formengine/pkg/engine"
)

// Chrome holds the fixed UI strings a renderer prints around the fields.
type Chrome struct {
	Title               string
	SelectPlaceholder   string
	DateTimePlaceholder string
	CommentPlaceholder  string
	SubmitLabel         string
	ResultHeading       string
	HelpLabel           string
}

// DefaultChrome returns the chrome strings. Title comes from the view.
func DefaultChrome(title string) Chrome {
	if strings.TrimSpace(title) == "" {
		title = engine.DefaultTitle
	}
	return Chrome{
		Title:               title,
		SelectPlaceholder:   engine.SelectPlaceholder,
		DateTimePlaceholder: engine.DateTimePlaceholder,
		CommentPlaceholder:  engine.CommentPlaceholder,
		SubmitLabel:         engine.SubmitLabel,
		ResultHeading:       engine.ResultHeading,
		HelpLabel:           "?",
	}
}
