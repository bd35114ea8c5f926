// Package tui fills and renders forms in a terminal. Fill walks the fields
// with survey prompts, submits, and re-asks only the missing required fields
// until the submission succeeds or the user gives up.
package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/state"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

// Renderer implements render.Renderer for terminal sessions.
type Renderer struct {
	driver      PromptDriver
	out         io.Writer
	theme       Theme
	inspect     FileInspector
	maxAttempts int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer backed by survey unless WithPromptDriver is
// supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{inspect: InspectFile}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the format produced by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints a plain-text summary of the view.
func (r *Renderer) Render(ctx context.Context, view engine.View, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chrome := render.DefaultChrome(view.Title)
	render.ApplySubset(&view, opts.Subset)

	var b strings.Builder
	writeHeading(&b, chrome.Title, '=')
	for _, section := range view.Sections {
		b.WriteByte('\n')
		writeHeading(&b, section.Category, '-')
		for _, field := range section.Fields {
			fmt.Fprintf(&b, "  %s: %s\n", label(field), summarize(field))
			if field.Comment != nil && field.Comment.Key != "" && field.Comment.Value != "" {
				fmt.Fprintf(&b, "    comment: %s\n", field.Comment.Value)
			}
		}
	}
	if view.Error != "" {
		fmt.Fprintf(&b, "\n%s%s\n", r.theme.ErrorPrefix, view.Error)
	}
	if view.ShowResult {
		fmt.Fprintf(&b, "\n%s\n%s\n", chrome.ResultHeading, view.Result)
	}
	return []byte(b.String()), nil
}

// Fill prompts for every field of a mounted form and submits it.
func (r *Renderer) Fill(ctx context.Context, form *engine.Form) (engine.Submission, error) {
	if ctx == nil {
		return engine.Submission{}, errors.New("tui: context is required")
	}
	if form == nil || !form.Mounted() {
		return engine.Submission{}, engine.ErrNotMounted
	}

	if err := r.promptFields(ctx, form, flatten(form.View())); err != nil {
		return engine.Submission{}, err
	}

	for attempt := 1; ; attempt++ {
		submission, err := form.Submit()
		if err == nil {
			if err := r.info(ctx, engine.ResultHeading); err != nil {
				return submission, err
			}
			return submission, r.info(ctx, submission.JSON)
		}

		var missing *engine.MissingFieldsError
		if !errors.As(err, &missing) {
			return engine.Submission{}, err
		}
		if err := r.fail(ctx, missing.Error()); err != nil {
			return engine.Submission{}, err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return engine.Submission{}, fmt.Errorf("%w: %w", ErrGaveUp, missing)
		}

		retry, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Fill in the missing fields now?",
			Default: true,
		})
		if err != nil {
			return engine.Submission{}, err
		}
		if !retry {
			return engine.Submission{}, fmt.Errorf("%w: %w", ErrGaveUp, missing)
		}
		if err := r.promptFields(ctx, form, missingFields(form)); err != nil {
			return engine.Submission{}, err
		}
	}
}

func (r *Renderer) promptFields(ctx context.Context, form *engine.Form, fields []engine.FieldView) error {
	for _, field := range fields {
		for _, kind := range field.Plan.Kinds() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.promptWidget(ctx, form, field, kind); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) promptWidget(ctx context.Context, form *engine.Form, field engine.FieldView, kind widgets.Kind) error {
	help := plainHelp(field.HelpText)

	switch kind {
	case widgets.KindText, widgets.KindInteger:
		input, err := r.driver.Input(ctx, InputConfig{
			Message: label(field),
			Default: field.Value,
			Help:    help,
		})
		if err != nil {
			return err
		}
		if kind == widgets.KindInteger {
			return form.SetInteger(field.ID, input)
		}
		return form.SetText(field.ID, input)

	case widgets.KindSelect:
		return r.promptSelect(ctx, form, field, help)

	case widgets.KindDateTime:
		def := ""
		if field.DateTime != nil {
			def = field.DateTime.Display
		}
		for {
			input, err := r.driver.Input(ctx, InputConfig{
				Message: label(field) + " (yyyy-mm-dd hh:mm)",
				Default: def,
				Help:    help,
			})
			if err != nil {
				return err
			}
			err = form.SetDateTimeInput(field.ID, input)
			if !errors.Is(err, engine.ErrInvalidDateTime) {
				return err
			}
			if err := r.fail(ctx, fmt.Sprintf("%s: %q is not a date and time", field.Title, input)); err != nil {
				return err
			}
		}

	case widgets.KindPhoto:
		for {
			input, err := r.driver.Input(ctx, InputConfig{
				Message: label(field) + " photo (path, empty to skip)",
				Help:    help,
			})
			if err != nil {
				return err
			}
			path := strings.TrimSpace(input)
			if path == "" {
				return nil
			}
			ref, err := r.inspect(path)
			if err == nil {
				err = form.ChoosePhoto(field.ID, ref)
			}
			if err == nil {
				return nil
			}
			if errors.Is(err, engine.ErrNotMounted) {
				return err
			}
			if err := r.fail(ctx, fmt.Sprintf("%s: %v", field.Title, err)); err != nil {
				return err
			}
		}

	case widgets.KindComment:
		value := ""
		if field.Comment != nil {
			value = field.Comment.Value
		}
		text, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: field.Title + " comment",
			Default: value,
			Help:    engine.CommentPlaceholder,
		})
		if err != nil {
			return err
		}
		return form.SetComment(field.ID, text)
	}
	return nil
}

// promptSelect offers the options behind a leading placeholder entry that
// leaves the current value untouched.
func (r *Renderer) promptSelect(ctx context.Context, form *engine.Form, field engine.FieldView, help string) error {
	if field.Select == nil {
		return nil
	}
	if err := form.ToggleDropdown(field.ID); err != nil {
		return err
	}

	options := make([]string, 0, len(field.Select.Options)+1)
	options = append(options, engine.SelectPlaceholder)
	defaultIndex := 0
	for i, opt := range field.Select.Options {
		options = append(options, opt.Label)
		if opt.Selected {
			defaultIndex = i + 1
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label(field),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         help,
	})
	if err != nil {
		return err
	}
	if idx <= 0 || idx > len(field.Select.Options) {
		return form.ToggleDropdown(field.ID)
	}
	return form.SelectOption(field.ID, field.Select.Options[idx-1].Key)
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func flatten(view engine.View) []engine.FieldView {
	var out []engine.FieldView
	for _, section := range view.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// missingFields lists the required fields whose value is not truthy, in
// display order, from a fresh view so defaults reflect earlier answers.
func missingFields(form *engine.Form) []engine.FieldView {
	values := form.State()
	var out []engine.FieldView
	for _, field := range flatten(form.View()) {
		if field.Required && !values.Truthy(field.Name) {
			out = append(out, field)
		}
	}
	return out
}

func label(field engine.FieldView) string {
	if field.Required {
		return field.Title + " *"
	}
	return field.Title
}

func summarize(field engine.FieldView) string {
	var value string
	switch {
	case field.Select != nil:
		if !field.Select.Placeholder {
			value = field.Select.Label
		}
	case field.DateTime != nil:
		value = field.DateTime.Display
	case field.Plan.Primary == widgets.KindPhoto && field.Photo != nil:
		value = field.Photo.FileName
	default:
		value = field.Value
	}
	if field.Plan.Primary != widgets.KindPhoto && field.Photo != nil && field.Photo.FileName != "" {
		value = strings.TrimSpace(value + " [photo: " + field.Photo.FileName + "]")
	}
	if value == "" {
		return "-"
	}
	return value
}

func writeHeading(b *strings.Builder, text string, underline rune) {
	b.WriteString(text)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(string(underline), max(len([]rune(text)), 3)))
	b.WriteByte('\n')
}

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// plainHelp removes markup from authored help text for terminal display.
func plainHelp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(stripPolicy.Sanitize(raw))
}

// InspectFile stats path and builds a file reference from it.
func InspectFile(path string) (state.FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return state.FileRef{}, err
	}
	if info.IsDir() {
		return state.FileRef{}, fmt.Errorf("%s is a directory", path)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	return state.FileRef{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}
