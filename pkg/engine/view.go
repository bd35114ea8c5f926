package engine

import (
	"time"

	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

const (
	SelectPlaceholder   = "Select an option"
	DateTimePlaceholder = "Select date & time"
	CommentPlaceholder  = "Comment..."
	SubmitLabel         = "Generate Server Request"
	ResultHeading       = "Generated Server Request (in JSON):"

	// DateTimeDisplayLayout formats picker values for display.
	DateTimeDisplayLayout = "2006-01-02 15:04"
	// DateTimeInputLayout formats picker values for datetime-local inputs.
	DateTimeInputLayout = "2006-01-02T15:04"
)

// View is a render-ready snapshot of a mounted form.
type View struct {
	Title      string
	Sections   []Section
	Error      string
	Result     string
	ShowResult bool
}

// Section is one category heading and its fields in display order.
type Section struct {
	Category string
	Fields   []FieldView
}

// FieldView carries everything a renderer needs for one descriptor.
type FieldView struct {
	ID          string
	Name        string
	Title       string
	HelpText    string
	HelpVisible bool
	Type        descriptor.FieldType
	Required    bool
	Plan        widgets.Plan
	// Value is the display text of the committed primary value.
	Value    string
	Select   *SelectView
	DateTime *DateTimeView
	Photo    *PhotoView
	Comment  *CommentView
}

// SelectView describes a dropdown.
type SelectView struct {
	Open bool
	// Label is the selected option's label, or SelectPlaceholder.
	Label       string
	Placeholder bool
	Options     []OptionView
}

// OptionView is one dropdown entry.
type OptionView struct {
	Key      string
	Label    string
	Selected bool
}

// DateTimeView describes the picker value in the form's location.
type DateTimeView struct {
	Value   string
	Input   string
	Display string
}

// PhotoView describes the photo picker.
type PhotoView struct {
	FileName string
}

// CommentView describes the comment box. Key is empty when input is
// discarded.
type CommentView struct {
	Key   string
	Value string
}

// View snapshots the form for rendering. An unmounted form renders its
// structure with no values.
func (f *Form) View() View {
	view := View{Title: f.cfg.title}
	if f.missing != nil {
		view.Error = f.missing.Error()
	}
	if f.showResult {
		if payload, err := f.values.Pretty(); err == nil {
			view.Result = payload
			view.ShowResult = true
		}
	}

	view.Sections = make([]Section, 0, len(f.groups))
	for _, group := range f.groups {
		section := Section{Category: group.Category, Fields: make([]FieldView, 0, len(group.Fields))}
		for _, field := range group.Fields {
			section.Fields = append(section.Fields, f.fieldView(field))
		}
		view.Sections = append(view.Sections, section)
	}
	return view
}

func (f *Form) fieldView(field descriptor.Descriptor) FieldView {
	plan := widgets.For(field)
	fv := FieldView{
		ID:          field.ID,
		Name:        field.Name,
		Title:       field.Title,
		HelpText:    field.HelpText,
		HelpVisible: f.help[field.ID],
		Type:        field.Type,
		Required:    field.Required,
		Plan:        plan,
	}

	value, hasValue := f.values.Get(field.Name)
	if hasValue {
		fv.Value = value.Display()
	}

	switch plan.Primary {
	case widgets.KindSelect:
		fv.Select = f.selectView(field, fv.Value, hasValue && value.Truthy())
	case widgets.KindDateTime:
		fv.DateTime = f.dateTimeView(fv.Value)
	}

	if plan.Photo {
		photo := &PhotoView{}
		if file, ok := value.File(); ok {
			photo.FileName = file.Name
		}
		fv.Photo = photo
	}

	if plan.Comment {
		comment := &CommentView{Key: field.CommentFieldName}
		if comment.Key != "" {
			if text, ok := f.values.Get(comment.Key); ok {
				comment.Value = text.Display()
			}
		}
		fv.Comment = comment
	}
	return fv
}

func (f *Form) selectView(field descriptor.Descriptor, selected string, truthy bool) *SelectView {
	opts := field.Options()
	sv := &SelectView{
		Open:    f.open == field.ID,
		Options: make([]OptionView, 0, len(opts)),
	}
	for _, opt := range opts {
		sv.Options = append(sv.Options, OptionView{
			Key:      opt.Key,
			Label:    opt.Label,
			Selected: truthy && opt.Key == selected,
		})
	}

	if !truthy {
		sv.Label = SelectPlaceholder
		sv.Placeholder = true
		return sv
	}
	if label, ok := opts.Label(selected); ok {
		sv.Label = label
	} else {
		sv.Label = selected
	}
	return sv
}

func (f *Form) dateTimeView(committed string) *DateTimeView {
	dv := &DateTimeView{Value: committed}
	if committed == "" {
		return dv
	}
	t, err := time.Parse(DateTimeLayout, committed)
	if err != nil {
		return dv
	}
	local := t.In(f.cfg.location)
	dv.Input = local.Format(DateTimeInputLayout)
	dv.Display = local.Format(DateTimeDisplayLayout)
	return dv
}
