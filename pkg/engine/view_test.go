package engine_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/state"
	"github.com/goliatone/go-formengine/pkg/testsupport"
)

func TestView_SectionsFollowCategoryAndOrder(t *testing.T) {
	form, _ := mountForm(t, testsupport.SampleDocument(t), engine.WithTitle("Site visit"))
	view := form.View()

	if view.Title != "Site visit" {
		t.Fatalf("unexpected title %q", view.Title)
	}

	got := map[string][]string{}
	var order []string
	for _, section := range view.Sections {
		order = append(order, section.Category)
		for _, field := range section.Fields {
			got[section.Category] = append(got[section.Category], field.ID)
		}
	}
	if diff := cmp.Diff([]string{"General", "Site"}, order); diff != "" {
		t.Fatalf("category order mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]string{
		"General": {"f-name", "f-units", "f-when"},
		"Site":    {"f-cond", "f-pic"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestView_SelectLabel(t *testing.T) {
	form, _ := mountForm(t, testsupport.SampleDocument(t))

	field := form.View().Sections[1].Fields[0]
	if field.Select == nil || !field.Select.Placeholder || field.Select.Label != engine.SelectPlaceholder {
		t.Fatalf("expected placeholder label, got %+v", field.Select)
	}

	if err := form.ToggleDropdown("f-cond"); err != nil {
		t.Fatalf("ToggleDropdown: %v", err)
	}
	if err := form.SelectOption("f-cond", "f"); err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	if err := form.ToggleDropdown("f-cond"); err != nil {
		t.Fatalf("ToggleDropdown: %v", err)
	}

	field = form.View().Sections[1].Fields[0]
	want := &engine.SelectView{
		Open:  true,
		Label: "Fair",
		Options: []engine.OptionView{
			{Key: "g", Label: "Good"},
			{Key: "f", Label: "Fair", Selected: true},
			{Key: "p", Label: "Poor"},
		},
	}
	if diff := cmp.Diff(want, field.Select); diff != "" {
		t.Fatalf("select view mismatch (-want +got):\n%s", diff)
	}
}

func TestView_AuxiliaryWidgets(t *testing.T) {
	form, _ := mountForm(t, testsupport.SampleDocument(t))
	if err := form.SetComment("f-units", "about ten"); err != nil {
		t.Fatalf("SetComment: %v", err)
	}
	if err := form.ChoosePhoto("f-pic", state.FileRef{Name: "front.png", ContentType: "image/png"}); err != nil {
		t.Fatalf("ChoosePhoto: %v", err)
	}
	if err := form.ToggleHelp("f-name"); err != nil {
		t.Fatalf("ToggleHelp: %v", err)
	}

	view := form.View()
	name := view.Sections[0].Fields[0]
	units := view.Sections[0].Fields[1]
	cond := view.Sections[1].Fields[0]
	pic := view.Sections[1].Fields[1]

	if !name.HelpVisible || name.HelpText == "" {
		t.Fatalf("expected help visible on f-name")
	}
	if units.Comment == nil || units.Comment.Key != "unitsNote" || units.Comment.Value != "about ten" {
		t.Fatalf("unexpected comment view %+v", units.Comment)
	}
	if cond.Comment == nil || cond.Comment.Key != "" {
		t.Fatalf("expected keyless comment box on f-cond, got %+v", cond.Comment)
	}
	if cond.Photo == nil || cond.Photo.FileName != "" {
		t.Fatalf("expected empty photo picker on f-cond, got %+v", cond.Photo)
	}
	if pic.Photo == nil || pic.Photo.FileName != "front.png" {
		t.Fatalf("expected chosen photo on f-pic, got %+v", pic.Photo)
	}
	if name.Photo != nil || name.Comment != nil || name.Select != nil {
		t.Fatalf("text field rendered auxiliary widgets: %+v", name)
	}
}

func TestView_ShippedSampleSpec(t *testing.T) {
	doc := testsupport.LoadDocument(t, "../../data/formSpec.json")
	form, _ := mountForm(t, doc, engine.WithDefaultValues())

	units, ok := form.State().Get("units")
	if n, isInt := units.Int(); !ok || !isInt || n != 1 {
		t.Fatalf("expected units default 1, got %v (present %v)", units.Display(), ok)
	}

	_, err := form.Submit()
	var missing *engine.MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected missing fields error, got %v", err)
	}
	want := []string{"Inspector", "Visit date", "Overall condition"}
	if diff := cmp.Diff(want, missing.Titles); diff != "" {
		t.Fatalf("missing titles mismatch (-want +got):\n%s", diff)
	}
}
