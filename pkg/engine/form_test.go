package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/events"
	"github.com/goliatone/go-formengine/pkg/state"
	"github.com/goliatone/go-formengine/pkg/testsupport"
)

func mountForm(t *testing.T, doc descriptor.Document, opts ...engine.Option) (*engine.Form, *events.Document) {
	t.Helper()

	page := events.NewDocument()
	form := engine.New(doc, opts...)
	if err := form.Mount(page); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(form.Unmount)
	return form, page
}

func TestForm_EndToEndExample(t *testing.T) {
	form, _ := mountForm(t, testsupport.ExampleDocument(t))

	if err := form.ToggleDropdown("color"); err != nil {
		t.Fatalf("toggle dropdown: %v", err)
	}
	if err := form.SelectOption("color", "r"); err != nil {
		t.Fatalf("select option: %v", err)
	}

	_, err := form.Submit()
	var missing *engine.MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if got, want := missing.Error(), "Please fill in the required field(s): age"; got != want {
		t.Fatalf("message mismatch: want %q, got %q", want, got)
	}
	view := form.View()
	if view.ShowResult || view.Result != "" {
		t.Fatalf("expected no JSON after failed submit, got %q", view.Result)
	}
	if view.Error != missing.Error() {
		t.Fatalf("expected view error %q, got %q", missing.Error(), view.Error)
	}

	if err := form.SetInteger("age", "30"); err != nil {
		t.Fatalf("set integer: %v", err)
	}
	submission, err := form.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := map[string]any{"age": float64(30), "color": "r"}
	if diff := cmp.Diff(want, testsupport.MustUnmarshalJSON(t, submission.JSON)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	view = form.View()
	if view.Error != "" {
		t.Fatalf("expected error cleared, got %q", view.Error)
	}
	if !view.ShowResult || view.Result != submission.JSON {
		t.Fatalf("expected result panel with submission JSON, got %+v", view)
	}
}

func TestForm_SubmitListsMissingInDocumentOrder(t *testing.T) {
	doc := testsupport.MustDecode(t, "missing.json", `[
	  {"fieldid": "b", "fieldName": "b", "title": "B", "fieldType": "text", "category": "x", "fieldOrder": 2, "inputReq": 1},
	  {"fieldid": "a", "fieldName": "a", "title": "A", "fieldType": "text", "category": "x", "fieldOrder": 1, "inputReq": 1}
	]`)
	form, _ := mountForm(t, doc)

	if err := form.SetText("a", "filled"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if err := form.SetText("b", "filled"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if _, err := form.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !form.ResultVisible() {
		t.Fatalf("expected result visible after valid submit")
	}

	if err := form.SetText("a", ""); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if err := form.SetText("b", ""); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	_, err := form.Submit()
	if err == nil || err.Error() != "Please fill in the required field(s): B, A" {
		t.Fatalf("unexpected submit error: %v", err)
	}
	if form.ResultVisible() || form.View().Result != "" {
		t.Fatalf("expected prior JSON to be suppressed")
	}
}

func TestForm_SubmitIsIdempotent(t *testing.T) {
	form, _ := mountForm(t, testsupport.ExampleDocument(t))
	if err := form.SetInteger("age", "7"); err != nil {
		t.Fatalf("SetInteger: %v", err)
	}

	first, err := form.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	second, err := form.Submit()
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if first.JSON != second.JSON {
		t.Fatalf("resubmit changed payload:\n%s\n%s", first.JSON, second.JSON)
	}

	form.Unmount()
	if err := form.Mount(nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	_, err = form.Submit()
	_, errAgain := form.Submit()
	if err == nil || errAgain == nil || err.Error() != errAgain.Error() {
		t.Fatalf("expected repeated identical errors, got %v and %v", err, errAgain)
	}
}

func TestForm_IntegerParseFailureFailsRequired(t *testing.T) {
	form, _ := mountForm(t, testsupport.ExampleDocument(t))

	if err := form.SetInteger("age", "abc"); err != nil {
		t.Fatalf("set integer: %v", err)
	}
	value, ok := form.State().Get("age")
	if !ok || !value.IsNaN() {
		t.Fatalf("expected NaN committed, got %+v", value)
	}
	if _, err := form.Submit(); err == nil {
		t.Fatalf("expected NaN to fail the required check")
	}

	if err := form.SetInteger("age", "0"); err != nil {
		t.Fatalf("SetInteger: %v", err)
	}
	if _, err := form.Submit(); err == nil {
		t.Fatalf("expected zero to fail the required check")
	}
}

func TestForm_NaNSerializesAsNull(t *testing.T) {
	doc := testsupport.MustDecode(t, "opt.json", `[
	  {"fieldid": "n", "fieldName": "n", "title": "N", "fieldType": "numberInt", "category": "x"}
	]`)
	form, _ := mountForm(t, doc)
	if err := form.SetInteger("n", "--"); err != nil {
		t.Fatalf("SetInteger: %v", err)
	}

	submission, err := form.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := map[string]any{"n": nil}
	if diff := cmp.Diff(want, testsupport.MustUnmarshalJSON(t, submission.JSON)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_DropdownExclusivity(t *testing.T) {
	doc := testsupport.MustDecode(t, "dropdowns.json", `[
	  {"fieldid": "x", "fieldName": "x", "title": "X", "fieldType": "select", "dropVals": "{\"1\":\"One\"}", "category": "c"},
	  {"fieldid": "y", "fieldName": "y", "title": "Y", "fieldType": "select", "dropVals": "{\"2\":\"Two\"}", "category": "c"},
	  {"fieldid": "t", "fieldName": "t", "title": "T", "fieldType": "text", "category": "c"}
	]`)
	form, page := mountForm(t, doc)

	if err := form.ToggleDropdown("x"); err != nil {
		t.Fatalf("ToggleDropdown: %v", err)
	}
	if err := form.ToggleDropdown("y"); err != nil {
		t.Fatalf("ToggleDropdown: %v", err)
	}
	if got := form.OpenDropdown(); got != "y" {
		t.Fatalf("expected only y open, got %q", got)
	}

	page.DispatchPointerDown(events.PointerEvent{Containers: []string{"y"}})
	if got := form.OpenDropdown(); got != "y" {
		t.Fatalf("pointer inside y closed it")
	}

	page.DispatchPointerDown(events.PointerEvent{Containers: []string{"t"}})
	if got := form.OpenDropdown(); got != "" {
		t.Fatalf("expected outside pointer to close dropdown, got %q", got)
	}

	if err := form.ToggleDropdown("x"); err != nil {
		t.Fatalf("ToggleDropdown: %v", err)
	}
	if err := form.ToggleDropdown("x"); err != nil {
		t.Fatalf("ToggleDropdown: %v", err)
	}
	if got := form.OpenDropdown(); got != "" {
		t.Fatalf("expected second toggle to close x, got %q", got)
	}

	if err := form.ToggleDropdown("x"); err != nil {
		t.Fatalf("ToggleDropdown: %v", err)
	}
	if err := form.SelectOption("x", "1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := form.OpenDropdown(); got != "" {
		t.Fatalf("expected selection to close dropdown, got %q", got)
	}
}

func TestForm_HelpToggleIsIndependent(t *testing.T) {
	form, _ := mountForm(t, testsupport.SampleDocument(t))

	if err := form.ToggleHelp("f-name"); err != nil {
		t.Fatalf("ToggleHelp: %v", err)
	}
	if !form.HelpVisible("f-name") || form.HelpVisible("f-cond") {
		t.Fatalf("unexpected visibility after first toggle")
	}
	if err := form.ToggleHelp("f-name"); err != nil {
		t.Fatalf("ToggleHelp: %v", err)
	}
	if form.HelpVisible("f-name") || form.HelpVisible("f-cond") {
		t.Fatalf("expected both hidden after second toggle")
	}

	if err := form.HelpKey("f-cond", "Tab"); err != nil {
		t.Fatalf("HelpKey: %v", err)
	}
	if form.HelpVisible("f-cond") {
		t.Fatalf("Tab must not toggle help")
	}
	if err := form.HelpKey("f-cond", "Enter"); err != nil {
		t.Fatalf("HelpKey: %v", err)
	}
	if err := form.HelpKey("f-name", " "); err != nil {
		t.Fatalf("HelpKey: %v", err)
	}
	if !form.HelpVisible("f-cond") || !form.HelpVisible("f-name") {
		t.Fatalf("expected Enter and Space to toggle help")
	}

	if err := form.ToggleHelp("f-units"); !errors.Is(err, engine.ErrNoWidget) {
		t.Fatalf("expected ErrNoWidget for field without help, got %v", err)
	}
}

func TestForm_CommentAndPhoto(t *testing.T) {
	form, _ := mountForm(t, testsupport.SampleDocument(t))

	if err := form.SetComment("f-units", "approx"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := form.SetComment("f-cond", "ignored"); err != nil {
		t.Fatalf("comment without key: %v", err)
	}
	if err := form.ChoosePhoto("f-cond", state.FileRef{Name: "site.jpg", ContentType: "image/jpeg"}); err != nil {
		t.Fatalf("photo via flag: %v", err)
	}
	if err := form.ChoosePhoto("f-pic", state.FileRef{}); err != nil {
		t.Fatalf("empty selection: %v", err)
	}
	if err := form.ChoosePhoto("f-pic", state.FileRef{Name: "notes.txt", ContentType: "text/plain"}); !errors.Is(err, engine.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
	if err := form.ChoosePhoto("f-name", state.FileRef{Name: "a.png"}); !errors.Is(err, engine.ErrNoWidget) {
		t.Fatalf("expected ErrNoWidget, got %v", err)
	}

	want := []string{"condition", "unitsNote"}
	if diff := cmp.Diff(want, form.State().Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := form.State().Get("condition"); v.Display() != "site.jpg" {
		t.Fatalf("expected photo under field name, got %q", v.Display())
	}
}

func TestForm_DateTime(t *testing.T) {
	form, _ := mountForm(t, testsupport.SampleDocument(t), engine.WithLocation(time.UTC))

	when := time.Date(2024, 3, 9, 14, 5, 0, 0, time.FixedZone("X", 3600))
	if err := form.SetDateTime("f-when", when); err != nil {
		t.Fatalf("set date-time: %v", err)
	}
	if v, _ := form.State().Get("visitedAt"); v.Display() != "2024-03-09T13:05:00.000Z" {
		t.Fatalf("unexpected committed value %q", v.Display())
	}

	if err := form.SetDateTimeInput("f-when", "2024-03-10T08:30"); err != nil {
		t.Fatalf("set input: %v", err)
	}
	field := form.View().Sections[0].Fields[2]
	want := &engine.DateTimeView{
		Value:   "2024-03-10T08:30:00.000Z",
		Input:   "2024-03-10T08:30",
		Display: "2024-03-10 08:30",
	}
	if diff := cmp.Diff(want, field.DateTime); diff != "" {
		t.Fatalf("date-time view mismatch (-want +got):\n%s", diff)
	}

	if err := form.SetDateTimeInput("f-when", "tomorrow"); !errors.Is(err, engine.ErrInvalidDateTime) {
		t.Fatalf("expected ErrInvalidDateTime, got %v", err)
	}
	if err := form.SetDateTime("f-when", time.Time{}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if v, ok := form.State().Get("visitedAt"); !ok || v.Display() != "" {
		t.Fatalf("expected cleared value to be empty string")
	}
}

func TestForm_LifecycleReleasesListener(t *testing.T) {
	page := events.NewDocument()
	form := engine.New(testsupport.ExampleDocument(t))

	if err := form.SetText("age", "x"); !errors.Is(err, engine.ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
	if err := form.Mount(page); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := form.Mount(page); !errors.Is(err, engine.ErrAlreadyMounted) {
		t.Fatalf("expected ErrAlreadyMounted, got %v", err)
	}
	if page.ListenerCount() != 1 {
		t.Fatalf("expected one listener, got %d", page.ListenerCount())
	}

	if err := form.SetInteger("age", "3"); err != nil {
		t.Fatalf("SetInteger: %v", err)
	}
	form.Unmount()
	form.Unmount()
	if page.ListenerCount() != 0 {
		t.Fatalf("listener leaked after unmount")
	}
	if form.State().Len() != 0 {
		t.Fatalf("expected state dropped on unmount")
	}

	if err := form.Mount(page); err != nil {
		t.Fatalf("remount: %v", err)
	}
	defer form.Unmount()
	if form.State().Len() != 0 {
		t.Fatalf("expected fresh state on remount")
	}
}

func TestForm_UnknownFieldAndOption(t *testing.T) {
	form, _ := mountForm(t, testsupport.ExampleDocument(t))

	if err := form.SetText("nope", "x"); !errors.Is(err, engine.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := form.SetText("age", "x"); !errors.Is(err, engine.ErrNoWidget) {
		t.Fatalf("expected ErrNoWidget, got %v", err)
	}
	if err := form.SelectOption("color", "g"); !errors.Is(err, engine.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestForm_DefaultValuesAreOptIn(t *testing.T) {
	doc := testsupport.MustDecode(t, "defaults.json", `[
	  {"fieldid": "q", "fieldName": "qty", "title": "Qty", "fieldType": "numberInt", "defautVal": "5", "category": "c"},
	  {"fieldid": "s", "fieldName": "size", "title": "Size", "fieldType": "select", "dropVals": "{\"m\":\"M\"}", "defautVal": "m", "category": "c"}
	]`)

	plain, _ := mountForm(t, doc)
	if plain.State().Len() != 0 {
		t.Fatalf("defaults applied without opt-in")
	}

	seeded, _ := mountForm(t, doc, engine.WithDefaultValues())
	qty, _ := seeded.State().Get("qty")
	if n, ok := qty.Int(); !ok || n != 5 {
		t.Fatalf("expected qty=5, got %+v", qty)
	}
	if size, _ := seeded.State().Get("size"); size.Display() != "m" {
		t.Fatalf("expected size=m, got %q", size.Display())
	}
}
