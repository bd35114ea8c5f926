package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/state"
	"github.com/goliatone/go-formengine/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func mounted(t *testing.T, raw string) *engine.Form {
	t.Helper()
	form := engine.New(testsupport.MustDecode(t, "tui.json", raw))
	if err := form.Mount(nil); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(form.Unmount)
	return form
}

func TestFill_ReasksMissingRequiredFields(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "30"},
		selectIdx: []int{1},
		confirm:   []bool{true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := mounted(t, testsupport.ExampleDocumentJSON)
	submission, err := r.Fill(context.Background(), form)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{"age": float64(30), "color": "r"}
	if diff := cmp.Diff(want, testsupport.MustUnmarshalJSON(t, submission.JSON)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	wantPrompts := []string{"age *", "color", "Fill in the missing fields now?", "age *"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt sequence mismatch (-want +got):\n%s", diff)
	}
	if driver.infoMessages[0] != "Please fill in the required field(s): age" {
		t.Fatalf("expected missing-field message first, got %v", driver.infoMessages)
	}
	if form.OpenDropdown() != "" {
		t.Fatalf("dropdown left open after fill")
	}
}

func TestFill_GiveUp(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"abc"},
		selectIdx: []int{0},
		confirm:   []bool{false},
	}
	r, _ := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))

	_, err := r.Fill(context.Background(), mounted(t, testsupport.ExampleDocumentJSON))
	if !errors.Is(err, ErrGaveUp) {
		t.Fatalf("expected ErrGaveUp, got %v", err)
	}
	var missing *engine.MissingFieldsError
	if !errors.As(err, &missing) || len(missing.Titles) != 1 {
		t.Fatalf("expected wrapped MissingFieldsError, got %v", err)
	}
	if driver.infoMessages[0] != "! Please fill in the required field(s): age" {
		t.Fatalf("unexpected message %q", driver.infoMessages[0])
	}
}

func TestFill_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"0"}, selectIdx: []int{0}}
	r, _ := New(WithPromptDriver(driver), WithMaxAttempts(1))

	if _, err := r.Fill(context.Background(), mounted(t, testsupport.ExampleDocumentJSON)); !errors.Is(err, ErrGaveUp) {
		t.Fatalf("expected ErrGaveUp after one attempt, got %v", err)
	}
	if driver.confirmPos != 0 {
		t.Fatalf("expected no retry prompt")
	}
}

func TestFill_AuxiliaryWidgets(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"yesterday", "2024-05-06 07:08", "/tmp/notes.txt", "/tmp/site.jpg"},
		textAreas: []string{"windy"},
	}
	inspected := map[string]state.FileRef{
		"/tmp/notes.txt": {Name: "notes.txt", ContentType: "text/plain"},
		"/tmp/site.jpg":  {Name: "site.jpg", ContentType: "image/jpeg"},
	}
	r, _ := New(WithPromptDriver(driver), WithFileInspector(func(path string) (state.FileRef, error) {
		return inspected[path], nil
	}))

	form := mounted(t, `[
	  {"fieldid": "when", "fieldName": "when", "title": "When", "fieldType": "datetime", "category": "c",
	   "requiresPhoto": 1, "commentField": 1, "commentFieldName": "whenNote", "inputReq": 1}
	]`)
	submission, err := r.Fill(context.Background(), form)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	got := testsupport.MustUnmarshalJSON(t, submission.JSON)
	if got["whenNote"] != "windy" {
		t.Fatalf("expected comment committed, got %v", got)
	}
	if got["when"] == "" || got["when"] == nil {
		t.Fatalf("expected date-time committed, got %v", got)
	}
	if len(driver.infoMessages) < 2 || !strings.Contains(driver.infoMessages[0], "is not a date and time") ||
		!strings.Contains(driver.infoMessages[1], "photo must be an image") {
		t.Fatalf("expected re-prompt messages, got %v", driver.infoMessages)
	}
}

func TestFill_RequiresMountedForm(t *testing.T) {
	r, _ := New(WithPromptDriver(&stubDriver{}))
	form := engine.New(testsupport.ExampleDocument(t))
	if _, err := r.Fill(context.Background(), form); !errors.Is(err, engine.ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
}

func TestRender_Summary(t *testing.T) {
	r, _ := New(WithPromptDriver(&stubDriver{}))
	form := mounted(t, testsupport.ExampleDocumentJSON)
	if err := form.SelectOption("color", "b"); err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	if _, err := form.Submit(); err == nil {
		t.Fatalf("expected missing required fields")
	}

	out, err := r.Render(context.Background(), form.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"Form Generator",
		"==============",
		"",
		"Basic",
		"-----",
		"  age *: -",
		"  color: Blue",
		"",
		"Please fill in the required field(s): age",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainHelp(t *testing.T) {
	if got := plainHelp(" Use <b>full</b> name & initials "); got != "Use full name & initials" {
		t.Fatalf("unexpected help %q", got)
	}
}
