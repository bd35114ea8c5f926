package widgets_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

func TestResolve_CoversEveryFieldType(t *testing.T) {
	for _, fieldType := range descriptor.FieldTypes() {
		plan, err := widgets.Resolve(descriptor.Descriptor{Type: fieldType})
		if err != nil {
			t.Fatalf("type %q: %v", fieldType, err)
		}
		if plan.Primary == "" {
			t.Fatalf("type %q resolved without a primary widget", fieldType)
		}
	}
}

func TestResolve_UnknownType(t *testing.T) {
	_, err := widgets.Resolve(descriptor.Descriptor{Type: "rating"})
	if !errors.Is(err, descriptor.ErrUnknownFieldType) {
		t.Fatalf("expected ErrUnknownFieldType, got %v", err)
	}
}

func TestPlan_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		field descriptor.Descriptor
		want  []widgets.Kind
	}{
		{
			name:  "text",
			field: descriptor.Descriptor{Type: descriptor.FieldTypeText},
			want:  []widgets.Kind{widgets.KindText},
		},
		{
			name:  "photo type renders one picker",
			field: descriptor.Descriptor{Type: descriptor.FieldTypePhoto, RequiresPhoto: true},
			want:  []widgets.Kind{widgets.KindPhoto},
		},
		{
			name:  "requires photo adds picker",
			field: descriptor.Descriptor{Type: descriptor.FieldTypeInteger, RequiresPhoto: true},
			want:  []widgets.Kind{widgets.KindInteger, widgets.KindPhoto},
		},
		{
			name:  "comment without key still renders",
			field: descriptor.Descriptor{Type: descriptor.FieldTypeSelect, CommentEnabled: true},
			want:  []widgets.Kind{widgets.KindSelect, widgets.KindComment},
		},
		{
			name: "everything",
			field: descriptor.Descriptor{
				Type:             descriptor.FieldTypeDateTime,
				RequiresPhoto:    true,
				CommentEnabled:   true,
				CommentFieldName: "note",
				HelpText:         "help",
			},
			want: []widgets.Kind{widgets.KindDateTime, widgets.KindPhoto, widgets.KindComment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := widgets.For(tt.field)
			if diff := cmp.Diff(tt.want, plan.Kinds()); diff != "" {
				t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlan_Has(t *testing.T) {
	plan := widgets.For(descriptor.Descriptor{
		Type:     descriptor.FieldTypeText,
		HelpText: "Shown on demand",
	})
	if !plan.Has(widgets.KindText) || !plan.Has(widgets.KindHelp) {
		t.Fatalf("expected text and help widgets")
	}
	if plan.Has(widgets.KindSelect) || plan.Has(widgets.KindPhoto) || plan.Has(widgets.KindComment) {
		t.Fatalf("unexpected widgets in plan %+v", plan)
	}
}
