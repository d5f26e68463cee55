package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/render"
)

func TestTranslateErrors_GroupErrorExpandsPerElement(t *testing.T) {
	errs := []render.FieldError{{FieldName: "options", ErrorMessage: "Enter an option"}}

	got := render.TranslateErrors(errs, map[string]int{"options": 3})

	want := []render.FieldError{
		{FieldName: "options[0]", ErrorMessage: "Enter an option"},
		{FieldName: "options[1]", ErrorMessage: "Enter an option"},
		{FieldName: "options[2]", ErrorMessage: "Enter an option"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("translated errors mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateErrors_ElementErrorRewritten(t *testing.T) {
	errs := []render.FieldError{{FieldName: "options.1.msg", ErrorMessage: "Option must be unique"}}

	got := render.TranslateErrors(errs, map[string]int{"options": 3})

	want := []render.FieldError{{FieldName: "options[1]", ErrorMessage: "Option must be unique"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("translated errors mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateErrors_PassthroughAndNumericOrdering(t *testing.T) {
	errs := []render.FieldError{
		{FieldName: "options.10.value", ErrorMessage: "ten"},
		{FieldName: "options.2.value", ErrorMessage: "two"},
		{FieldName: "fieldTitle", ErrorMessage: "Enter a question"},
		{FieldName: "options.0.value", ErrorMessage: "zero"},
		{FieldName: "options.1.value", ErrorMessage: "one"},
	}

	got := render.TranslateErrors(errs, map[string]int{"options": 11})

	want := []render.FieldError{
		{FieldName: "fieldTitle", ErrorMessage: "Enter a question"},
		{FieldName: "options[0]", ErrorMessage: "zero"},
		{FieldName: "options[1]", ErrorMessage: "one"},
		{FieldName: "options[2]", ErrorMessage: "two"},
		{FieldName: "options[10]", ErrorMessage: "ten"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("translated errors mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateErrors_UnknownShapesPassThrough(t *testing.T) {
	errs := []render.FieldError{
		{FieldName: "options.x.msg", ErrorMessage: "not an index"},
		{FieldName: "maxWords", ErrorMessage: "Enter a number"},
		{FieldName: "validation.maxWords", ErrorMessage: "Too many"},
	}

	got := render.TranslateErrors(errs, map[string]int{"options": 2})

	want := []render.FieldError{
		{FieldName: "maxWords", ErrorMessage: "Enter a number"},
		{FieldName: "options.x.msg", ErrorMessage: "not an index"},
		{FieldName: "validation.maxWords", ErrorMessage: "Too many"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("translated errors mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateErrors_EmptyGroupStaysAddressable(t *testing.T) {
	errs := []render.FieldError{{FieldName: "options", ErrorMessage: "Add at least one option"}}

	got := render.TranslateErrors(errs, map[string]int{"options": 0})

	want := []render.FieldError{{FieldName: "options[0]", ErrorMessage: "Add at least one option"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("translated errors mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsByField_GroupsAndNormalises(t *testing.T) {
	errs := []render.FieldError{
		{FieldName: "options[0]", ErrorMessage: " Enter an option "},
		{FieldName: "options[0]", ErrorMessage: "Enter an option"},
		{FieldName: "fieldTitle", ErrorMessage: "   "},
		{FieldName: "hintText", ErrorMessage: "Too long"},
	}

	got := render.ErrorsByField(errs)

	want := map[string][]string{
		"options[0]": {"Enter an option"},
		"hintText":   {"Too long"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grouped errors mismatch (-want +got):\n%s", diff)
	}
}
