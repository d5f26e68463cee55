package draftstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
)

func TestMemoryStore_MergeIsPerFieldLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := draftstore.NewMemoryStore()

	if err := store.Merge(ctx, "s1", draftstore.NamespaceNew, draftstore.Fields{
		draftstore.FieldTitle:    "Q1",
		draftstore.FieldOptional: "false",
	}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := store.Merge(ctx, "s1", draftstore.NamespaceNew, draftstore.Fields{
		draftstore.FieldTitle:        "Q1 renamed",
		draftstore.FieldResponseType: "Dropdown",
	}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	got, err := store.Get(ctx, "s1", draftstore.NamespaceNew)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := draftstore.Fields{
		draftstore.FieldTitle:        "Q1 renamed",
		draftstore.FieldOptional:     "false",
		draftstore.FieldResponseType: "Dropdown",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStore_NamespacesAndSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := draftstore.NewMemoryStore()

	_ = store.Merge(ctx, "s1", draftstore.NamespaceNew, draftstore.Fields{draftstore.FieldTitle: "new"})
	_ = store.Merge(ctx, "s1", draftstore.NamespaceUpdated, draftstore.Fields{draftstore.FieldTitle: "edit"})

	other, err := store.Get(ctx, "s2", draftstore.NamespaceNew)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty draft for other session, got %v", other)
	}

	value, ok, err := store.Field(ctx, "s1", draftstore.NamespaceUpdated, draftstore.FieldTitle)
	if err != nil || !ok || value != "edit" {
		t.Fatalf("unexpected field value %v (ok=%v, err=%v)", value, ok, err)
	}
}

func TestMemoryStore_DiscardDropsDraft(t *testing.T) {
	ctx := context.Background()
	store := draftstore.NewMemoryStore()
	_ = store.Merge(ctx, "s1", draftstore.NamespaceNew, draftstore.Fields{draftstore.FieldTitle: "Q"})

	if err := store.Discard(ctx, "s1", draftstore.NamespaceNew); err != nil {
		t.Fatalf("discard: %v", err)
	}
	got, _ := store.Get(ctx, "s1", draftstore.NamespaceNew)
	if len(got) != 0 {
		t.Fatalf("expected empty draft after discard, got %v", got)
	}
}

func TestMemoryStore_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	store := draftstore.NewMemoryStore()

	if _, err := store.Get(ctx, "", draftstore.NamespaceNew); !errors.Is(err, draftstore.ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
	if err := store.Merge(ctx, "s1", draftstore.Namespace("other"), draftstore.Fields{"a": "b"}); !errors.Is(err, draftstore.ErrUnknownNamespace) {
		t.Fatalf("expected ErrUnknownNamespace, got %v", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := draftstore.NewMemoryStore()
	_ = store.Merge(ctx, "s1", draftstore.NamespaceNew, draftstore.Fields{draftstore.FieldOptions: []string{"a", "b"}})

	got, _ := store.Get(ctx, "s1", draftstore.NamespaceNew)
	options, _ := got.Strings(draftstore.FieldOptions)
	options[0] = "mutated"
	got[draftstore.FieldTitle] = "mutated"

	again, _ := store.Get(ctx, "s1", draftstore.NamespaceNew)
	want := draftstore.Fields{draftstore.FieldOptions: []string{"a", "b"}}
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("stored draft mutated (-want +got):\n%s", diff)
	}
}

func TestDecode_ReadsJSONShapedValues(t *testing.T) {
	fields := draftstore.Fields{
		draftstore.FieldTitle:        "Colour",
		draftstore.FieldResponseType: "Dropdown",
		draftstore.FieldOptional:     false,
		draftstore.FieldOptions:      []any{"Red", "Blue"},
	}
	want := draftstore.QuestionDraft{
		FieldTitle:   "Colour",
		ResponseType: "Dropdown",
		Optional:     "false",
		Options:      []string{"Red", "Blue"},
	}
	if diff := cmp.Diff(want, draftstore.Decode(fields)); diff != "" {
		t.Fatalf("decoded draft mismatch (-want +got):\n%s", diff)
	}
}
