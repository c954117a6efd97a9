package store

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestTagLifecycle(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	for _, name := range []string{"b", "a"} {
		if err := st.InsertTag(ctx, name); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}
	tags, err := st.ListTags(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !slices.Equal(tags, []string{"a", "b"}) {
		t.Fatalf("expected [a b], got %v", tags)
	}

	if err := st.InsertTag(ctx, "a"); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	if err := st.DeleteTag(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.DeleteTag(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	tags, _ = st.ListTags(ctx)
	if !slices.Equal(tags, []string{"b"}) {
		t.Fatalf("expected [b], got %v", tags)
	}
}

func TestTagNamesAreCaseSensitive(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.InsertTag(ctx, "Work"); err != nil {
		t.Fatalf("insert Work: %v", err)
	}
	if err := st.InsertTag(ctx, "work"); err != nil {
		t.Fatalf("insert work: %v", err)
	}
}

func TestCategoryValues(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	color, err := st.InsertCategory(ctx, "Color")
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	size, err := st.InsertCategory(ctx, "Size")
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	if _, err := st.InsertCategory(ctx, "Color"); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	for _, v := range []string{"Red", "Blue"} {
		if err := st.InsertCategoryValue(ctx, color, v); err != nil {
			t.Fatalf("insert value %s: %v", v, err)
		}
	}
	// The same value under another category is allowed.
	if err := st.InsertCategoryValue(ctx, size, "Red"); err != nil {
		t.Fatalf("insert value under other category: %v", err)
	}
	if err := st.InsertCategoryValue(ctx, color, "Red"); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if err := st.InsertCategoryValue(ctx, 9999, "Red"); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}

	values, err := st.ListCategoryValues(ctx, color)
	if err != nil {
		t.Fatalf("list values: %v", err)
	}
	if !slices.Equal(values, []string{"Blue", "Red"}) {
		t.Fatalf("expected [Blue Red], got %v", values)
	}

	got, err := st.CategoryID(ctx, "Color")
	if err != nil || got != color {
		t.Fatalf("category id: got %d, %v", got, err)
	}
	if _, err := st.CategoryID(ctx, "Missing"); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}

	if err := st.DeleteCategoryValue(ctx, color, "Blue"); err != nil {
		t.Fatalf("delete value: %v", err)
	}
	values, _ = st.ListCategoryValues(ctx, color)
	if !slices.Equal(values, []string{"Red"}) {
		t.Fatalf("expected [Red], got %v", values)
	}
}

func TestDeleteCategoryCascadesValues(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	color, err := st.InsertCategory(ctx, "Color")
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	if err := st.InsertCategoryValue(ctx, color, "Red"); err != nil {
		t.Fatalf("insert value: %v", err)
	}

	if err := st.DeleteCategory(ctx, color); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	values, err := st.ListCategoryValues(ctx, color)
	if err != nil {
		t.Fatalf("list values: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected values to cascade, got %v", values)
	}

	categories, err := st.ListCategoriesWithValues(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 0 {
		t.Fatalf("expected no categories, got %+v", categories)
	}
}
