package classify_test

import (
	"testing"

	"github.com/vanderheijden86/tracelane/pkg/classify"
	"github.com/vanderheijden86/tracelane/pkg/model"
)

func TestLookupKnownCategories(t *testing.T) {
	for _, cat := range classify.KnownCategories() {
		scheme := classify.Lookup(cat)
		if scheme.Primary == "" || scheme.Secondary == "" || scheme.Border == "" {
			t.Errorf("category %s: incomplete scheme %+v", cat, scheme)
		}
		if scheme.Primary == scheme.Secondary || scheme.Primary == scheme.Border {
			t.Errorf("category %s: derived shades identical to primary: %+v", cat, scheme)
		}
	}
}

func TestLookupIsTotal(t *testing.T) {
	def := classify.Lookup("NO_SUCH_CATEGORY")
	if def.Primary == "" {
		t.Fatal("unmapped category must still get a scheme")
	}
	// Stable: every unmapped category gets the same default triple.
	if other := classify.Lookup("ANOTHER_ONE"); other != def {
		t.Errorf("default scheme not stable: %+v vs %+v", def, other)
	}
	if classify.Known("NO_SUCH_CATEGORY") {
		t.Error("Known() should be false for unmapped categories")
	}
}

func TestLookupDeterministic(t *testing.T) {
	a := classify.Lookup("MAIN")
	b := classify.Lookup("MAIN")
	if a != b {
		t.Errorf("Lookup not deterministic: %+v vs %+v", a, b)
	}
}

func TestCategoriesFirstAppearanceOrder(t *testing.T) {
	intervals := []*model.Interval{
		{Category: "ROM"},
		{Category: "MAIN"},
		{Category: "ROM"},
		{Category: "ARITH"},
		{Category: "MAIN"},
	}
	got := classify.Categories(intervals)
	want := []string{"ROM", "MAIN", "ARITH"}
	if len(got) != len(want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Categories = %v, want %v", got, want)
		}
	}
}

func TestCategoriesEmpty(t *testing.T) {
	if got := classify.Categories(nil); len(got) != 0 {
		t.Errorf("Categories(nil) = %v, want empty", got)
	}
}
