package publications

import "testing"

func TestPreviewPages(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{0, 0},
		{-3, 0},
		{1, 1},
		{3, 1},
		{4, 1},
		{5, 1},
		{6, 2},
		{10, 2},
		{11, 3},
		{20, 4},
		{100, 20},
		{101, 21},
	}
	for _, c := range cases {
		if got := PreviewPages(c.total); got != c.want {
			t.Fatalf("PreviewPages(%d) = %d, want %d", c.total, got, c.want)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range allCategories {
		if !c.Valid() {
			t.Fatalf("category %q should be valid", c)
		}
	}
	if Category("roman").Valid() {
		t.Fatalf("unknown category accepted")
	}
}
