package services

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func intRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginatePageNeverExceedsPageSize(t *testing.T) {
	for _, total := range []int{0, 1, 4, 5, 11, 23, 100} {
		for _, size := range []int{5, 10, 20} {
			items := intRange(total)
			pages := TotalPages(total, size)
			for page := 1; page <= pages+2; page++ {
				res := Paginate(items, size, page)
				if len(res.Items) > size {
					t.Fatalf("Paginate(total=%d,size=%d,page=%d) returned %d items", total, size, page, len(res.Items))
				}
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{12, 5, 3},
		{11, 5, 3},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.size); got != c.want {
			t.Fatalf("TotalPages(%d,%d)=%d, want %d", c.total, c.size, got, c.want)
		}
	}
}

func TestFilterItemsEmptyQueryReturnsAll(t *testing.T) {
	items := []string{"Alpha", "beta", "Gamma"}
	got := FilterItems(items, "", ContainsFold)
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("empty query changed the collection: %v", got)
	}
}

func TestFilterItemsCaseFolded(t *testing.T) {
	items := []string{"How often do you exercise?", "What is your age?", "Do you smoke?"}
	got := FilterItems(items, "EXERCISE", ContainsFold)
	if len(got) != 1 || !strings.Contains(got[0], "exercise") {
		t.Fatalf("case-folded filter failed: %v", got)
	}
}

func TestQueryMatchingNothingYieldsZeroPages(t *testing.T) {
	// 12 Items, Seite 3 aktiv, Query trifft nichts: 0 Seiten, keine Controls.
	items := intRange(12)
	filtered := FilterItems(items, "nomatch", func(int, string) bool { return false })
	res := Paginate(filtered, 5, 1)
	if res.TotalPages != 0 || res.TotalItems != 0 {
		t.Fatalf("expected 0 pages / 0 items, got %d/%d", res.TotalPages, res.TotalItems)
	}
	if len(res.PageNumbers) != 0 {
		t.Fatalf("expected no page numbers, got %v", res.PageNumbers)
	}
}

func TestClampPageAfterDeletion(t *testing.T) {
	// 11 Items, Seitengröße 5, Seite 3 zeigt genau 1 Item. Nach dem Löschen
	// bleiben 10 Items / 2 Seiten; die aktuelle Seite muss auf 2 fallen.
	if got := ClampPage(3, TotalPages(10, 5)); got != 2 {
		t.Fatalf("ClampPage after delete = %d, want 2", got)
	}
	if got := ClampPage(1, 0); got != 1 {
		t.Fatalf("ClampPage with 0 pages = %d, want 1", got)
	}
	if got := ClampPage(2, 5); got != 2 {
		t.Fatalf("ClampPage within range = %d, want 2", got)
	}
}

func TestPaginateOutOfRangeYieldsEmptyPage(t *testing.T) {
	res := Paginate(intRange(8), 5, 4)
	if len(res.Items) != 0 {
		t.Fatalf("out-of-range page not empty: %v", res.Items)
	}
	if res.TotalPages != 2 || res.TotalItems != 8 {
		t.Fatalf("metadata wrong: %+v", res)
	}
}

func TestPageNumbersSlidingWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []string
	}{
		{1, 10, []string{"1", "2", "3", "4", "...", "10"}},
		{3, 10, []string{"1", "2", "3", "4", "...", "10"}},
		{10, 10, []string{"1", "...", "7", "8", "9", "10"}},
		{8, 10, []string{"1", "...", "7", "8", "9", "10"}},
		{5, 10, []string{"1", "...", "4", "5", "6", "...", "10"}},
		{1, 5, []string{"1", "2", "3", "4", "5"}},
		{1, 1, []string{"1"}},
		{1, 0, []string{}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("cur%d_total%d", c.current, c.total), func(t *testing.T) {
			got := PageNumbers(c.current, c.total)
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("PageNumbers(%d,%d)=%v, want %v", c.current, c.total, got, c.want)
			}
		})
	}
}

func TestNormalizePageSize(t *testing.T) {
	cases := map[int]int{5: 5, 10: 10, 20: 20, 0: 10, -1: 10, 7: 10, 1000: 10}
	for in, want := range cases {
		if got := NormalizePageSize(in); got != want {
			t.Fatalf("NormalizePageSize(%d)=%d, want %d", in, got, want)
		}
	}
}
