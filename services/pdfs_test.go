package services

import "testing"

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{812, "812 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5*(1<<20) + 300*(1<<10), "5.3 MB"},
	}
	for _, c := range cases {
		if got := FormatFileSize(c.in); got != c.want {
			t.Fatalf("FormatFileSize(%d)=%q, want %q", c.in, got, c.want)
		}
	}
}
