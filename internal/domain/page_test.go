package domain

import "testing"

func TestNormalizePage(t *testing.T) {
	cases := []struct{ in, want int }{
		{-3, 1},
		{0, 1},
		{1, 1},
		{42, 42},
	}
	for _, tc := range cases {
		if got := NormalizePage(tc.in); got != tc.want {
			t.Fatalf("NormalizePage(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := []struct{ in, def, want int }{
		{0, 10, 10},
		{0, 20, 20},
		{-5, 10, 1},
		{1, 10, 1},
		{100, 10, 100},
		{250, 10, 100},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in, tc.def); got != tc.want {
			t.Fatalf("NormalizeLimit(%d, %d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestOffset(t *testing.T) {
	cases := []struct{ page, limit, want int }{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
	}
	for _, tc := range cases {
		if got := Offset(tc.page, tc.limit); got != tc.want {
			t.Fatalf("Offset(%d, %d) = %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, limit, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 10, 10},
		{101, 10, 11},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.limit); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
