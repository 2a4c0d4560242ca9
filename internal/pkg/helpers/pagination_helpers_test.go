package helpers

import "testing"

func TestCalculateOffsetLimit(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page default size", 1, 20, 0, 20},
		{"second page", 2, 20, 20, 20},
		{"zero page clamps to first", 0, 10, 0, 10},
		{"negative page clamps to first", -3, 10, 0, 10},
		{"zero size uses default", 1, 0, 0, DefaultPageSize},
		{"oversized uses default", 1, 1000, 0, DefaultPageSize},
		{"max size accepted", 3, MaxPageSize, 200, MaxPageSize},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(c.page, c.size)
			if offset != c.wantOffset || limit != c.wantLimit {
				t.Errorf("CalculateOffsetLimit(%d, %d) = (%d, %d), want (%d, %d)",
					c.page, c.size, offset, limit, c.wantOffset, c.wantLimit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	if info.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", info.TotalPages)
	}
	if info.CurrentPage != 2 {
		t.Errorf("current page = %d, want 2", info.CurrentPage)
	}
	if info.TotalItems != 45 {
		t.Errorf("total items = %d, want 45", info.TotalItems)
	}
}

func TestNewPaginationInfo_EmptyResult(t *testing.T) {
	info := NewPaginationInfo(0, 1, 20)
	if info.TotalPages != 1 {
		t.Errorf("empty result on page 1 should report 1 page, got %d", info.TotalPages)
	}
}

func TestNewPaginationInfo_PageBeyondEnd(t *testing.T) {
	info := NewPaginationInfo(10, 9, 20)
	if info.CurrentPage != 1 {
		t.Errorf("current page = %d, want clamp to 1", info.CurrentPage)
	}
}
