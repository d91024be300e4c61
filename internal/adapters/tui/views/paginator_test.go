package views

import "testing"

func TestPaginator_CursorMovesAcrossPages(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(7)

	for i := 0; i < 4; i++ {
		p.CursorDown()
	}
	if p.Cursor() != 4 {
		t.Fatalf("cursor = %d, want 4", p.Cursor())
	}
	if p.CurrentPage() != 2 {
		t.Errorf("page = %d, want 2", p.CurrentPage())
	}
	start, end := p.VisibleRange()
	if start != 3 || end != 6 {
		t.Errorf("range = [%d,%d), want [3,6)", start, end)
	}

	p.CursorDown()
	if !p.CursorDown() {
		t.Error("expected to reach the last row")
	}
	if p.CursorDown() {
		t.Error("cursor moved past the last row")
	}
	start, end = p.VisibleRange()
	if start != 6 || end != 7 {
		t.Errorf("last page range = [%d,%d), want [6,7)", start, end)
	}
}

func TestPaginator_Pages(t *testing.T) {
	p := NewPaginator(5)
	p.SetTotal(12)

	if p.TotalPages() != 3 {
		t.Fatalf("total pages = %d, want 3", p.TotalPages())
	}
	if !p.NextPage() || !p.NextPage() {
		t.Fatal("expected two page turns")
	}
	if p.NextPage() {
		t.Error("turned past the last page")
	}
	if p.Cursor() != 10 {
		t.Errorf("cursor = %d, want 10", p.Cursor())
	}
	if !p.PrevPage() || p.Cursor() != 5 {
		t.Errorf("after prev page cursor = %d, want 5", p.Cursor())
	}
}

func TestPaginator_EmptyAndShrinking(t *testing.T) {
	p := NewPaginator(0)
	if p.TotalPages() != 1 {
		t.Errorf("empty list pages = %d, want 1", p.TotalPages())
	}
	if p.CursorDown() || p.CursorUp() {
		t.Error("cursor moved in an empty list")
	}

	p.SetTotal(30)
	for i := 0; i < 25; i++ {
		p.CursorDown()
	}
	p.SetTotal(4)
	if p.Cursor() != 3 {
		t.Errorf("cursor = %d after shrink, want 3", p.Cursor())
	}
	if start, _ := p.VisibleRange(); start != 0 {
		t.Errorf("page offset = %d after shrink, want 0", start)
	}
}

func TestPaginator_SetPageSizeKeepsCursorVisible(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(40)
	for i := 0; i < 23; i++ {
		p.CursorDown()
	}

	p.SetPageSize(5)
	start, end := p.VisibleRange()
	if p.Cursor() < start || p.Cursor() >= end {
		t.Errorf("cursor %d outside visible range [%d,%d)", p.Cursor(), start, end)
	}
	if p.CurrentPage() != 5 {
		t.Errorf("page = %d, want 5", p.CurrentPage())
	}
}
