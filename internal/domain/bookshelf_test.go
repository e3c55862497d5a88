package domain

import "testing"

func TestReadingStatusValid(t *testing.T) {
	valid := []ReadingStatus{StatusToRead, StatusReading, StatusRead}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	invalid := []ReadingStatus{"", "favorite", "done", "READ"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestValidRating(t *testing.T) {
	cases := []struct {
		rating float64
		want   bool
	}{
		{0, true}, // clears the rating
		{1, true},
		{3.5, true},
		{5, true},
		{0.5, false}, // below minimum
		{3.3, false}, // not a half-star step
		{5.5, false},
		{-1, false},
	}
	for _, tc := range cases {
		if got := ValidRating(tc.rating); got != tc.want {
			t.Errorf("ValidRating(%v) = %v, want %v", tc.rating, got, tc.want)
		}
	}
}

func TestEntryProgress(t *testing.T) {
	pages := func(n int) *int { return &n }

	e := BookshelfEntry{PagesRead: 50, TotalPages: pages(200)}
	if got := e.Progress(); got != 0.25 {
		t.Errorf("Progress() = %v, want 0.25", got)
	}

	e = BookshelfEntry{PagesRead: 10}
	if got := e.Progress(); got != 0 {
		t.Errorf("Progress() without total pages = %v, want 0", got)
	}

	e = BookshelfEntry{PagesRead: 300, TotalPages: pages(200)}
	if got := e.Progress(); got != 1 {
		t.Errorf("Progress() past the end = %v, want 1", got)
	}
}

func TestEntryPatchEmpty(t *testing.T) {
	if !(EntryPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	status := StatusRead
	if (EntryPatch{Status: &status}).Empty() {
		t.Error("patch with status should not be empty")
	}
}
