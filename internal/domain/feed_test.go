package domain

import "testing"

func TestClassifyActivity(t *testing.T) {
	rating := 4.5
	pages := 42

	cases := []struct {
		name  string
		entry BookshelfEntry
		want  ActivityType
	}{
		{"rating wins over everything", BookshelfEntry{Rating: &rating, IsFavorite: true, Status: StatusRead}, ActivityRating},
		{"favorite before status", BookshelfEntry{IsFavorite: true, Status: StatusRead}, ActivityFavorite},
		{"finished book", BookshelfEntry{Status: StatusRead}, ActivityCompleted},
		{"currently reading", BookshelfEntry{Status: StatusReading}, ActivityStartedReading},
		{"page progress without status", BookshelfEntry{PagesRead: pages}, ActivityProgress},
		{"freshly shelved", BookshelfEntry{Status: StatusToRead}, ActivityAddedToShelf},
		{"fallback", BookshelfEntry{}, ActivityUpdate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyActivity(&tc.entry); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
