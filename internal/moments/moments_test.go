package moments

import (
	"testing"
	"time"

	"noous-backend/internal/models"
)

var now = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func surpriseAgedDays(id string, days int) models.Surprise {
	return models.Surprise{
		ID:         id,
		Type:       models.SurpriseTypeMessage,
		Title:      "hey",
		SenderName: "Ana",
		CreatedAt:  now.AddDate(0, 0, -days),
	}
}

func TestDerivePreservesLengthAndOrder(t *testing.T) {
	surprises := []models.Surprise{
		surpriseAgedDays("a", 0),
		surpriseAgedDays("b", 3),
		surpriseAgedDays("c", 45),
	}

	ms := Derive(surprises, now)
	if len(ms) != len(surprises) {
		t.Fatalf("expected %d moments, got %d", len(surprises), len(ms))
	}
	for i, m := range ms {
		if m.ID != surprises[i].ID {
			t.Errorf("moment %d: expected id %s, got %s", i, surprises[i].ID, m.ID)
		}
	}
}

func TestDeriveSizeTiers(t *testing.T) {
	tests := []struct {
		days int
		size string
	}{
		{0, SizeLarge},
		{1, SizeMedium},
		{7, SizeMedium},
		{30, SizeMedium},
		{31, SizeSmall},
		{365, SizeSmall},
	}

	for _, tt := range tests {
		ms := Derive([]models.Surprise{surpriseAgedDays("x", tt.days)}, now)
		if ms[0].DaysAgo != tt.days {
			t.Errorf("days=%d: expected DaysAgo %d, got %d", tt.days, tt.days, ms[0].DaysAgo)
		}
		if ms[0].Size != tt.size {
			t.Errorf("days=%d: expected size %s, got %s", tt.days, tt.size, ms[0].Size)
		}
	}
}

func TestDeriveDefaultsAuthor(t *testing.T) {
	s := surpriseAgedDays("x", 1)
	s.SenderName = ""

	ms := Derive([]models.Surprise{s}, now)
	if ms[0].Author != "Anônimo" {
		t.Fatalf("expected default author, got %q", ms[0].Author)
	}
}

func TestAuthorColorStable(t *testing.T) {
	// Same name length, same color.
	if AuthorColor("Ana") != AuthorColor("Bia") {
		t.Error("expected equal colors for equal-length names")
	}
	if AuthorColor("Ana") != AuthorColor("Ana") {
		t.Error("expected color to be deterministic")
	}
}

func TestDeriveUnknownAge(t *testing.T) {
	s := surpriseAgedDays("x", 0)
	s.CreatedAt = time.Time{}

	ms := Derive([]models.Surprise{s}, now)
	if ms[0].DaysAgo != UnknownAge {
		t.Fatalf("expected UnknownAge, got %d", ms[0].DaysAgo)
	}
	if ms[0].Size != SizeSmall {
		t.Errorf("expected small size for unknown age, got %s", ms[0].Size)
	}
	if ms[0].Date != "" {
		t.Errorf("expected empty date for unknown age, got %q", ms[0].Date)
	}

	// Excluded from every bounded period, present under "all".
	for _, p := range []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodYear} {
		if got := FilterByPeriod(ms, p); len(got) != 0 {
			t.Errorf("period %s: expected unknown-age moment excluded, got %d", p, len(got))
		}
	}
	if got := FilterByPeriod(ms, PeriodAll); len(got) != 1 {
		t.Errorf("period all: expected 1 moment, got %d", len(got))
	}
}

func TestFilterByPeriod(t *testing.T) {
	ms := Derive([]models.Surprise{
		surpriseAgedDays("d0", 0),
		surpriseAgedDays("d5", 5),
		surpriseAgedDays("d20", 20),
		surpriseAgedDays("d100", 100),
		surpriseAgedDays("d400", 400),
	}, now)

	tests := []struct {
		period Period
		want   int
	}{
		{PeriodToday, 1},
		{PeriodWeek, 2},
		{PeriodMonth, 3},
		{PeriodYear, 4},
		{PeriodAll, 5},
	}
	for _, tt := range tests {
		if got := FilterByPeriod(ms, tt.period); len(got) != tt.want {
			t.Errorf("period %s: expected %d moments, got %d", tt.period, tt.want, len(got))
		}
	}
}

func TestFilterIdempotent(t *testing.T) {
	ms := Derive([]models.Surprise{
		surpriseAgedDays("d0", 0),
		surpriseAgedDays("d5", 5),
		surpriseAgedDays("d100", 100),
	}, now)

	for _, p := range []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll} {
		once := FilterByPeriod(ms, p)
		twice := FilterByPeriod(once, p)
		if len(once) != len(twice) {
			t.Fatalf("period %s: filter not idempotent (%d vs %d)", p, len(once), len(twice))
		}
		for i := range once {
			if once[i].ID != twice[i].ID {
				t.Fatalf("period %s: order changed on refilter", p)
			}
		}
	}
}

func TestFilterMonotone(t *testing.T) {
	ms := Derive([]models.Surprise{
		surpriseAgedDays("d0", 0),
		surpriseAgedDays("d3", 3),
		surpriseAgedDays("d10", 10),
		surpriseAgedDays("d50", 50),
		surpriseAgedDays("d200", 200),
	}, now)

	chain := []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll}
	prev := -1
	for _, p := range chain {
		n := len(FilterByPeriod(ms, p))
		if n < prev {
			t.Fatalf("period %s returned %d moments, fewer than the narrower period's %d", p, n, prev)
		}
		prev = n
	}
	if got := FilterByPeriod(ms, PeriodAll); len(got) != len(ms) {
		t.Fatalf("period all must return everything, got %d of %d", len(got), len(ms))
	}
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{"empty", nil, 0},
		{"single today", []int{0}, 1},
		{"today and yesterday", []int{0, 1}, 2},
		{"quiet today, active yesterday", []int{1, 2, 3}, 3},
		// Activity only two days ago: day 0 is forgiven, day 1 is empty
		// and breaks the scan before day 2 is ever reached.
		{"only two days ago", []int{2}, 0},
		{"gap in the middle", []int{0, 1, 3, 4}, 2},
		{"duplicates on one day", []int{0, 0, 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var surprises []models.Surprise
			for i, d := range tt.days {
				surprises = append(surprises, surpriseAgedDays(string(rune('a'+i)), d))
			}
			ms := Derive(surprises, now)
			if got := Streak(ms, now); got != tt.want {
				t.Errorf("expected streak %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStreakIgnoresUnknownAge(t *testing.T) {
	s := surpriseAgedDays("x", 0)
	s.CreatedAt = time.Time{}
	ms := Derive([]models.Surprise{s}, now)
	if got := Streak(ms, now); got != 0 {
		t.Fatalf("expected streak 0, got %d", got)
	}
}

func TestMomentOfDayStableWithinDay(t *testing.T) {
	ms := Derive([]models.Surprise{
		surpriseAgedDays("a", 8),
		surpriseAgedDays("b", 20),
		surpriseAgedDays("c", 90),
	}, now)

	first := MomentOfDay(ms, now, "user-1")
	if first == nil {
		t.Fatal("expected a pick")
	}
	for i := 0; i < 10; i++ {
		again := MomentOfDay(ms, now.Add(time.Duration(i)*time.Minute), "user-1")
		if again == nil || again.ID != first.ID {
			t.Fatal("expected the pick to be stable within a day")
		}
	}
}

func TestMomentOfDayRequiresOldMoments(t *testing.T) {
	ms := Derive([]models.Surprise{
		surpriseAgedDays("a", 0),
		surpriseAgedDays("b", 6),
	}, now)
	if got := MomentOfDay(ms, now, "user-1"); got != nil {
		t.Fatalf("expected no pick among recent moments, got %s", got.ID)
	}
}

func TestMomentOfDaySkipsUnknownAge(t *testing.T) {
	s := surpriseAgedDays("x", 0)
	s.CreatedAt = time.Time{}
	ms := Derive([]models.Surprise{s}, now)
	if got := MomentOfDay(ms, now, "user-1"); got != nil {
		t.Fatalf("expected no pick, got %s", got.ID)
	}
}

func TestCountType(t *testing.T) {
	a := surpriseAgedDays("a", 1)
	a.Type = models.SurpriseTypeMusic
	b := surpriseAgedDays("b", 2)
	b.Type = models.SurpriseTypePhoto
	c := surpriseAgedDays("c", 3)
	c.Type = models.SurpriseTypeMusic

	ms := Derive([]models.Surprise{a, b, c}, now)
	if got := CountType(ms, models.SurpriseTypeMusic); got != 2 {
		t.Errorf("expected 2 music moments, got %d", got)
	}
	if got := CountType(ms, models.SurpriseTypePhoto); got != 1 {
		t.Errorf("expected 1 photo moment, got %d", got)
	}
}
