package moments

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
	"unicode/utf8"

	"noous-backend/internal/models"
)

// Display size tiers derived from a moment's age
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// UnknownAge is the DaysAgo value assigned when a surprise carries no usable
// creation timestamp. It is large enough to fall outside every bounded
// period, so such moments only ever show up under the "all" filter.
const UnknownAge = 1 << 30

const defaultAuthor = "Anônimo"

// authorPalette is the fixed color set keyed by sender-name length. The
// keying is crude and collision-prone on purpose: it must stay stable for
// existing users, so it is not a real hash.
var authorPalette = [4]string{"#FF6B6B", "#4ECDC4", "#FFD93D", "#A29BFE"}

// Moment is the display-oriented derived form of a Surprise. It is
// recomputed from the surprise list on every request and never persisted.
type Moment struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Author      string            `json:"author"`
	AuthorColor string            `json:"author_color"`
	Date        string            `json:"date"`
	Reactions   []models.Reaction `json:"reactions"`
	IsPrivate   bool              `json:"is_private"`
	Size        string            `json:"size"`
	CreatedAt   time.Time         `json:"created_at"`
	DaysAgo     int               `json:"days_ago"`
}

// Derive converts surprises into moments, one per input in input order.
func Derive(surprises []models.Surprise, now time.Time) []Moment {
	out := make([]Moment, 0, len(surprises))
	for _, s := range surprises {
		out = append(out, deriveOne(s, now))
	}
	return out
}

func deriveOne(s models.Surprise, now time.Time) Moment {
	m := Moment{
		ID:        s.ID,
		Type:      s.Type,
		Title:     s.Title,
		Content:   s.Content,
		Reactions: s.Reactions,
		IsPrivate: s.IsPrivate,
		CreatedAt: s.CreatedAt,
	}

	m.Author = s.SenderName
	if m.Author == "" {
		m.Author = defaultAuthor
	}
	m.AuthorColor = AuthorColor(m.Author)

	if s.CreatedAt.IsZero() {
		m.DaysAgo = UnknownAge
	} else {
		m.DaysAgo = daysBetween(s.CreatedAt, now)
		m.Date = s.CreatedAt.Format("02/01/2006")
	}
	m.Size = sizeFor(m.DaysAgo)

	return m
}

// AuthorColor picks a palette entry from the sender name's length.
func AuthorColor(name string) string {
	return authorPalette[utf8.RuneCountInString(name)%len(authorPalette)]
}

func sizeFor(daysAgo int) string {
	switch {
	case daysAgo == 0:
		return SizeLarge
	case daysAgo > 30:
		return SizeSmall
	default:
		return SizeMedium
	}
}

func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// Period selects the age cutoff applied by FilterByPeriod.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod validates a period selector, defaulting empty input to "all".
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(s), nil
	case "":
		return PeriodAll, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// FilterByPeriod returns the order-preserving subsequence of moments whose
// age falls inside the period. Filtering is idempotent and each period is a
// superset of the shorter ones.
func FilterByPeriod(ms []Moment, p Period) []Moment {
	if p == PeriodAll {
		return ms
	}
	var cutoff int
	switch p {
	case PeriodToday:
		cutoff = 0
	case PeriodWeek:
		cutoff = 7
	case PeriodMonth:
		cutoff = 30
	case PeriodYear:
		cutoff = 365
	default:
		return ms
	}
	out := make([]Moment, 0, len(ms))
	for _, m := range ms {
		if m.DaysAgo <= cutoff {
			out = append(out, m)
		}
	}
	return out
}

// Streak counts consecutive active calendar days ending today. A quiet
// "today" does not break the run: the scan only stops at the first empty
// day strictly before today, so the streak is not zeroed before the current
// day has ended.
func Streak(ms []Moment, now time.Time) int {
	if len(ms) == 0 {
		return 0
	}

	active := make(map[time.Time]bool, len(ms))
	for _, m := range ms {
		if m.CreatedAt.IsZero() {
			continue
		}
		active[midnight(m.CreatedAt.In(now.Location()))] = true
	}

	today := midnight(now)
	streak := 0
	for i := 0; i < 365; i++ {
		day := today.AddDate(0, 0, -i)
		if active[day] {
			streak++
			continue
		}
		if i > 0 {
			break
		}
	}
	return streak
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MomentOfDay picks one moment at least a week old to surface prominently.
// The pick is seeded from the calendar day and the viewer, so it is stable
// across recomputations within a day and rolls over at midnight.
func MomentOfDay(ms []Moment, now time.Time, viewerID string) *Moment {
	eligible := make([]Moment, 0, len(ms))
	for _, m := range ms {
		if m.DaysAgo >= 7 && m.DaysAgo != UnknownAge {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	h := fnv.New64a()
	h.Write([]byte(now.Format("2006-01-02")))
	h.Write([]byte("|"))
	h.Write([]byte(viewerID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	pick := eligible[rng.Intn(len(eligible))]
	return &pick
}

// CountType reports how many moments carry the given surprise type.
func CountType(ms []Moment, surpriseType string) int {
	n := 0
	for _, m := range ms {
		if m.Type == surpriseType {
			n++
		}
	}
	return n
}
