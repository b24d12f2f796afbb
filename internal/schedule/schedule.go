// Package schedule maps the local hour to the content kind to post.
package schedule

import (
	"time"

	"github.com/abhisek/chebot/internal/content"
)

// Buenos Aires runs on UTC-3 all year.
const utcOffset = -3 * 60 * 60

// Location is the fixed zone every schedule decision is made in.
var Location = time.FixedZone("ART", utcOffset)

// DailyCheckHour is the hour the daily poll goes out.
const DailyCheckHour = 21

// In converts t to the schedule zone.
func In(t time.Time) time.Time {
	return t.In(Location)
}

// Date returns the ISO calendar date of t in the schedule zone.
func Date(t time.Time) string {
	return In(t).Format("2006-01-02")
}

// KindAt returns the kind to post at t. Rules are checked in priority order:
// daily check at 21h, vocab every 2h, life phrase every 3h, grammar every
// 4h, and vocab when nothing matches.
func KindAt(t time.Time) content.Kind {
	return KindForHour(In(t).Hour())
}

// KindForHour applies the schedule rules to an hour in 0-23.
func KindForHour(hour int) content.Kind {
	switch {
	case hour == DailyCheckHour:
		return content.KindDailyCheck
	case hour%2 == 0:
		return content.KindVocab
	case hour%3 == 0:
		return content.KindLifePhrase
	case hour%4 == 0:
		return content.KindGrammar
	default:
		return content.KindVocab
	}
}

// Slot is one hour of the daily schedule.
type Slot struct {
	Hour int
	Kind content.Kind
}

// Table returns the kind for every hour of the day.
func Table() []Slot {
	slots := make([]Slot, 24)
	for h := range slots {
		slots[h] = Slot{Hour: h, Kind: KindForHour(h)}
	}
	return slots
}
