package dataprocessing

import (
	"sort"
	"time"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// timestampLayout is the layout of the combined "day time" string.
const timestampLayout = "2006-01-02 15:04:05"

// ComputeDeltas parses every record's instant, sorts by (agent, instant) and
// sets Delta to the seconds since the previous action of the same agent on
// the same calendar day. The first action of each (agent, day) has no delta.
func ComputeDeltas(records []domain.Record) ([]domain.TimedRecord, error) {
	timed := make([]domain.TimedRecord, 0, len(records))
	for _, r := range records {
		instant, err := time.ParseInLocation(timestampLayout, r.Day+" "+r.Time, time.UTC)
		if err != nil {
			return nil, NewTimestampError(r.Row, err)
		}
		timed = append(timed, domain.TimedRecord{
			Record:  r,
			Instant: instant,
			Date:    truncateDay(instant),
		})
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].Agent != timed[j].Agent {
			return timed[i].Agent < timed[j].Agent
		}
		return timed[i].Instant.Before(timed[j].Instant)
	})

	for i := 1; i < len(timed); i++ {
		prev, cur := &timed[i-1], &timed[i]
		if prev.Agent == cur.Agent && prev.Date.Equal(cur.Date) {
			cur.Delta = cur.Instant.Sub(prev.Instant).Seconds()
			cur.HasDelta = true
		}
	}

	return timed, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
