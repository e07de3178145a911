// Package review implements Leitner-box spaced repetition over recorded
// wrong answers. Pull-based: boxes move only on explicit review decisions.
package review

import (
	"github.com/rcliao/tutor-engine/internal/model"
)

// MaxBox is the highest Leitner box.
const MaxBox = 3

const secondsPerDay = 86400

// gapDays maps a box to its review interval in days. Unknown boxes use the
// box-1 interval.
var gapDays = map[int]int64{1: 1, 2: 2, 3: 4}

// GapDays returns the review interval for a box in days.
func GapDays(box int) int64 {
	if g, ok := gapDays[box]; ok {
		return g
	}
	return gapDays[1]
}

// Due returns the subset of items whose review interval has elapsed at now
// (unix seconds). Items are returned in input order; the input is not
// modified, so Due is idempotent.
func Due(items []model.WrongItem, now int64) []model.WrongItem {
	var due []model.WrongItem
	for _, it := range items {
		last := it.Last
		if last == 0 {
			last = it.TS
		}
		if now-last >= GapDays(it.Box)*secondsPerDay {
			due = append(due, it)
		}
	}
	return due
}

// Mastered promotes an item one box (capped at MaxBox) and stamps the review
// time. Never decreases the box.
func Mastered(it model.WrongItem, now int64) model.WrongItem {
	box := it.Box
	if box < 1 {
		box = 1
	}
	if box < MaxBox {
		box++
	}
	it.Box = box
	it.Last = now
	return it
}

// StillWrong resets an item to box 1 and stamps the review time.
func StillWrong(it model.WrongItem, now int64) model.WrongItem {
	it.Box = 1
	it.Last = now
	return it
}
