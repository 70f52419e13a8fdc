// Package timeutil provides time utilities for working with the school
// timezone (Europe/Riga) and schedule week boundaries.
package timeutil

import (
	"fmt"
	"time"
)

// RigaTZ is the school timezone. Latvia observes DST, so the IANA
// database location is preferred; the fixed offset is a fallback for
// stripped-down containers without tzdata.
var RigaTZ = loadRigaTZ()

func loadRigaTZ() *time.Location {
	loc, err := time.LoadLocation("Europe/Riga")
	if err != nil {
		return time.FixedZone("EET", 2*60*60)
	}
	return loc
}

// Now returns the current time in the school timezone.
func Now() time.Time {
	return time.Now().In(RigaTZ)
}

// Today returns the start of the current day in the school timezone.
func Today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, RigaTZ)
}

// StartOfISOWeek returns the Monday 00:00 of the ISO week containing t,
// in the school timezone.
func StartOfISOWeek(t time.Time) time.Time {
	t = t.In(RigaTZ)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, RigaTZ)
}

// ISOWeekID returns the schedule week identifier for t: the ISO year
// concatenated with the zero-padded ISO week number, e.g. "202447".
func ISOWeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d%02d", year, week)
}

// DateID returns the compact day identifier for t, e.g. "20241111".
func DateID(t time.Time) string {
	return t.Format("20060102")
}

// FormatDate formats a time as a human-readable date (DD.MM.YYYY).
func FormatDate(t time.Time) string {
	return t.In(RigaTZ).Format("02.01.2006")
}

// FormatDateTime formats a time as a human-readable datetime.
func FormatDateTime(t time.Time) string {
	return t.In(RigaTZ).Format("02.01.2006 15:04")
}

// WeeksBack returns the Mondays of the n ISO weeks ending with the week
// containing t, oldest first. n must be positive.
func WeeksBack(t time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	current := StartOfISOWeek(t)
	weeks := make([]time.Time, n)
	for i := 0; i < n; i++ {
		weeks[n-1-i] = current.AddDate(0, 0, -7*i)
	}
	return weeks
}
