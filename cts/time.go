package cts

import (
	"encoding/binary"
	"os"
	"time"
)

// adjustReasonManual is the adjust-reason bit field reported with every
// Current Time payload. The clock is treated as manually set; no other
// reason is ever signaled.
const adjustReasonManual = 0x01

// currentTimeBytes encodes t as the 10-byte Current Time characteristic
// value: year (uint16 little-endian), month, day, hour, minute, second,
// ISO day of week (1=Monday..7=Sunday), fractions of a second in 1/256
// units, and the adjust-reason bit field.
func currentTimeBytes(t time.Time) []byte {
	b := make([]byte, 10)
	binary.LittleEndian.PutUint16(b[0:2], uint16(t.Year()))
	b[2] = byte(t.Month())
	b[3] = byte(t.Day())
	b[4] = byte(t.Hour())
	b[5] = byte(t.Minute())
	b[6] = byte(t.Second())
	b[7] = byte(isoWeekday(t.Weekday()))
	b[8] = fractions256(t)
	b[9] = adjustReasonManual
	return b
}

// localTimeInformationBytes encodes t as the 2-byte Local Time
// Information characteristic value: the zone's base UTC offset in
// 15-minute units (signed, DST excluded) followed by the DST offset in
// 15-minute units (unsigned).
func localTimeInformationBytes(t time.Time) []byte {
	_, total := t.Zone()
	base := baseOffset(t)
	return []byte{
		byte(int8(base / 900)),
		byte((total - base) / 900),
	}
}

// isoWeekday maps Go's Sunday-first weekday to ISO numbering,
// 1=Monday..7=Sunday.
func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// fractions256 returns t's sub-second part in 1/256 units, rounded down.
func fractions256(t time.Time) byte {
	us := t.Nanosecond() / 1000
	return byte(us * 256 / 1000000)
}

// baseOffset returns the UTC offset of t's zone with DST excluded: the
// smaller of the zone's January and July offsets in t's year. Total
// offset minus base offset is the DST adjustment.
func baseOffset(t time.Time) int {
	_, jan := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location()).Zone()
	_, jul := time.Date(t.Year(), time.July, 1, 0, 0, 0, 0, t.Location()).Zone()
	if jul < jan {
		return jul
	}
	return jan
}

// reloadLocal re-reads the system time zone so every time-dependent
// computation sees zone or DST rule changes made while the process is
// running. Rule state is never cached across calls.
func reloadLocal() *time.Location {
	if tz := os.Getenv("TZ"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if b, err := os.ReadFile("/etc/localtime"); err == nil {
		if loc, err := time.LoadLocationFromTZData("Local", b); err == nil {
			return loc
		}
	}
	return time.Local
}
