package codec

import "time"

// Wire sentinels for the NULL value of each temporal encoding.
const (
	LongDateNull    int64 = 3155380704000000001
	SecondDateNull  int64 = 315538070401
	DayDateNull     int32 = 3652062
	SecondTimeNull  int32 = 86401
)

// julianHdb is the Julian Day Number of 1 January 0001 minus one; HDB's
// DAYDATE counts days from that epoch, 1-based.
const julianHdb = 1721423

// JulianDay returns the Julian Day Number for y-m-d. Dates before
// 1582-10-15 are read as Julian calendar dates, later ones as Gregorian
// (Fliegel & Van Flandern for the Gregorian part).
func JulianDay(y, m, d int) int64 {
	a := (14 - m) / 12
	yy := int64(y) + 4800 - int64(a)
	mm := int64(m) + 12*int64(a) - 3
	if y < 1582 || (y == 1582 && (m < 10 || (m == 10 && d < 15))) {
		return int64(d) + (153*mm+2)/5 + 365*yy + yy/4 - 32083
	}
	return int64(d) + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
}

// DateFromJulianDay is the inverse of JulianDay.
func DateFromJulianDay(jd int64) (y, m, d int) {
	if jd < 2299161 { // before 1582-10-15: Julian calendar
		c := jd + 32082
		dd := (4*c + 3) / 1461
		e := c - (1461*dd)/4
		mm := (5*e + 2) / 153
		d = int(e-(153*mm+2)/5) + 1
		m = int(mm + 3 - 12*(mm/10))
		y = int(dd - 4800 + mm/10)
		return
	}
	a := jd + 32044
	b := (4*a + 3) / 146097
	c := a - (146097*b)/4
	dd := (4*c + 3) / 1461
	e := c - (1461*dd)/4
	mm := (5*e + 2) / 153
	d = int(e-(153*mm+2)/5) + 1
	m = int(mm+3-12*(mm/10))
	y = int(100*b + dd - 4800 + mm/10)
	return
}

func timeToJulianDay(t time.Time) int64 {
	t = t.UTC()
	y, mo, d := t.Date()
	return JulianDay(y, int(mo), d)
}

func julianDayToTime(jd int64) time.Time {
	y, m, d := DateFromJulianDay(jd)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// TimeToDayDate converts t to HDB's 1-based DAYDATE.
func TimeToDayDate(t time.Time) int64 { return timeToJulianDay(t) - julianHdb }

// DayDateToTime converts a DAYDATE value to a UTC midnight time.Time.
func DayDateToTime(daydate int64) time.Time { return julianDayToTime(daydate + julianHdb) }

// TimeToSecondDate converts t to HDB's 1-based SECONDDATE.
func TimeToSecondDate(t time.Time) int64 {
	t = t.UTC()
	return ((TimeToDayDate(t)-1)*24+int64(t.Hour()))*60*60 + int64(t.Minute())*60 + int64(t.Second()) + 1
}

// SecondDateToTime converts a SECONDDATE value to UTC time.
func SecondDateToTime(seconddate int64) time.Time {
	const dayfactor = 24 * 60 * 60
	seconddate--
	d := (seconddate % dayfactor) * int64(time.Second)
	return DayDateToTime(seconddate/dayfactor + 1).Add(time.Duration(d))
}

// TimeToLongDate converts t to HDB's 1-based LONGDATE (100ns ticks).
// HDB carries only 7 fractional digits of precision (100ns), not 9.
func TimeToLongDate(t time.Time) int64 {
	t = t.UTC()
	return (((TimeToDayDate(t)-1)*24+int64(t.Hour()))*60*60+int64(t.Minute())*60+int64(t.Second()))*1e7 + int64(t.Nanosecond()/100) + 1
}

// LongDateToTime converts a LONGDATE value to UTC time.
func LongDateToTime(longdate int64) time.Time {
	const dayfactor = 10000000 * 24 * 60 * 60
	longdate--
	d := (longdate % dayfactor) * 100
	return DayDateToTime(longdate/dayfactor + 1).Add(time.Duration(d))
}

// TimeToSecondTime converts t's time-of-day to HDB's 1-based SECONDTIME.
func TimeToSecondTime(t time.Time) int32 {
	t = t.UTC()
	return int32((t.Hour()*60+t.Minute())*60 + t.Second() + 1)
}

// SecondTimeToTime converts a SECONDTIME value to a time.Time on day 1 UTC.
func SecondTimeToTime(secondtime int32) time.Time {
	return time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(int64(secondtime-1) * int64(time.Second)))
}
