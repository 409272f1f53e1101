package codec

import (
	"testing"
	"time"
)

var julianData = []struct {
	jd int64
	t  time.Time
}{
	{1721424, time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)},
	{1842713, time.Date(333, time.January, 27, 0, 0, 0, 0, time.UTC)},
	{2299160, time.Date(1582, time.October, 4, 0, 0, 0, 0, time.UTC)},
	{2415021, time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)},
	{2440588, time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)},
	{2451545, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)},
	{2457202, time.Date(2015, time.June, 28, 0, 0, 0, 0, time.UTC)},
	{5373484, time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)},
}

func TestTimeToJulianDay(t *testing.T) {
	for _, d := range julianData {
		if got := timeToJulianDay(d.t); got != d.jd {
			t.Fatalf("timeToJulianDay(%s) = %d, want %d", d.t, got, d.jd)
		}
	}
}

func TestJulianDayToTime(t *testing.T) {
	for _, d := range julianData {
		if got := julianDayToTime(d.jd); !got.Equal(d.t) {
			t.Fatalf("julianDayToTime(%d) = %s, want %s", d.jd, got, d.t)
		}
	}
}

func TestLongDateRoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(2021, time.March, 5, 13, 45, 9, 123400000, time.UTC),
		time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(9999, time.December, 31, 23, 59, 59, 999999900, time.UTC),
	}
	for _, tm := range cases {
		ld := TimeToLongDate(tm)
		got := LongDateToTime(ld)
		if !got.Equal(tm) {
			t.Fatalf("longdate roundtrip: got %s want %s (ld=%d)", got, tm, ld)
		}
	}
}

func TestSecondDateRoundTrip(t *testing.T) {
	tm := time.Date(2021, time.March, 5, 13, 45, 9, 0, time.UTC)
	sd := TimeToSecondDate(tm)
	if got := SecondDateToTime(sd); !got.Equal(tm) {
		t.Fatalf("seconddate roundtrip: got %s want %s", got, tm)
	}
}

func TestDayDateRoundTrip(t *testing.T) {
	tm := time.Date(2021, time.March, 5, 0, 0, 0, 0, time.UTC)
	dd := TimeToDayDate(tm)
	if got := DayDateToTime(dd); !got.Equal(tm) {
		t.Fatalf("daydate roundtrip: got %s want %s", got, tm)
	}
}

func TestSecondTimeRoundTrip(t *testing.T) {
	tm := time.Date(1, 1, 1, 13, 45, 9, 0, time.UTC)
	st := TimeToSecondTime(tm)
	if got := SecondTimeToTime(st); !got.Equal(tm) {
		t.Fatalf("secondtime roundtrip: got %s want %s", got, tm)
	}
}

func TestTemporalNullSentinels(t *testing.T) {
	if LongDateNull != 3155380704000000001 {
		t.Fatalf("unexpected LongDateNull sentinel %d", LongDateNull)
	}
	if SecondDateNull != 315538070401 {
		t.Fatalf("unexpected SecondDateNull sentinel %d", SecondDateNull)
	}
	if DayDateNull != 3652062 {
		t.Fatalf("unexpected DayDateNull sentinel %d", DayDateNull)
	}
	if SecondTimeNull != 86401 {
		t.Fatalf("unexpected SecondTimeNull sentinel %d", SecondTimeNull)
	}
}
