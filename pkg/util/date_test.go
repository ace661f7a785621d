package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2026-04-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2026, 4, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2026, 4, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestParseDay(t *testing.T) {
    got, ok := ParseDay("2026-04-10")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected day %v", got)
    }
    if _, ok := ParseDay("10/04/2026"); ok {
        t.Fatalf("expected parse failure")
    }
}

func TestDayBounds(t *testing.T) {
    at := time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)
    if got := DayStart(at); got.Hour() != 0 || got.Day() != 10 {
        t.Fatalf("unexpected day start %v", got)
    }
    if got := DayEnd(at); got.Day() != 11 {
        t.Fatalf("unexpected day end %v", got)
    }
}

func TestSplitCSV(t *testing.T) {
    got := SplitCSV(" mock, ctrader:123 ,,")
    if len(got) != 2 || got[0] != "mock" || got[1] != "ctrader:123" {
        t.Fatalf("unexpected split %v", got)
    }
    if SplitCSV("") != nil {
        t.Fatalf("empty input must yield nil")
    }
}
