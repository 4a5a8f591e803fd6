package store

import (
	"os"
	"testing"
	"time"
)

func TestLogTimeHonorsSourceDateEpoch(t *testing.T) {
	t.Setenv("SOURCE_DATE_EPOCH", "1700000000")
	got := logTime()
	want := time.Unix(1700000000, 0).UTC()
	if !got.Equal(want) {
		t.Errorf("logTime() = %v, want %v", got, want)
	}
}

func TestLogTimeFallsBackOnInvalidEpoch(t *testing.T) {
	t.Setenv("SOURCE_DATE_EPOCH", "not-a-number")
	before := time.Now().UTC()
	got := logTime()
	if got.Before(before) {
		t.Errorf("logTime() with invalid SOURCE_DATE_EPOCH = %v, want a time at/after %v", got, before)
	}
}

func TestLogTimeDefaultsToNow(t *testing.T) {
	os.Unsetenv("SOURCE_DATE_EPOCH")
	before := time.Now().UTC()
	got := logTime()
	if got.Before(before) {
		t.Errorf("logTime() with no SOURCE_DATE_EPOCH = %v, want a time at/after %v", got, before)
	}
}
