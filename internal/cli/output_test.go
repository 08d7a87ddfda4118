package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/agbru/fermatbench/internal/bench"
)

func TestFormatQuietRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  bench.Record
		want string
	}{
		{"timed", bench.Record{Label: "sequential/reference", Best: 1500 * time.Millisecond, Trials: []time.Duration{1500 * time.Millisecond}}, "sequential/reference\t1.500000"},
		{"failed", bench.Record{Label: "x", Err: errors.New("boom")}, "x\terror"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatQuietRecord(tt.rec); got != tt.want {
				t.Errorf("FormatQuietRecord() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayQuietSession_SortsByLabel(t *testing.T) {
	session := bench.Session{Records: []bench.Record{
		{Label: "thread-pool[2,dynamic]/reference", Err: errors.New("x")},
		{Label: "process-pool[2,static]/reference", Best: time.Second, Trials: []time.Duration{time.Second}},
	}}
	var buf bytes.Buffer
	DisplayQuietSession(session, &buf)

	want := "process-pool[2,static]/reference\t1.000000\nthread-pool[2,dynamic]/reference\terror\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
	if session.Records[0].Label != "thread-pool[2,dynamic]/reference" {
		t.Error("DisplayQuietSession must not reorder the session")
	}
}
