package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/agbru/fermatbench/internal/bench"
)

// FormatQuietRecord renders a record as "label<TAB>seconds", or
// "label<TAB>error" when the configuration produced no timing.
func FormatQuietRecord(rec bench.Record) string {
	if !rec.OK() {
		return rec.Label + "\terror"
	}
	return rec.Label + "\t" + strconv.FormatFloat(rec.Best.Seconds(), 'f', 6, 64)
}

// DisplayQuietSession prints one FormatQuietRecord line per configuration,
// sorted by label, for scripting.
func DisplayQuietSession(session bench.Session, out io.Writer) {
	records := append([]bench.Record(nil), session.Records...)
	sort.Slice(records, func(i, j int) bool { return records[i].Label < records[j].Label })
	for _, rec := range records {
		fmt.Fprintln(out, FormatQuietRecord(rec))
	}
}
