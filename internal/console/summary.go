// Package console renders build results for terminal output.
package console

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rodaine/table"

	"github.com/starford/exampledeck/internal/build"
)

// Summary prints one row per built example, followed by any skipped or
// failed source files and a totals line.
func Summary(w io.Writer, r *build.Report) {
	if len(r.Records) > 0 {
		tbl := table.New("SLUG", "TITLE", "CATEGORY", "PATH").WithWriter(w)
		for _, rec := range r.Records {
			entry, _ := r.Manifest.Get(rec.Identifier)
			tbl.AddRow(rec.Identifier, rec.Title, dash(rec.Category), entry.Path)
		}
		tbl.Print()
	}

	if len(r.Skipped) > 0 || len(r.Failed) > 0 {
		fmt.Fprintln(w)
		tbl := table.New("FILE", "STATUS", "REASON").WithWriter(w)
		for _, name := range r.Skipped {
			tbl.AddRow(name, "skipped", "no well-formed example")
		}
		failed := make([]string, 0, len(r.Failed))
		for name := range r.Failed {
			failed = append(failed, name)
		}
		sort.Strings(failed)
		for _, name := range failed {
			tbl.AddRow(name, "failed", r.Failed[name])
		}
		tbl.Print()
	}

	fmt.Fprintf(w, "\nbuilt %d example(s), %d skipped, %d failed in %s\n",
		r.Manifest.Count, len(r.Skipped), len(r.Failed), r.Duration.Round(time.Millisecond))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
