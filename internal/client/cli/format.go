package cli

import (
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
)

const cellWidth = 40

// cell flattens s to one line and clips it to cellWidth display columns.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, cellWidth, "...")
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// idArg parses args[0] as a positive id.
func idArg(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, usageError(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError(usage)
	}
	return id, nil
}
