package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jengzang/smartcity-backend-go/internal/grid"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func short(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// fmtRaw prints a stored coordinate; unparsable values are shown as-is
func fmtRaw(v any) string {
	if f, ok := grid.ParseCoord(v); ok {
		return fmt.Sprintf("%.5f", f)
	}
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%v?", v)
}

func fmtCoord(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f", *v)
}
