package main

import (
	"fmt"
	"io"

	"github.com/leofalp/recordx/core/parse"
	"github.com/leofalp/recordx/internal/utils"
)

// writeLists prints the analysis and plan as indented JSON under
// "=== NAME ===" headings, the layout the section fallback parser reads back.
func writeLists(w io.Writer, record parse.Record) error {
	for _, section := range []struct {
		name  string
		items []parse.Item
	}{
		{name: "ANALYSIS", items: record.Analysis},
		{name: "PLAN", items: record.Plan},
	} {
		items := section.items
		if items == nil {
			items = []parse.Item{}
		}

		encoded, err := utils.MarshalJSON(items, true)
		if err != nil {
			return fmt.Errorf("encode %s: %w", section.name, err)
		}
		if _, err := fmt.Fprintf(w, "\n=== %s ===\n%s\n", section.name, encoded); err != nil {
			return err
		}
	}
	return nil
}

// writeReport prints the full record in the "=== NAME ===" layout.
func writeReport(w io.Writer, record parse.Record) error {
	if err := writeLists(w, record); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n=== OUTPUT ===\n%s\n", record.Output)
	return err
}
