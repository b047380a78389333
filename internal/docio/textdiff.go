package docio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// TextDiff writes a line diff of the indented JSON renderings of before and
// after. Lines only in before start with "- ", lines only in after with "+ ",
// shared lines with two spaces.
func TextDiff(w io.Writer, before, after any, useColor bool) error {
	a, err := render(before)
	if err != nil {
		return err
	}
	b, err := render(after)
	if err != nil {
		return err
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	if useColor {
		added.EnableColor()
		removed.EnableColor()
	} else {
		added.DisableColor()
		removed.DisableColor()
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				_, err = added.Fprintf(w, "+ %s\n", line)
			case diffmatchpatch.DiffDelete:
				_, err = removed.Fprintf(w, "- %s\n", line)
			default:
				_, err = fmt.Fprintf(w, "  %s\n", line)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func render(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return string(out) + "\n", nil
}
