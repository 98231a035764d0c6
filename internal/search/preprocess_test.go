package search

import (
	"strings"
	"testing"
)

func TestFlattenMarkdown_BlankReturnsOriginal(t *testing.T) {
	orig := "\n   \n\t\n"
	if got := FlattenMarkdown(orig); got != orig {
		t.Fatalf("expected original text, got %q", got)
	}
}

func TestFlattenMarkdown_NonTableLinesFlattened(t *testing.T) {
	in := "# Discharge summary\n  alpha  \n- beta\n> gamma\n"
	want := "Discharge summary\n\nalpha\n\nbeta\n\ngamma\n"
	if got := FlattenMarkdown(in); got != want {
		t.Fatalf("flatten mismatch:\nwant:\n%q\ngot:\n%q", want, got)
	}
}

func TestFlattenMarkdown_TableProcessing(t *testing.T) {
	in := `
| Marker | Value |
| :--- | ---: |
| LDL | 3.1 mmol/L |
| onecell |
| a |  | b |
|  |  |
not a table line
`
	want := strings.Join([]string{
		"Marker Value",
		"",
		"LDL 3.1 mmol/L",
		"",
		"onecell",
		"",
		"a b",
		"",
		"not a table line",
		"",
	}, "\n")

	if got := FlattenMarkdown(in); got != want {
		t.Fatalf("table processing mismatch:\nwant:\n%q\ngot:\n%q", want, got)
	}
}

func TestFlattenMarkdown_ScannerErrReturnsOriginal(t *testing.T) {
	huge := "| x |\n" + strings.Repeat("a", 4*1024*1024+10)
	if got := FlattenMarkdown(huge); got != huge {
		t.Fatalf("expected original text when a line exceeds the scanner buffer")
	}
}
