package gates_test

import (
	"path/filepath"
	"strings"
	"testing"

	"conductor/internal/gates"
)

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		name     string
		original string
		category string
		entity   string
		date     string
		want     string
	}{
		{
			name:     "full inputs",
			original: "scan001.pdf",
			category: "Finanzen",
			entity:   "Bauhaus Rechnung",
			date:     "2026-08-30",
			want:     "2026-08-30_Finanzen_Bauhaus_Rechnung.pdf",
		},
		{
			name:     "entity falls back to stem",
			original: "quarterly-report.PDF",
			category: "Arbeit",
			date:     "2026-01-15",
			want:     "2026-01-15_Arbeit_quarterly-report.pdf",
		},
		{
			name:     "category alternatives stripped",
			original: "photo.jpg",
			category: "Medien|Privat",
			entity:   "Urlaub",
			date:     "2026-07-01",
			want:     "2026-07-01_Medien_Urlaub.jpg",
		},
		{
			name:     "unsafe entity characters replaced",
			original: "doc.txt",
			category: "Dokumente",
			entity:   `a<b>c:d"e`,
			date:     "2026-02-02",
			want:     "2026-02-02_Dokumente_a_b_c_d_e.txt",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := gates.GenerateFilename(tc.original, tc.category, tc.entity, tc.date)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateFilenameTruncatesEntity(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := gates.GenerateFilename("doc.pdf", "Privat", long, "2026-03-03")
	want := "2026-03-03_Privat_" + strings.Repeat("x", 30) + ".pdf"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGenerateFilenameDefaultsDate(t *testing.T) {
	got := gates.GenerateFilename("doc.pdf", "Privat", "e", "")
	if len(got) < len("2026-01-01_") || got[4] != '-' || got[7] != '-' {
		t.Fatalf("expected leading ISO date, got %q", got)
	}
}

func TestTargetFolder(t *testing.T) {
	base := string(filepath.Separator) + "archive"
	if got := gates.TargetFolder(base, "Finanzen"); got != filepath.Join(base, "Finanzen") {
		t.Fatalf("got %q", got)
	}
	if got := gates.TargetFolder(base, "Quantenphysik"); got != filepath.Join(base, "Sonstiges") {
		t.Fatalf("expected unknown category to map to Sonstiges, got %q", got)
	}
	if got := gates.TargetFolder(base, "Medien|Privat"); got != filepath.Join(base, "Medien") {
		t.Fatalf("expected primary label, got %q", got)
	}
}
