package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func testFiles() []FlightFile {
	now := time.Now()
	return []FlightFile{
		{Path: "flightlist_20200101_20200131.csv.gz", Size: 120 << 20, Modified: now},
		{Path: "flightlist_20200201_20200229.csv.gz", Size: 98 << 20, Modified: now},
		{Path: "flightlist_20200301_20200331.csv.gz", Size: 64 << 20, Modified: now},
	}
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFlightFileModelNavigation(t *testing.T) {
	m := NewFlightFileModel(testFiles())

	next, _ := m.Update(keyMsg("j"))
	m = next.(FlightFileModel)
	if m.Cursor != 1 {
		t.Errorf("expected cursor 1, got %d", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(FlightFileModel)
	if m.Cursor != 0 {
		t.Errorf("expected cursor 0, got %d", m.Cursor)
	}

	// Cursor must not move past either end.
	next, _ = m.Update(keyMsg("k"))
	m = next.(FlightFileModel)
	if m.Cursor != 0 {
		t.Errorf("cursor should stay at 0, got %d", m.Cursor)
	}
}

func TestFlightFileModelToggle(t *testing.T) {
	m := NewFlightFileModel(testFiles())

	next, _ := m.Update(keyMsg(" "))
	m = next.(FlightFileModel)
	next, _ = m.Update(keyMsg("j"))
	m = next.(FlightFileModel)
	next, _ = m.Update(keyMsg(" "))
	m = next.(FlightFileModel)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(FlightFileModel)

	if !m.Accepted {
		t.Fatal("enter should accept the selection")
	}
	sel := m.selection()
	if len(sel) != 2 {
		t.Fatalf("expected 2 selected files, got %v", sel)
	}
}

func TestFlightFileModelCursorFallback(t *testing.T) {
	m := NewFlightFileModel(testFiles())

	next, _ := m.Update(keyMsg("j"))
	m = next.(FlightFileModel)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(FlightFileModel)

	sel := m.selection()
	if len(sel) != 1 || sel[0] != m.Files[1].Path {
		t.Errorf("expected the cursor file, got %v", sel)
	}
}

func TestFlightFileModelSelectAll(t *testing.T) {
	m := NewFlightFileModel(testFiles())

	next, _ := m.Update(keyMsg("a"))
	m = next.(FlightFileModel)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(FlightFileModel)

	if len(m.selection()) != len(m.Files) {
		t.Errorf("expected all files selected, got %v", m.selection())
	}
}

func TestFindFlightFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"flightlist_20200101_20200131.csv.gz",
		"flightlist_20200201_20200229.csv",
		"airports.dat",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	files, err := findFlightFiles(filepath.Join(dir, "flightlist_*.csv*"))
	if err != nil {
		t.Fatalf("findFlightFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 flight lists, got %d", len(files))
	}
	if files[0].Path > files[1].Path {
		t.Error("files should be sorted by path")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2 << 10, "2.0 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
