package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FlightFileModel - Interactive flight-list selection
// =============================================================================

// FlightFile describes one candidate flight-list file on disk.
type FlightFile struct {
	Path     string
	Size     int64
	Modified time.Time
}

// FlightFileModel is the bubbletea model for picking flight-list files when
// several candidates are found and none were named on the command line.
type FlightFileModel struct {
	Files    []FlightFile
	Cursor   int
	Checked  map[int]bool
	Accepted bool
}

// NewFlightFileModel creates a picker over the given files.
func NewFlightFileModel(files []FlightFile) FlightFileModel {
	return FlightFileModel{Files: files, Checked: make(map[int]bool)}
}

func (m FlightFileModel) Init() tea.Cmd {
	return nil
}

func (m FlightFileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Files {
				m.Checked[i] = true
			}
		case "enter":
			m.Accepted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m FlightFileModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Flight Lists"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	for i, f := range m.Files {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Checked[i] {
			mark = "[x]"
		}

		meta := fmt.Sprintf("%s  %s", formatSize(f.Size), f.Modified.Format("2006-01-02"))
		line := fmt.Sprintf("%s%s %-40s  %s", cursor, mark, filepath.Base(f.Path), listDimStyle.Render(meta))

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Checked[i]:
			b.WriteString(StyleSuccess.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d selected]", len(m.selection()))))

	return b.String()
}

// selection returns the chosen file paths. With nothing toggled the file
// under the cursor counts as selected.
func (m FlightFileModel) selection() []string {
	var paths []string
	for i, f := range m.Files {
		if m.Checked[i] {
			paths = append(paths, f.Path)
		}
	}
	if len(paths) == 0 && m.Accepted && len(m.Files) > 0 {
		paths = append(paths, m.Files[m.Cursor].Path)
	}
	return paths
}

// =============================================================================
// Discovery
// =============================================================================

// findFlightFiles globs for flight-list files. An empty pattern searches the
// working directory for the OpenFlights COVID naming scheme.
func findFlightFiles(pattern string) ([]FlightFile, error) {
	if pattern == "" {
		pattern = "flightlist_*.csv*"
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	files := make([]FlightFile, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, FlightFile{Path: path, Size: info.Size(), Modified: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// pickFlightFiles resolves the flight lists to load. One candidate is used
// directly; several launch the interactive picker.
func pickFlightFiles(pattern string) ([]string, error) {
	files, err := findFlightFiles(pattern)
	if err != nil {
		return nil, err
	}
	switch len(files) {
	case 0:
		return nil, nil
	case 1:
		return []string{files[0].Path}, nil
	}

	model := NewFlightFileModel(files)
	prog := tea.NewProgram(model)
	final, err := prog.Run()
	if err != nil {
		return nil, err
	}
	picked, ok := final.(FlightFileModel)
	if !ok || !picked.Accepted {
		return nil, nil
	}
	return picked.selection(), nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
