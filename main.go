package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"go_tactics/internal/board"
	"go_tactics/internal/tactics"
)

// Offline report tool: walks a directory of .board files, classifies each
// candidate move and renders the verdicts into a single PDF. A .board file
// holds the diagram rows followed by one line "<color> <sgf coord>", e.g.
// "b dd".

type reportEntry struct {
	path    string
	diagram []string
	line    string
	verdict string
}

func collectBoardFiles(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".board") {
			paths = append(paths, path)
		}
		return nil
	})

	return paths, err
}

func classifyFile(classifier *tactics.Classifier, path string) (reportEntry, error) {
	entry := reportEntry{path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}

	var rows []string
	for _, line := range strings.Split(string(content), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			rows = append(rows, trimmed)
		}
	}
	if len(rows) < 2 {
		return entry, fmt.Errorf("%s: expected diagram rows and a move line", path)
	}

	entry.line = rows[len(rows)-1]
	entry.diagram = rows[:len(rows)-1]

	fields := strings.Fields(entry.line)
	if len(fields) != 2 {
		return entry, fmt.Errorf("%s: move line must be \"<color> <coord>\"", path)
	}

	p, err := board.FromDiagram(entry.diagram)
	if err != nil {
		return entry, fmt.Errorf("%s: %w", path, err)
	}
	color, err := board.ColorFromString(fields[0])
	if err != nil {
		return entry, fmt.Errorf("%s: %w", path, err)
	}
	to, err := p.CoordFromSGF(fields[1])
	if err != nil {
		return entry, fmt.Errorf("%s: %w", path, err)
	}

	if classifier.IsBadSelfAtari(p, color, to) {
		entry.verdict = "bad self-atari"
		if cousin := classifier.SelfAtariCousin(p, color, to); cousin != board.Pass {
			entry.verdict += ", try " + p.SGFFromCoord(cousin)
		}
	} else {
		entry.verdict = "playable"
	}

	return entry, nil
}

func generatePDF(entries []reportEntry, output string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Courier", "", 10)

	for _, entry := range entries {
		pdf.AddPage()
		pdf.Cell(40, 10, entry.path)
		pdf.Ln(10)

		for _, row := range entry.diagram {
			pdf.MultiCell(0, 4.5, row, "", "L", false)
		}
		pdf.Ln(5)
		pdf.MultiCell(0, 4.5, "move: "+entry.line, "", "L", false)
		pdf.MultiCell(0, 4.5, "verdict: "+entry.verdict, "", "L", false)
	}

	return pdf.OutputFileAndClose(output)
}

func main() {
	root := "."
	output := "tactics_report.pdf"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	if len(os.Args) > 2 {
		output = os.Args[2]
	}

	paths, err := collectBoardFiles(root)
	if err != nil {
		fmt.Println("failed to collect board files:", err)
		return
	}

	classifier := tactics.NewClassifier(nil, nil)
	var entries []reportEntry
	for _, path := range paths {
		entry, err := classifyFile(classifier, path)
		if err != nil {
			fmt.Println("skipping:", err)
			continue
		}
		entries = append(entries, entry)
	}

	if err = generatePDF(entries, output); err != nil {
		fmt.Println("failed to create PDF:", err)
		return
	}

	fmt.Printf("report with %d positions written to %s\n", len(entries), output)
}
