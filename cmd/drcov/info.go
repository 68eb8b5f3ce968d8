package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/drcov/drcov"
)

var headingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#7D56F4"))

// InfoCmd prints the header, summary and per-module coverage of a file.
type InfoCmd struct {
	File     string `arg:"" help:"Path to the .drcov file" type:"existingfile"`
	Detailed bool   `short:"d" help:"Print every basic block"`
	Module   string `short:"m" help:"Show details for modules whose path contains this substring"`
}

func (c *InfoCmd) Run(out io.Writer) error {
	data, err := drcov.ParseFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to parse DrCov file '%s': %w", c.File, err)
	}
	r := &report{w: out, styled: isTerminal(out)}
	r.write(c.File, data, c.Detailed, c.Module)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type report struct {
	w      io.Writer
	styled bool
}

func (r *report) heading(title string) {
	line := "=== " + title + " ==="
	if r.styled {
		line = headingStyle.Render(line)
	}
	fmt.Fprintln(r.w, line)
}

func (r *report) write(path string, data *drcov.CoverageData, detailed bool, filter string) {
	w := r.w

	r.heading("DrCov File Analysis")
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Version: %d\n", data.Header.Version)
	fmt.Fprintf(w, "Flavor: %s\n", data.Header.Flavor)
	fmt.Fprintf(w, "Module Table Version: %d\n", uint32(data.ModuleVersion))
	fmt.Fprintln(w)

	r.heading("Summary")
	fmt.Fprintf(w, "Total Modules: %d\n", len(data.Modules))
	fmt.Fprintf(w, "Total Basic Blocks: %d\n", len(data.BasicBlocks))
	fmt.Fprintf(w, "Total Coverage: %d bytes\n", data.TotalCoveredBytes())
	fmt.Fprintln(w)

	stats := data.CoverageStats()
	covered := data.CoveredBytes()

	r.heading("Module Coverage")
	fmt.Fprintf(w, "%-4s %-8s %-12s %-20s Name\n", "ID", "Blocks", "Size", "Base Address")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, m := range data.Modules {
		id := uint16(m.ID)
		fmt.Fprintf(w, "%-4d %-8d %-12s 0x%016x %s\n",
			m.ID, stats[id], fmt.Sprintf("%d bytes", covered[id]), m.Base, m.Path)
	}
	fmt.Fprintln(w)

	if detailed {
		r.heading("Detailed Basic Blocks")
		fmt.Fprintf(w, "%-8s %-14s %-8s %-18s Module Name\n", "Module", "Offset", "Size", "Absolute Addr")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, bb := range data.BasicBlocks {
			m := data.FindModule(bb.ModuleID)
			if m == nil {
				continue
			}
			fmt.Fprintf(w, "%-8d 0x%-11x %-8d 0x%-15x %s\n",
				bb.ModuleID, bb.Start, bb.Size, bb.AbsoluteAddress(m), m.Path)
		}
		fmt.Fprintln(w)
	}

	if filter != "" {
		r.heading("Module-Specific Analysis: " + filter)
		found := false
		for i := range data.Modules {
			m := &data.Modules[i]
			if !strings.Contains(m.Path, filter) {
				continue
			}
			found = true
			id := uint16(m.ID)
			fmt.Fprintf(w, "Module ID: %d\n", m.ID)
			fmt.Fprintf(w, "Name: %s\n", m.Path)
			fmt.Fprintf(w, "Base: 0x%x\n", m.Base)
			fmt.Fprintf(w, "End: 0x%x\n", m.End)
			fmt.Fprintf(w, "Size: %d bytes\n", m.Size())
			fmt.Fprintf(w, "Covered Blocks: %d\n", stats[id])
			fmt.Fprintf(w, "Covered Bytes: %d\n", covered[id])
			fmt.Fprintln(w)
		}
		if !found {
			fmt.Fprintf(w, "No modules found matching: %s\n", filter)
		}
	}
}
