package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/drcov/drcov"
)

func sampleData(t *testing.T) *drcov.CoverageData {
	t.Helper()
	data, err := drcov.NewBuilder().
		Flavor("drcov-64").
		ModuleVersion(drcov.V2).
		AddModule("/bin/app", 0x400000, 0x500000).
		AddModule("/lib/libc.so", 0x7f0000000000, 0x7f0000100000).
		AddCoverage(0, 0x1000, 32).
		AddCoverage(0, 0x2000, 16).
		AddCoverage(1, 0x10, 8).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return data
}

func writeSample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := drcov.WriteFile(path, sampleData(t)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	r := &report{w: &buf}
	r.write("trace.drcov", sampleData(t), true, "libc")

	want := []string{
		"=== DrCov File Analysis ===",
		"File: trace.drcov",
		"Version: 2",
		"Flavor: drcov-64",
		"Module Table Version: 2",
		"",
		"=== Summary ===",
		"Total Modules: 2",
		"Total Basic Blocks: 3",
		"Total Coverage: 56 bytes",
		"",
		"=== Module Coverage ===",
		"ID   Blocks   Size         Base Address         Name",
		strings.Repeat("-", 80),
		"0    2        48 bytes     0x0000000000400000 /bin/app",
		"1    1        8 bytes      0x00007f0000000000 /lib/libc.so",
		"",
		"=== Detailed Basic Blocks ===",
		"Module   Offset         Size     Absolute Addr      Module Name",
		strings.Repeat("-", 80),
		"0        0x1000        32       0x401000          /bin/app",
		"0        0x2000        16       0x402000          /bin/app",
		"1        0x10          8        0x7f0000000010    /lib/libc.so",
		"",
		"=== Module-Specific Analysis: libc ===",
		"Module ID: 1",
		"Name: /lib/libc.so",
		"Base: 0x7f0000000000",
		"End: 0x7f0000100000",
		"Size: 1048576 bytes",
		"Covered Blocks: 1",
		"Covered Bytes: 8",
		"",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d:\ngot  %q\nwant %q", i, got[i], want[i])
		}
	}
}

func TestReportNoMatch(t *testing.T) {
	var buf bytes.Buffer
	r := &report{w: &buf}
	r.write("trace.drcov", sampleData(t), false, "kernel32")
	out := buf.String()
	if strings.Contains(out, "Detailed Basic Blocks") {
		t.Error("detailed section printed without --detailed")
	}
	if !strings.HasSuffix(out, "No modules found matching: kernel32\n") {
		t.Errorf("missing no-match line:\n%s", out)
	}
}

func TestInfoCmdParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.drcov")
	writeFile(t, path, "DRCOV VERSION: 9\n")

	var buf bytes.Buffer
	err := (&InfoCmd{File: path}).Run(&buf)
	if err == nil || !strings.Contains(err.Error(), "failed to parse DrCov file") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestConvertCmd(t *testing.T) {
	in := writeSample(t, "in.drcov")
	out := filepath.Join(t.TempDir(), "out.drcov.xz")

	var buf bytes.Buffer
	cmd := &ConvertCmd{In: in, Out: out, Schema: 4, Flavor: "converted"}
	if err := cmd.Run(&buf); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := drcov.ParseFile(out)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if data.ModuleVersion != drcov.V4 || data.Header.Flavor != "converted" {
		t.Errorf("got version %v flavor %q", data.ModuleVersion, data.Header.Flavor)
	}
	if len(data.BasicBlocks) != 3 {
		t.Errorf("blocks: got %d", len(data.BasicBlocks))
	}
	if !strings.Contains(buf.String(), "module table v4") {
		t.Errorf("summary: %q", buf.String())
	}

	bad := &ConvertCmd{In: in, Out: out, Schema: 7}
	if err := bad.Run(&buf); err == nil {
		t.Error("expected error for unknown schema")
	}
}

func TestFingerprintCmd(t *testing.T) {
	plain := writeSample(t, "a.drcov")
	compressed := writeSample(t, "b.drcov.xz")

	var buf bytes.Buffer
	if err := (&FingerprintCmd{Files: []string{plain, compressed}}).Run(&buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	a, _, _ := strings.Cut(lines[0], "  ")
	b, _, _ := strings.Cut(lines[1], "  ")
	if len(a) != 64 || a != b {
		t.Errorf("fingerprints differ or malformed: %q %q", a, b)
	}
}

func TestCLIParse(t *testing.T) {
	in := writeSample(t, "in.drcov")

	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": version})
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	ctx, err := parser.Parse([]string{"-v", "convert", in, "out.drcov", "--schema", "3"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ctx.Command() != "convert <in> <out>" {
		t.Errorf("Command: got %q", ctx.Command())
	}
	if !cli.Verbose || cli.Convert.Schema != 3 {
		t.Errorf("flags not bound: %+v", cli)
	}

	if _, err := parser.Parse([]string{"trace-wasm", in}); err == nil {
		t.Error("expected error for missing --out")
	}
}

func TestBrowseFilter(t *testing.T) {
	m := newBrowseModel("trace.drcov", sampleData(t))
	if len(m.visible) != 2 {
		t.Fatalf("visible: got %v", m.visible)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filter.Focused() {
		t.Fatal("expected filter to be focused")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("libc")})
	if len(m.visible) != 1 || m.selected().Path != "/lib/libc.so" {
		t.Errorf("after filter: visible %v", m.visible)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filter.Focused() {
		t.Error("enter should leave the filter")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	if len(m.visible) != 1 {
		t.Error("keys outside the filter should not edit it")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.visible) != 2 || m.filter.Value() != "" {
		t.Errorf("esc should clear the filter: %v %q", m.visible, m.filter.Value())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nothing")})
	if m.selected() != nil {
		t.Error("expected no selection when nothing matches")
	}
	if !strings.Contains(m.View(), "no modules match") {
		t.Error("view should report an empty match")
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newBrowseModel("trace.drcov", sampleData(t))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
