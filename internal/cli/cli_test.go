package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmixer/pkg/graph"
	"github.com/matzehuels/stackmixer/pkg/pipeline"
)

// writeRing writes an n-node cycle to a graph file in a temp dir.
func writeRing(t *testing.T, n int) string {
	t.Helper()
	var g graph.Graph
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, graph.Node{ID: fmt.Sprintf("n%d", i)})
		g.Edges = append(g.Edges, graph.Edge{From: fmt.Sprintf("n%d", i), To: fmt.Sprintf("n%d", (i+1)%n)})
	}
	path := filepath.Join(t.TempDir(), "ring.json")
	if err := graph.WriteGraphFile(g, path); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI with args and returns what commands wrote to their
// output stream. The cache lives in a temp dir.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"JSON, dot,,svg", []string{"json", "dot", "svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseFormats(tt.in)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEffectiveOptions(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = pipeline.Options{Coarsener: "independent-set", Seed: 5, Labels: true}

	var flags pipeline.Options
	cmd := &cobra.Command{Use: "test"}
	bindLayoutFlags(cmd, &flags)
	bindRenderFlags(cmd, &flags)
	if err := cmd.Flags().Parse([]string{"--seed", "9", "--placer", "parent"}); err != nil {
		t.Fatal(err)
	}

	opts := c.effectiveOptions(cmd, flags)
	if opts.Coarsener != "independent-set" {
		t.Errorf("Coarsener = %q, want config value", opts.Coarsener)
	}
	if opts.Seed != 9 {
		t.Errorf("Seed = %d, want flag value 9", opts.Seed)
	}
	if opts.Placer != "parent" {
		t.Errorf("Placer = %q, want parent", opts.Placer)
	}
	if !opts.Labels {
		t.Error("unset --labels flag should keep the config value")
	}
	if opts.Logger != c.Logger {
		t.Error("options should carry the CLI logger")
	}
}

func TestOptionFlagsRegistered(t *testing.T) {
	var flags pipeline.Options
	cmd := &cobra.Command{Use: "test"}
	bindLayoutFlags(cmd, &flags)
	bindRenderFlags(cmd, &flags)
	for _, of := range optionFlags {
		if cmd.Flags().Lookup(of.name) == nil {
			t.Errorf("flag --%s is not registered", of.name)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	in := writeRing(t, 24)
	out := filepath.Join(t.TempDir(), "ring.layout.json")

	if _, err := run(t, "layout", in, "-o", out, "--seed", "7"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	g, err := graph.ReadGraphFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(g.Nodes) != 24 || len(g.Edges) != 24 {
		t.Fatalf("output has %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	minX, minY, maxX, maxY := g.Bounds()
	if maxX-minX == 0 && maxY-minY == 0 {
		t.Error("all nodes share one position")
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	in := writeRing(t, 8)
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"layout", filepath.Join(t.TempDir(), "nope.json")}},
		{"bad coarsener", []string{"layout", in, "--coarsener", "bogus", "--no-cache"}},
		{"no args", []string{"layout"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	in := writeRing(t, 16)
	base := filepath.Join(t.TempDir(), "drawing")

	if _, err := run(t, "render", in, "-f", "dot,json", "-o", base, "--level", "1"); err != nil {
		t.Fatalf("render: %v", err)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.HasPrefix(string(dot), "graph G {") {
		t.Errorf("unexpected DOT header: %.40q", dot)
	}

	coarse, err := graph.ReadGraphFile(base + ".layout.json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if len(coarse.Nodes) >= 16 {
		t.Errorf("level 1 has %d nodes, want fewer than the input", len(coarse.Nodes))
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	in := writeRing(t, 8)
	if _, err := run(t, "render", in, "-f", "pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLevelsCommand(t *testing.T) {
	in := writeRing(t, 32)
	html := filepath.Join(t.TempDir(), "levels.html")

	if _, err := run(t, "levels", in, "--html", html, "--coarsener", "independent-set"); err != nil {
		t.Fatalf("levels: %v", err)
	}
	data, err := os.ReadFile(html)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !strings.Contains(string(data), "independent-set") {
		t.Error("chart should name the coarsener")
	}
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stackmixer.toml")
	if err := os.WriteFile(path, []byte("coarsener = \"independent-set\"\nmax_levels = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", path, "config", "--seed", "9")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{`coarsener = "independent-set"`, "max_levels = 3", "seed = 9"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "config", "--defaults")
	if err != nil {
		t.Fatalf("config --defaults: %v", err)
	}
	if !strings.Contains(out, `coarsener = "edge-cover"`) {
		t.Errorf("defaults missing coarsener:\n%s", out)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("bogus = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", path, "config"); err == nil {
		t.Error("expected error for unknown config key")
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q, want suffix %q", out, appName)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the command name")
	}
}
