package docs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fenced code blocks with one of these info strings are played as a
// scenario, in file order.
const (
	bashSetup    = "bash setup"    // runs in a fresh directory.
	bashRun      = "bash run"      // runs and records its output.
	consoleCheck = "console check" // is the trimmed output of the last run.
	bashCheck    = "bash check"    // runs, a failure does not stop the scenario.
)

// readmeTopic matches the "* name: description" lines of the index.
var readmeTopic = regexp.MustCompile(`(?m)^\*\s+([^:]+):`)

// The index lists every topic, and every topic of the index loads.
func TestTopics(t *testing.T) {
	index, err := os.ReadFile("readme.md")
	require.NoError(t, err)

	var listed []string
	for _, m := range readmeTopic.FindAllSubmatch(index, -1) {
		listed = append(listed, strings.TrimSpace(string(m[1])))
	}
	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			_, err := GetTopic(topic)
			assert.NoError(t, err)
		})
	}

	all, err := GetAllTopics()
	require.NoError(t, err)
	assert.ElementsMatch(t, listed, all, "docs/readme.md does not list every topic")
}

func TestGetTopic(t *testing.T) {
	readme, err := GetTopic("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readme, "# sterling\n"))

	_, err = GetTopic("nope")
	assert.Error(t, err)

	everything, err := GetTopic("*")
	require.NoError(t, err)
	assert.Contains(t, everything, "# Quickstart")
	assert.NotContains(t, everything, "# sterling\n", "the index is not a topic")

	_, err = GetTopics("admission", "nope")
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	title, err := Title("refresh")
	require.NoError(t, err)
	assert.Equal(t, "Refresh", title)

	title, err = Title("readme")
	require.NoError(t, err)
	assert.Equal(t, "sterling", title)
}

func TestCodeBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the sterling command")
	}
	files, err := filepath.Glob("*.md")
	require.NoError(t, err)

	var bin string
	for _, file := range files {
		blocks := scenarioBlocks(t, file)
		if len(blocks) == 0 {
			continue
		}
		if bin == "" {
			bin = buildSterling(t)
		}
		t.Run(file, func(t *testing.T) {
			s := &scenario{
				env: append(os.Environ(), fmt.Sprintf("PATH=%s%c%s", bin, os.PathListSeparator, os.Getenv("PATH"))),
				dir: t.TempDir(),
			}
			for _, b := range blocks {
				s.play(t, b)
			}
		})
	}
}

type codeBlock struct {
	kind string
	body string
	at   string // file:line of the fence.
}

// buildSterling compiles the command and returns the directory holding it.
func buildSterling(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := exec.Command("go", "build", "-o", filepath.Join(dir, "sterling"), "../sterling/").CombinedOutput()
	require.NoError(t, err, "cannot build sterling:\n%s", out)
	return dir
}

// scenarioBlocks returns the scenario blocks of a markdown file.
func scenarioBlocks(t *testing.T, file string) []codeBlock {
	t.Helper()
	src, err := os.ReadFile(file)
	require.NoError(t, err)

	var blocks []codeBlock
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fence, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fence.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fence.Info.Segment.Value(src))
		switch kind {
		case bashSetup, bashRun, consoleCheck, bashCheck:
		default:
			return ast.WalkSkipChildren, nil
		}

		var body bytes.Buffer
		lines := fence.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			body.Write(seg.Value(src))
		}
		// goldmark has no line numbers: count the newlines up to the info string.
		line := bytes.Count(src[:fence.Info.Segment.Start], []byte("\n")) + 1
		blocks = append(blocks, codeBlock{kind: kind, body: body.String(), at: fmt.Sprintf("%s:%d", file, line)})
		return ast.WalkSkipChildren, nil
	})
	require.NoError(t, err)
	return blocks
}

// scenario is the state carried from one block to the next.
type scenario struct {
	env  []string
	dir  string
	last string // output of the last bash run.
}

func (s *scenario) play(t *testing.T, b codeBlock) {
	t.Helper()
	if b.kind == consoleCheck {
		want := strings.TrimSpace(b.body)
		got := strings.ReplaceAll(strings.TrimSpace(s.last), "\t", "        ")
		if got != want {
			t.Errorf("%s: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q", b.at, got, want, got, want)
		}
		return
	}

	if b.kind == bashSetup {
		s.dir = t.TempDir()
	}
	cmd := exec.Command("bash", "-c", "set -e; "+b.body)
	cmd.Dir, cmd.Env = s.dir, s.env
	out, err := cmd.CombinedOutput()
	if b.kind == bashRun {
		s.last = string(out)
	}
	if err == nil {
		return
	}
	if b.kind == bashCheck {
		t.Errorf("%s: %s failed: %v\n%s", b.at, b.kind, err, out)
		return
	}
	t.Fatalf("%s: %s failed: %v\n%s", b.at, b.kind, err, out)
}
