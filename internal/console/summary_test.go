package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/exampledeck/internal/testutil"
)

func TestSummary(t *testing.T) {
	_, report := testutil.Build(t, map[string]string{
		"basic-join.md": testutil.ExampleDoc("Basic Join", "Queries", "Users.innerJoin(Cities)"),
		"loose.md":      testutil.ExampleDoc("Loose", "", "loose()"),
		"empty.md":      "## Title only\n",
	})

	var buf bytes.Buffer
	Summary(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "basic-join")
	assert.Contains(t, out, "examples/basic-join.json")
	assert.Contains(t, out, "Queries")
	assert.Contains(t, out, "empty.md")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "built 2 example(s), 1 skipped, 0 failed")

	var looseRow string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "loose") {
			looseRow = line
		}
	}
	assert.Contains(t, looseRow, " - ", "missing category renders as a dash")
}

func TestSummary_Empty(t *testing.T) {
	_, report := testutil.Build(t, nil)

	var buf bytes.Buffer
	Summary(&buf, report)

	assert.NotContains(t, buf.String(), "SLUG")
	assert.Contains(t, buf.String(), "built 0 example(s), 0 skipped, 0 failed")
}
