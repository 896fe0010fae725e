package example

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

const fence = "```"

func fenced(lang, body string) string {
	return fence + lang + "\n" + body + "\n" + fence + "\n"
}

func sampleSection(title string) string {
	return "## " + title + "\n" +
		"**Icon:** 🎯\n" +
		"**Category:** Queries\n" +
		"**Description:** Joins two tables\n" +
		"\n### Code\n" + fenced("kotlin", "val q = Users.innerJoin(Cities)") +
		"\n### Output\n" + fenced("sql", "SELECT * FROM users INNER JOIN cities") +
		"\n### Schema\n" + fenced("sql", "CREATE TABLE users (id INT)") +
		"\n### Try\n- Change the join type\n* Add a where clause\n"
}

func quietParser(t *testing.T) (*Parser, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewParser(logger), &buf
}

func TestParse_FullSection(t *testing.T) {
	p, _ := quietParser(t)
	recs := p.Parse([]byte(sampleSection("Basic Join")))
	if len(recs) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.Title != "Basic Join" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Identifier != "basic-join" {
		t.Errorf("identifier = %q", r.Identifier)
	}
	if r.Icon != "🎯" || r.Category != "Queries" || r.Description != "Joins two tables" {
		t.Errorf("labels = %q %q %q", r.Icon, r.Category, r.Description)
	}
	if r.Code != "val q = Users.innerJoin(Cities)" {
		t.Errorf("code = %q", r.Code)
	}
	if r.Output != "SELECT * FROM users INNER JOIN cities" {
		t.Errorf("output = %q", r.Output)
	}
	if r.Schema == nil || *r.Schema != "CREATE TABLE users (id INT)" {
		t.Errorf("schema = %v", r.Schema)
	}
	want := []string{"Change the join type", "Add a where clause"}
	if !reflect.DeepEqual(r.TryItems, want) {
		t.Errorf("try = %v, want %v", r.TryItems, want)
	}
}

func TestParse_MultipleSectionsInOrder(t *testing.T) {
	p, _ := quietParser(t)
	doc := "# Examples\n\nIntro text.\n\n---\n\n" +
		sampleSection("First") + "\n---\n\n" +
		sampleSection("Second") + "\n\n-----\n\n" +
		sampleSection("Third")

	recs := p.Parse([]byte(doc))
	if len(recs) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(recs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if recs[i].Identifier != want {
			t.Errorf("records[%d].identifier = %q, want %q", i, recs[i].Identifier, want)
		}
	}
}

func TestParse_CRLFInput(t *testing.T) {
	p, _ := quietParser(t)
	doc := strings.ReplaceAll(sampleSection("One")+"\n---\n"+sampleSection("Two"), "\n", "\r\n")
	recs := p.Parse([]byte(doc))
	if len(recs) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(recs))
	}
	if strings.Contains(recs[0].Code, "\r") {
		t.Errorf("code still contains carriage return: %q", recs[0].Code)
	}
}

func TestParse_MissingTitleSkipped(t *testing.T) {
	p, logs := quietParser(t)
	doc := "### Code\n" + fenced("", "println()") + "\n---\n" + sampleSection("Kept")

	recs := p.Parse([]byte(doc))
	if len(recs) != 1 || recs[0].Title != "Kept" {
		t.Fatalf("records = %+v", recs)
	}
	var entry struct {
		Msg     string   `json:"msg"`
		Segment int      `json:"segment"`
		Missing []string `json:"missing"`
	}
	line, _, _ := strings.Cut(logs.String(), "\n")
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if entry.Segment != 0 {
		t.Errorf("segment = %d, want 0", entry.Segment)
	}
	if !reflect.DeepEqual(entry.Missing, []string{"title"}) {
		t.Errorf("missing = %v, want [title]", entry.Missing)
	}
}

func TestParse_MissingCodeSkipped(t *testing.T) {
	p, logs := quietParser(t)
	doc := "## No Code Here\n\n### Output\n" + fenced("sql", "SELECT 1")

	if recs := p.Parse([]byte(doc)); len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
	if !strings.Contains(logs.String(), `"missing":["code"]`) {
		t.Errorf("log does not name code as missing: %s", logs.String())
	}
}

func TestParse_CodeHeadingWithoutFenceSkipped(t *testing.T) {
	p, _ := quietParser(t)
	doc := "## Loose\n\n### Code\n\nJust prose, no fence.\n\n" + fence + "\nlater block\n" + fence + "\n"
	if recs := p.Parse([]byte(doc)); len(recs) != 0 {
		t.Fatalf("expected no records, got %+v", recs[0])
	}
}

func TestParse_OptionalFieldDefaults(t *testing.T) {
	p, _ := quietParser(t)
	doc := "## Minimal\n\n### Code\n" + fenced("", "  x := 1  ")

	r := p.ParseFile([]byte(doc))
	if r == nil {
		t.Fatal("expected a record")
	}
	if r.Code != "x := 1" {
		t.Errorf("code = %q", r.Code)
	}
	if r.Output != "" {
		t.Errorf("output = %q, want empty", r.Output)
	}
	if r.Schema != nil {
		t.Errorf("schema = %q, want absent", *r.Schema)
	}
	if r.TryItems != nil {
		t.Errorf("try = %v, want absent", r.TryItems)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, `"output":""`) {
		t.Errorf("output key missing from %s", got)
	}
	for _, key := range []string{`"schema"`, `"try"`, `"icon"`, `"category"`, `"description"`} {
		if strings.Contains(got, key) {
			t.Errorf("unexpected key %s in %s", key, got)
		}
	}
}

func TestParse_EmptySchemaFenceIsPresent(t *testing.T) {
	p, _ := quietParser(t)
	doc := "## With Schema\n\n### Code\n" + fenced("", "code") + "\n### Schema\n" + fence + "sql\n" + fence + "\n"
	r := p.ParseFile([]byte(doc))
	if r == nil {
		t.Fatal("expected a record")
	}
	if r.Schema == nil || *r.Schema != "" {
		t.Errorf("schema = %v, want present and empty", r.Schema)
	}
}

func TestParse_FieldsOutOfOrder(t *testing.T) {
	p, _ := quietParser(t)
	doc := "### Output\n" + fenced("sql", "SELECT 2") +
		"\n**Category:** Late\n\n### Code\n" + fenced("go", "two()") +
		"\n## Reordered\n"
	r := p.ParseFile([]byte(doc))
	if r == nil {
		t.Fatal("expected a record")
	}
	if r.Title != "Reordered" || r.Code != "two()" || r.Output != "SELECT 2" || r.Category != "Late" {
		t.Errorf("record = %+v", r)
	}
}

func TestParse_FenceLanguageIgnored(t *testing.T) {
	p, _ := quietParser(t)
	for _, lang := range []string{"", "kotlin", "go", "python {file=x.py}"} {
		doc := "## Lang\n\n### Code\n" + fenced(lang, "body")
		r := p.ParseFile([]byte(doc))
		if r == nil || r.Code != "body" {
			t.Errorf("lang %q: record = %+v", lang, r)
		}
	}
}

func TestParse_TryItems(t *testing.T) {
	tests := []struct {
		name string
		try  string
		want []string
	}{
		{"dash and star", "- one\n* two\n-   three  \n", []string{"one", "two", "three"}},
		{"blank bullets only", "-\n-\n", nil},
		{"blank bullets dropped", "- one\n-\n- two\n", []string{"one", "two"}},
		{"ordered list ignored", "1. one\n2. two\n", nil},
		{"no list", "Some prose.\n", nil},
		{"prose after list", "- a\n- b\nSee the docs for more.\n", []string{"a", "b"}},
		{"wrapped item ends list", "- a\n  wrapped\n- b\n", []string{"a"}},
		{"blank line ends list", "- a\n\n- b\n", []string{"a"}},
		{"empty bullet keeps list going", "- a\n-\n- b\nmore\n", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := quietParser(t)
			doc := "## Try It\n\n### Code\n" + fenced("", "c") + "\n### Try\n" + tt.try
			r := p.ParseFile([]byte(doc))
			if r == nil {
				t.Fatal("expected a record")
			}
			if !reflect.DeepEqual(r.TryItems, tt.want) {
				t.Errorf("try = %#v, want %#v", r.TryItems, tt.want)
			}
		})
	}
}

func TestParse_HeadingInsideCodeIsNotTitle(t *testing.T) {
	p, _ := quietParser(t)
	doc := "### Code\n" + fenced("md", "## Not A Title") + "\n## Real Title\n"
	r := p.ParseFile([]byte(doc))
	if r == nil {
		t.Fatal("expected a record")
	}
	if r.Title != "Real Title" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Code != "## Not A Title" {
		t.Errorf("code = %q", r.Code)
	}
}

func TestParse_PreambleOnly(t *testing.T) {
	p, _ := quietParser(t)
	if recs := p.Parse([]byte("# Title only\n\nNothing else.\n")); len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
	if r := p.ParseFile(nil); r != nil {
		t.Errorf("expected nil for empty input, got %+v", r)
	}
}

func TestParse_BlankLabelIgnored(t *testing.T) {
	p, _ := quietParser(t)
	doc := "## Labels\n**Icon:**   \n**Category:** Real\n\n### Code\n" + fenced("", "c")
	r := p.ParseFile([]byte(doc))
	if r == nil {
		t.Fatal("expected a record")
	}
	if r.Icon != "" {
		t.Errorf("icon = %q, want empty", r.Icon)
	}
	if r.Category != "Real" {
		t.Errorf("category = %q", r.Category)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	p, _ := quietParser(t)
	for _, doc := range []string{
		sampleSection("Round Trip"),
		"## Bare\n\n### Code\n" + fenced("", "x"),
	} {
		r := p.ParseFile([]byte(doc))
		if r == nil {
			t.Fatal("expected a record")
		}
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		var back Record
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(*r, back) {
			t.Errorf("round trip mismatch:\n got  %+v\n want %+v", back, *r)
		}
	}
}
