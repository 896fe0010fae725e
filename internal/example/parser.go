package example

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Level-3 section names recognised inside an example.
const (
	sectionCode   = "Code"
	sectionOutput = "Output"
	sectionSchema = "Schema"
	sectionTry    = "Try"
)

var (
	separatorRe   = regexp.MustCompile(`\n+-{3,}\n+`)
	iconRe        = labelRe("Icon")
	categoryRe    = labelRe("Category")
	descriptionRe = labelRe("Description")
)

func labelRe(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*\*\*` + label + `:\*\*[ \t]+(\S.*)$`)
}

// Parser extracts example records from markdown documents.
// It holds no per-call state and may be shared between goroutines.
type Parser struct {
	md     parser.Parser
	logger *slog.Logger
}

// NewParser creates a Parser that reports skipped sections to logger.
// A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		md:     goldmark.DefaultParser(),
		logger: logger,
	}
}

// Parse uses a default Parser to extract every record in content.
func Parse(content []byte) []*Record {
	return NewParser(nil).Parse(content)
}

// ParseFile uses a default Parser to extract the first record in content.
func ParseFile(content []byte) *Record {
	return NewParser(nil).ParseFile(content)
}

// Parse splits content into horizontal-rule separated sections and returns
// one record per well-formed section, in document order. Sections missing a
// title or code block are skipped with a warning.
func (p *Parser) Parse(content []byte) []*Record {
	segments := splitSegments(content)
	records := make([]*Record, 0, len(segments))

	for i, seg := range segments {
		rec := p.parseSegment([]byte(seg))
		if err := rec.Validate(); err != nil {
			p.logger.Warn("skipping example section: missing required fields",
				slog.Int("segment", i),
				slog.Any("missing", missingFields(err)),
				slog.String("title", rec.Title))
			continue
		}
		records = append(records, rec)
	}

	return records
}

// ParseFile returns the first record in content, or nil when none parsed.
func (p *Parser) ParseFile(content []byte) *Record {
	records := p.Parse(content)
	if len(records) == 0 {
		return nil
	}
	return records[0]
}

// splitSegments normalises line endings and returns the candidate example
// sections. Empty sections and sections opening with a "# " document heading
// are dropped.
func splitSegments(content []byte) []string {
	normalized := strings.ReplaceAll(string(content), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var out []string
	for _, seg := range separatorRe.Split(normalized, -1) {
		trimmed := strings.TrimSpace(seg)
		if trimmed == "" || strings.HasPrefix(trimmed, "# ") {
			continue
		}
		out = append(out, seg)
	}
	return out
}

func (p *Parser) parseSegment(src []byte) *Record {
	rec := &Record{
		Icon:        matchLabel(iconRe, src),
		Category:    matchLabel(categoryRe, src),
		Description: matchLabel(descriptionRe, src),
	}

	o := readOutline(p.md.Parse(text.NewReader(src)), src)

	if o.title != "" {
		rec.Title = o.title
		rec.Identifier = DeriveIdentifier(rec.Title)
	}
	rec.Code = o.fences[sectionCode]
	rec.Output = o.fences[sectionOutput]
	if schema, ok := o.fences[sectionSchema]; ok {
		rec.Schema = &schema
	}
	if len(o.tryItems) > 0 {
		rec.TryItems = o.tryItems
	}

	return rec
}

func matchLabel(re *regexp.Regexp, src []byte) string {
	m := re.FindSubmatch(src)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(string(m[1]))
}

// outline holds the block-level fields of one section.
type outline struct {
	title    string
	fences   map[string]string
	tryItems []string
	trySeen  bool
}

// readOutline scans the top-level blocks of a section. Each field is located
// independently, so the order of headings inside a section does not matter.
func readOutline(doc ast.Node, src []byte) outline {
	o := outline{fences: make(map[string]string, 3)}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		name := strings.TrimSpace(blockText(h, src, ""))

		switch h.Level {
		case 2:
			if o.title == "" {
				o.title = name
			}
		case 3:
			switch name {
			case sectionCode, sectionOutput, sectionSchema:
				if _, seen := o.fences[name]; seen {
					continue
				}
				if fcb, ok := h.NextSibling().(*ast.FencedCodeBlock); ok {
					o.fences[name] = strings.TrimSpace(blockText(fcb, src, ""))
				}
			case sectionTry:
				if o.trySeen {
					continue
				}
				if _, ok := h.NextSibling().(*ast.List); ok {
					o.trySeen = true
					o.tryItems = bulletItems(h.NextSibling(), src)
				}
			}
		}
	}

	return o
}

// bulletItems collects the items of consecutive "-" or "*" bullet lines
// starting at n. Only the marker line of an item counts, and collection stops
// at the first line that is not a bullet. Items that are blank after trimming
// are dropped.
func bulletItems(n ast.Node, src []byte) []string {
	var items []string
	last, lines := -1, 0 // start of the previous item text; bullet lines since
	for ; n != nil; n = n.NextSibling() {
		list, ok := n.(*ast.List)
		if !ok || list.IsOrdered() || (list.Marker != '-' && list.Marker != '*') {
			break
		}
		for li := list.FirstChild(); li != nil; li = li.NextSibling() {
			lines++
			first := li.FirstChild()
			if first == nil || first.Lines().Len() == 0 {
				continue
			}
			seg := first.Lines().At(0)
			if last >= 0 && bytes.Count(src[last:seg.Start], []byte("\n")) != lines {
				return items
			}
			last, lines = seg.Start, 0

			if item := strings.TrimSpace(string(seg.Value(src))); item != "" {
				items = append(items, item)
			}
			if first.Lines().Len() > 1 || first.NextSibling() != nil {
				return items
			}
		}
	}
	return items
}

// blockText joins the raw source lines of a block node with sep.
func blockText(n ast.Node, src []byte, sep string) string {
	lines := n.Lines()
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		if i > 0 && sep != "" {
			buf.WriteString(sep)
		}
		seg := lines.At(i)
		value := seg.Value(src)
		if sep != "" {
			value = bytes.TrimRight(value, "\n")
		}
		buf.Write(value)
	}
	return buf.String()
}
