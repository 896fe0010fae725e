package mcpserver

// ExampleFormatContract describes the Markdown authoring format that the
// builder understands. LLM consumers should follow it when drafting examples.
const ExampleFormatContract = `# Example Format Contract

One Markdown file describes one example. The file name (without ` + "`" + `.md` + "`" + `)
is the example slug, so keep it lowercase kebab-case.

## Structure

` + "````" + `markdown
# Page heading (ignored)

---

## Basic Join
**Icon:** 🔗
**Category:** Queries
**Description:** Join users with their cities

### Code
` + "```" + `kotlin
Users.innerJoin(Cities).selectAll()
` + "```" + `

### Output
` + "```" + `sql
SELECT * FROM users INNER JOIN cities ON ...
` + "```" + `

### Schema
` + "```" + `sql
CREATE TABLE users (...)
` + "```" + `

### Try
- Switch to leftJoin
- Add a where clause
` + "````" + `

## Rules

1. **Sections** are separated by a line of three or more dashes surrounded by
   line breaks. Sections whose text starts with ` + "`" + `# ` + "`" + ` are preamble and skipped.
2. **Only the first well-formed section** of a file is published.
3. **Title and Code are required.** The title is the first level-2 heading.
   A section missing either is skipped.
4. **Icon, Category, Description, Output, Schema and Try** are optional.
5. **Labels** (` + "`" + `**Icon:**` + "`" + `, ` + "`" + `**Category:**` + "`" + `, ` + "`" + `**Description:**` + "`" + `) must start
   a line and carry a value on the same line. Blank labels count as absent.
6. **Code, Output and Schema** are the first fenced block directly under the
   level-3 heading of that exact name. The fence language is ignored.
7. **Output** defaults to the empty string. **Schema** is omitted when absent.
8. **Try** is the bullet list (` + "`" + `-` + "`" + ` or ` + "`" + `*` + "`" + `) directly under ` + "`" + `### Try` + "`" + `.
9. **Slug:** the title is lowercased, whitespace runs become ` + "`" + `-` + "`" + ` and anything
   other than ASCII letters, digits, ` + "`" + `_` + "`" + ` and ` + "`" + `-` + "`" + ` is dropped. When this differs from the
   file name, the file name wins.
10. **Encoding** is UTF-8. CRLF line endings are accepted.

Use the ` + "`" + `parse_example` + "`" + ` tool to check a draft before saving it.
`
