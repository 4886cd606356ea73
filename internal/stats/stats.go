// Package stats computes document statistics from the Markdown syntax
// tree and answers JMESPath queries over them.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/jmespath/go-jmespath"
	"github.com/studiowebux/mdpad/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one heading of the outline
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// CodeBlock is one fenced or indented code block
type CodeBlock struct {
	Language string `json:"language"`
	Lines    int    `json:"lines"`
}

// Stats describes a Markdown document
type Stats struct {
	Words      int         `json:"words"`
	Characters int         `json:"characters"`
	Lines      int         `json:"lines"`
	Headings   []Heading   `json:"headings"`
	CodeBlocks []CodeBlock `json:"code_blocks"`
	Links      []string    `json:"links"`
	Images     int         `json:"images"`
	Tables     int         `json:"tables"`
}

var mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// Compute walks the syntax tree of source
func Compute(source string) Stats {
	s := Stats{
		Words:      document.CountWords(source),
		Characters: utf8.RuneCountInString(source),
		Lines:      document.CountLines(source),
		Headings:   []Heading{},
		CodeBlocks: []CodeBlock{},
		Links:      []string{},
	}

	src := []byte(source)
	root := mdParser.Parse(text.NewReader(src))

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			s.Headings = append(s.Headings, Heading{Level: node.Level, Text: plainText(node, src)})
		case *ast.FencedCodeBlock:
			s.CodeBlocks = append(s.CodeBlocks, CodeBlock{
				Language: string(node.Language(src)),
				Lines:    node.Lines().Len(),
			})
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			s.CodeBlocks = append(s.CodeBlocks, CodeBlock{Lines: node.Lines().Len()})
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			s.Links = append(s.Links, string(node.Destination))
		case *ast.AutoLink:
			s.Links = append(s.Links, string(node.URL(src)))
		case *ast.Image:
			s.Images++
		case *extast.Table:
			s.Tables++
		}
		return ast.WalkContinue, nil
	})

	return s
}

// plainText concatenates the text segments below n
func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// Query applies a JMESPath expression to the stats and returns indented
// JSON. An empty expression returns all stats.
func Query(s Stats, expression string) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal stats: %w", err)
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("failed to decode stats: %w", err)
	}

	if expression != "" {
		jp, err := jmespath.Compile(expression)
		if err != nil {
			return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
		}
		data, err = jp.Search(data)
		if err != nil {
			return "", fmt.Errorf("JMESPath search failed: %w", err)
		}
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(out), nil
}

// IsValidQuery reports whether expression compiles
func IsValidQuery(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
