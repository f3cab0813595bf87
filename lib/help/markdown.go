// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownParser is shared; goldmark parsers keep no per-call state.
var markdownParser = goldmark.New().Parser()

// renderMarkdown renders a command description for the terminal.
// Soft line breaks become spaces so hard-wrapped source reflows to
// width. Lists keep their bullets, code blocks and code spans are kept
// verbatim in the faint style, and headings are bold.
func renderMarkdown(input string, style styles, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser.Parse(text.NewReader(source))

	renderer := &markdownRenderer{source: source, style: style, width: width}
	_ = ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST. Inline content collects in a
// buffer and is wrapped as a unit when its block closes.
type markdownRenderer struct {
	source []byte
	style  styles
	width  int

	output strings.Builder
	inline strings.Builder

	// linePrefix indents continuation lines of nested list items;
	// pendingBullet replaces it for the first line of an item.
	linePrefix    string
	pendingBullet string
	lists         []listState

	boldCount   int
	italicCount int

	trailingNewlines int
}

type listState struct {
	ordered bool
	counter int
	tight   bool
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			renderer.inline.Reset()
			break
		}
		if flushed := renderer.flushInline(); flushed != "" {
			renderer.write(flushed)
			renderer.ensureNewlines(1)
			if !renderer.inTightList() {
				renderer.ensureNewlines(2)
			}
		}

	case ast.KindHeading:
		if entering {
			renderer.inline.Reset()
			break
		}
		content := ansi.Strip(renderer.inline.String())
		renderer.inline.Reset()
		if content != "" {
			renderer.ensureNewlines(2)
			renderer.write(renderer.style.renderer.NewStyle().Bold(true).Render(content))
			renderer.ensureNewlines(2)
		}

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			renderer.renderCode(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindList:
		list := node.(*ast.List)
		if entering {
			renderer.lists = append(renderer.lists, listState{
				ordered: list.IsOrdered(),
				counter: list.Start,
				tight:   list.IsTight,
			})
		} else {
			renderer.lists = renderer.lists[:len(renderer.lists)-1]
			if !renderer.inTightList() {
				renderer.ensureNewlines(2)
			}
		}

	case ast.KindListItem:
		if entering {
			renderer.enterListItem()
		} else {
			renderer.linePrefix = renderer.linePrefix[:len(renderer.linePrefix)-renderer.bulletWidth()]
			renderer.ensureNewlines(1)
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			renderer.inline.WriteString(renderer.styled(string(textNode.Segment.Value(renderer.source))))
			if textNode.HardLineBreak() {
				renderer.inline.WriteString("\n")
			} else if textNode.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
		}

	case ast.KindString:
		if entering {
			renderer.inline.WriteString(renderer.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		counter := &renderer.italicCount
		if node.(*ast.Emphasis).Level >= 2 {
			counter = &renderer.boldCount
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			renderer.inline.WriteString(renderer.style.faint.Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if !entering {
			destination := string(node.(*ast.Link).Destination)
			if destination != "" {
				renderer.inline.WriteString(" " + renderer.style.faint.Render("("+destination+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(renderer.source))
			renderer.inline.WriteString(renderer.style.faint.Render(url))
		}
	}
	return ast.WalkContinue, nil
}

func (renderer *markdownRenderer) styled(content string) string {
	if renderer.boldCount == 0 && renderer.italicCount == 0 {
		return content
	}
	style := renderer.style.renderer.NewStyle()
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

func (renderer *markdownRenderer) renderCode(node ast.Node) {
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(renderer.source))
	}
	renderer.ensureNewlines(2)
	for _, line := range strings.Split(strings.TrimRight(code.String(), "\n"), "\n") {
		renderer.write(renderer.consumePrefix() + "    " + renderer.style.faint.Render(line))
		renderer.ensureNewlines(1)
	}
	renderer.ensureNewlines(2)
}

func (renderer *markdownRenderer) enterListItem() {
	if len(renderer.lists) == 0 {
		return
	}
	top := &renderer.lists[len(renderer.lists)-1]
	bullet := "- "
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	}
	renderer.pendingBullet = renderer.linePrefix + bullet
	renderer.linePrefix += strings.Repeat(" ", len(bullet))
}

// bulletWidth is the indentation the innermost list item added.
func (renderer *markdownRenderer) bulletWidth() int {
	if len(renderer.lists) == 0 {
		return 0
	}
	top := renderer.lists[len(renderer.lists)-1]
	if !top.ordered {
		return 2
	}
	return len(fmt.Sprintf("%d. ", top.counter-1))
}

func (renderer *markdownRenderer) inTightList() bool {
	return len(renderer.lists) > 0 && renderer.lists[len(renderer.lists)-1].tight
}

func (renderer *markdownRenderer) consumePrefix() string {
	if renderer.pendingBullet != "" {
		bullet := renderer.pendingBullet
		renderer.pendingBullet = ""
		return bullet
	}
	return renderer.linePrefix
}

// flushInline wraps the collected inline content to the width left
// after the list indentation and prefixes every line.
func (renderer *markdownRenderer) flushInline() string {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return ""
	}
	width := max(renderer.width-len(renderer.linePrefix), 10)
	lines := strings.Split(ansi.Wrap(content, width, ""), "\n")
	for index, line := range lines {
		if index == 0 {
			lines[index] = renderer.consumePrefix() + line
		} else {
			lines[index] = renderer.linePrefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func (renderer *markdownRenderer) write(s string) {
	if s == "" {
		return
	}
	renderer.output.WriteString(s)
	trimmed := strings.TrimRight(s, "\n")
	if trimmed == "" {
		renderer.trailingNewlines += len(s)
	} else {
		renderer.trailingNewlines = len(s) - len(trimmed)
	}
}

// ensureNewlines pads the output to end in at least n newlines. Output
// that is still empty gets none, so the text never starts blank.
func (renderer *markdownRenderer) ensureNewlines(n int) {
	if renderer.output.Len() == 0 {
		return
	}
	for renderer.trailingNewlines < n {
		renderer.write("\n")
	}
}
