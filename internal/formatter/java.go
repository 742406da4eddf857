package formatter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// SyntaxError is returned by JavaFormatter when the source does not parse.
type SyntaxError struct {
	Line int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("java syntax error near line %d", e.Line)
}

// JavaFormatter re-prints Java source from its tree-sitter syntax tree.
// Only whitespace between tokens changes; token text is kept as is.
type JavaFormatter struct {
	indent string
}

func NewJavaFormatter() *JavaFormatter {
	return &JavaFormatter{indent: "    "}
}

func (f *JavaFormatter) Format(ctx context.Context, code string) (string, error) {
	src := []byte(code)
	tree, err := parseJava(ctx, src)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return "", &SyntaxError{Line: firstErrorRow(root) + 1}
	}

	p := &printer{indent: f.indent}
	p.print(collectTokens(root, src))
	return p.String(), nil
}

func parseJava(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse java: %w", err)
	}
	return tree, nil
}

func firstErrorRow(n *sitter.Node) int {
	if n.IsError() || n.IsMissing() {
		return int(n.StartPoint().Row)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstErrorRow(child)
		}
	}
	return int(n.StartPoint().Row)
}

type token struct {
	text   string
	kind   string
	parent string
	grand  string
	row    uint32
	first  bool // first child of its parent

	startsMember bool
	breakAfter   bool
	opensCase    bool // colon ending the labels of a switch group
	closesCase   int  // last token of this many switch groups
}

// printed as single tokens even though the grammar gives them children
var atomicNodes = map[string]bool{
	"string_literal":    true,
	"character_literal": true,
	"text_block":        true,
	"line_comment":      true,
	"block_comment":     true,
}

var memberNodes = map[string]bool{
	"method_declaration":      true,
	"constructor_declaration": true,
	"class_declaration":       true,
	"interface_declaration":   true,
	"enum_declaration":        true,
	"record_declaration":      true,
}

var bodyNodes = map[string]bool{
	"program":                true,
	"class_body":             true,
	"interface_body":         true,
	"enum_body_declarations": true,
}

var declarationNodes = map[string]bool{
	"method_declaration":      true,
	"constructor_declaration": true,
	"field_declaration":       true,
	"class_declaration":       true,
	"interface_declaration":   true,
	"enum_declaration":        true,
	"record_declaration":      true,
}

func nodeType(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Type()
}

func collectTokens(root *sitter.Node, src []byte) []token {
	var toks []token

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		typ := n.Type()
		if n.ChildCount() == 0 || atomicNodes[typ] {
			if t, ok := leafToken(n, src); ok {
				toks = append(toks, t)
			}
			return
		}

		start := len(toks)
		colon := -1
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			walk(child)
			if typ == "switch_block_statement_group" && endsWithColon(child) && len(toks) > start {
				colon = len(toks) - 1
			}
		}
		if len(toks) == start {
			return
		}
		if colon >= 0 {
			for j := start; j < colon; j++ {
				if toks[j].text == ":" && (toks[j].parent == typ || toks[j].parent == "switch_label") {
					toks[j].breakAfter = true
				}
			}
			toks[colon].opensCase = true
			toks[len(toks)-1].closesCase++
		}

		parent := n.Parent()
		if memberNodes[typ] && bodyNodes[nodeType(parent)] {
			toks[start].startsMember = true
		}
		if (typ == "marker_annotation" || typ == "annotation") &&
			nodeType(parent) == "modifiers" && parent != nil && declarationNodes[nodeType(parent.Parent())] {
			toks[len(toks)-1].breakAfter = true
		}
	}
	walk(root)
	return toks
}

func endsWithColon(n *sitter.Node) bool {
	if n.Type() == ":" {
		return true
	}
	if n.Type() == "switch_label" && n.ChildCount() > 0 {
		return n.Child(int(n.ChildCount())-1).Type() == ":"
	}
	return false
}

func leafToken(n *sitter.Node, src []byte) (token, bool) {
	text := n.Content(src)
	if text == "" {
		return token{}, false
	}
	t := token{
		text: text,
		kind: n.Type(),
		row:  n.StartPoint().Row,
	}
	if parent := n.Parent(); parent != nil {
		t.parent = parent.Type()
		t.grand = nodeType(parent.Parent())
		t.first = parent.StartByte() == n.StartByte()
		if t.kind == "block_comment" && bodyNodes[t.parent] {
			t.startsMember = true
		}
	}
	return t, true
}

type printer struct {
	indent string

	lines    []string
	cur      strings.Builder
	curLevel int
	level    int

	parens     int
	parenStack []int
	braces     []bool // true for block braces, false for inline initialisers
	spaceNext  bool
}

func (p *printer) print(toks []token) {
	for i := 0; i < len(toks); i++ {
		last := p.emit(toks, i)
		for _, t := range toks[i : last+1] {
			if t.closesCase > 0 {
				p.newline()
				p.level = max(p.level-t.closesCase, 0)
			}
		}
		i = last
	}
	p.newline()
}

// emit prints toks[i] and returns the index of the last token it consumed.
func (p *printer) emit(toks []token, i int) int {
	t := &toks[i]
	var prev *token
	if i > 0 {
		prev = &toks[i-1]
	}

	if t.startsMember && (prev == nil || !isComment(prev)) {
		p.blankLine()
	}

	switch t.kind {
	case "line_comment":
		p.write(t.text, p.cur.Len() > 0)
		p.newline()
		return i
	case "block_comment":
		p.newline()
		p.writeBlockComment(t.text)
		return i
	}

	switch t.text {
	case "{":
		if inlineBrace(t) {
			p.braces = append(p.braces, false)
			p.write("{", needsSpace(prev, t))
			return i
		}
		p.braces = append(p.braces, true)
		p.parenStack = append(p.parenStack, p.parens)
		p.parens = 0
		p.write("{", p.cur.Len() > 0)
		p.level++
		return p.endLine(toks, i)

	case "}":
		block := true
		if n := len(p.braces); n > 0 {
			block = p.braces[n-1]
			p.braces = p.braces[:n-1]
		}
		if !block {
			p.write("}", false)
			return i
		}
		if n := len(p.parenStack); n > 0 {
			p.parens = p.parenStack[n-1]
			p.parenStack = p.parenStack[:n-1]
		}
		p.newline()
		if p.level > 0 {
			p.level--
		}
		p.write("}", false)
		if i+1 < len(toks) && continuesAfterBrace(t, &toks[i+1]) {
			return i
		}
		i = p.endLine(toks, i)
		if i+1 < len(toks) && toks[i+1].text != "}" && endsMember(t) {
			p.blankLine()
		}
		return i

	case ";":
		p.write(";", false)
		if p.parens > 0 {
			// for (init; cond; update) and try-with-resources
			p.spaceNext = true
			return i
		}
		i = p.endLine(toks, i)
		if i+1 < len(toks) && blankAfterSemicolon(t, &toks[i+1]) {
			p.blankLine()
		}
		return i

	case "(":
		p.write("(", needsSpace(prev, t))
		p.parens++
		return i

	case ")":
		p.write(")", false)
		if p.parens > 0 {
			p.parens--
		}
		if t.breakAfter {
			p.newline()
		}
		return i
	}

	p.write(t.text, needsSpace(prev, t))
	if t.opensCase {
		i = p.endLine(toks, i)
		p.level++
		return i
	}
	if t.breakAfter {
		p.newline()
	}
	return i
}

func (p *printer) write(text string, space bool) {
	if p.cur.Len() == 0 {
		p.curLevel = p.level
	} else if space || (p.spaceNext && text != ")" && text != ";") {
		p.cur.WriteByte(' ')
	}
	p.spaceNext = false
	p.cur.WriteString(text)
}

func (p *printer) newline() {
	if p.cur.Len() == 0 {
		return
	}
	line := strings.TrimRight(p.cur.String(), " \t")
	p.lines = append(p.lines, strings.Repeat(p.indent, p.curLevel)+line)
	p.cur.Reset()
	p.spaceNext = false
}

// endLine finishes the current line, pulling a trailing // comment from the
// same source row onto it. It returns the index of the last consumed token.
func (p *printer) endLine(toks []token, i int) int {
	if i+1 < len(toks) {
		next := toks[i+1]
		if next.kind == "line_comment" && next.row == toks[i].row {
			p.write(next.text, true)
			i++
		}
	}
	p.newline()
	return i
}

func (p *printer) blankLine() {
	p.newline()
	n := len(p.lines)
	if n == 0 || p.lines[n-1] == "" || strings.HasSuffix(p.lines[n-1], "{") {
		return
	}
	p.lines = append(p.lines, "")
}

func (p *printer) writeBlockComment(text string) {
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if i > 0 && strings.HasPrefix(line, "*") {
			line = " " + line
		}
		p.write(line, false)
		p.newline()
	}
}

func (p *printer) String() string {
	p.newline()
	lines := p.lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func isComment(t *token) bool {
	return t.kind == "line_comment" || t.kind == "block_comment"
}

func inlineBrace(t *token) bool {
	return t.parent == "array_initializer" || t.parent == "element_value_array_initializer"
}

func isTypeArgs(kind string) bool {
	return kind == "type_arguments" || kind == "type_parameters"
}

// callLike reports whether a following '(' belongs to a call or declaration.
func callLike(prev *token) bool {
	switch {
	case prev.kind == "identifier", prev.kind == "type_identifier":
		return true
	case prev.text == "this", prev.text == "super":
		return true
	case prev.text == ">" && isTypeArgs(prev.parent):
		return true
	}
	return false
}

func isUnaryOperator(t *token) bool {
	switch t.parent {
	case "unary_expression":
		return t.kind != "identifier" && t.first
	case "update_expression":
		return (t.text == "++" || t.text == "--") && t.first
	}
	return false
}

func needsSpace(prev, cur *token) bool {
	if prev == nil {
		return false
	}

	switch cur.text {
	case ")", "]", ";", ",", ".", "::", "...", "[":
		return false
	case "(":
		return !callLike(prev)
	case "++", "--":
		if cur.parent == "update_expression" && !cur.first {
			return false
		}
	case "<":
		if cur.parent == "type_arguments" || (cur.parent == "type_parameters" && prev.kind == "identifier") {
			return false
		}
	case ">":
		if isTypeArgs(cur.parent) {
			return false
		}
	case ":":
		if cur.parent == "switch_label" || cur.parent == "switch_block_statement_group" {
			return false
		}
	}

	switch prev.text {
	case "(", "[", ".", "@", "::":
		return false
	case "<":
		if isTypeArgs(prev.parent) {
			return false
		}
	case ">":
		// this.<String>foo()
		if isTypeArgs(prev.parent) && prev.grand == "method_invocation" {
			return false
		}
	case "{":
		if inlineBrace(prev) {
			return false
		}
	}
	if isUnaryOperator(prev) {
		return false
	}
	return true
}

func continuesAfterBrace(brace, next *token) bool {
	switch next.text {
	case "else", "catch", "finally", ")", ";", ",", ".":
		return true
	case "while":
		return brace.grand == "do_statement"
	}
	return false
}

func endsMember(brace *token) bool {
	switch brace.parent {
	case "block", "constructor_body":
		return brace.grand == "method_declaration" || brace.grand == "constructor_declaration"
	case "class_body", "interface_body", "enum_body":
		return memberNodes[brace.grand]
	}
	return false
}

func blankAfterSemicolon(semi, next *token) bool {
	switch semi.parent {
	case "package_declaration":
		return true
	case "import_declaration":
		return next.text != "import"
	}
	return false
}
