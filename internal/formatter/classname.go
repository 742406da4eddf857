package formatter

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const DefaultClassName = "GeneratedTest"

var classNameRe = regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)`)

var typeDeclarations = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"enum_declaration":      true,
	"record_declaration":    true,
}

// ClassName returns the name of the public top-level type in code, falling
// back to the first top-level type, then to a regex match on "class X", then
// to DefaultClassName.
func ClassName(code string) string {
	if name := classNameFromTree(code); name != "" {
		return name
	}
	if m := classNameRe.FindStringSubmatch(code); m != nil {
		return m[1]
	}
	return DefaultClassName
}

// FileName is the download name for a formatted listing.
func FileName(code string) string {
	return ClassName(code) + ".java"
}

func classNameFromTree(code string) string {
	src := []byte(code)
	tree, err := parseJava(context.Background(), src)
	if err != nil {
		return ""
	}
	defer tree.Close()

	root := tree.RootNode()
	var first string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if !typeDeclarations[decl.Type()] {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(src)
		if isPublic(decl, src) {
			return name
		}
		if first == "" {
			first = name
		}
	}
	return first
}

func isPublic(decl *sitter.Node, src []byte) bool {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() != "modifiers" {
			continue
		}
		for _, word := range strings.Fields(child.Content(src)) {
			if word == "public" {
				return true
			}
		}
	}
	return false
}
