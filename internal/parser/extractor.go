// Package parser extracts the interface of a VHDL entity: its generic clause
// as opaque lines and its port clause as an ordered list of declarations.
package parser

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/models"
)

// Extractor reads entity interfaces from a file system.
type Extractor struct {
	fsys fs.FS
}

// NewExtractor creates an extractor reading files from fsys.
func NewExtractor(fsys fs.FS) *Extractor {
	return &Extractor{fsys: fsys}
}

// ExtractFile extracts entityName from the slash-separated file name in the
// extractor's file system.
func (e *Extractor) ExtractFile(name, entityName string) (*models.InterfaceModel, error) {
	return ExtractFile(e.fsys, name, entityName)
}

// ExtractFile reads name from fsys and extracts entityName from it.
func ExtractFile(fsys fs.FS, name, entityName string) (*models.InterfaceModel, error) {
	clean := path.Clean(filepath.ToSlash(name))
	data, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", clean, err).
			WithLocation(errors.SourceLocation{File: clean})
	}
	return ExtractSource(clean, string(data), entityName)
}

// Extract extracts entityName from module declaration text.
func Extract(text, entityName string) (*models.InterfaceModel, error) {
	return ExtractSource("", text, entityName)
}

// ExtractSource extracts entityName from text. file is only used in the
// model and in error locations. An empty entityName selects the first
// entity declared in text.
func ExtractSource(file, text, entityName string) (*models.InterfaceModel, error) {
	toks, err := lex(file, text)
	if err != nil {
		return nil, errors.NewEntityNotFound(file, entityName, err.Error())
	}
	code := significant(toks)

	start, name := findEntity(code, entityName)
	if start < 0 {
		if entityName == "" {
			return nil, errors.NewEntityNotFound(file, entityName, "no entity declaration")
		}
		return nil, errors.NewEntityNotFound(file, entityName, "no declaration of the form entity "+entityName+" is")
	}

	model := &models.InterfaceModel{EntityName: name, SourceFile: file}
	var genericFound, portFound bool

	depth := 0
	for i := start; i < len(code); i++ {
		tok := code[i]
		switch {
		case isPunct(tok, "("):
			depth++
		case isPunct(tok, ")"):
			depth--
		case depth == 0 && isKeyword(tok, "end"):
			if !portFound {
				return nil, errors.NewNoPortClause(file, name)
			}
			return model, nil
		case depth == 0 && (isKeyword(tok, "generic") || isKeyword(tok, "port")) &&
			i+1 < len(code) && isPunct(code[i+1], "("):
			closing := matchParen(code, i+1)
			if closing < 0 {
				return nil, errors.NewNoPortClause(file, name)
			}
			lines, first := clauseLines(text, code[i+1], code[closing])

			if isKeyword(tok, "port") {
				if closing+1 >= len(code) || !isPunct(code[closing+1], ";") {
					return nil, errors.NewNoPortClause(file, name)
				}
				if !portFound {
					ports, err := parsePorts(file, name, lines, first)
					if err != nil {
						return nil, err
					}
					model.PortLines = lines
					model.Ports = ports
					portFound = true
				}
			} else if !genericFound {
				model.GenericLines = lines
				genericFound = true
			}
			i = closing
		}
	}

	return nil, errors.NewEntityNotFound(file, name, "missing end of entity declaration")
}

// findEntity returns the index of the first token after "entity <name> is"
// and the name as declared, or -1.
func findEntity(code []lexer.Token, entityName string) (int, string) {
	for i := 0; i+2 < len(code); i++ {
		if !isKeyword(code[i], "entity") || code[i+1].Type != tokIdent || !isKeyword(code[i+2], "is") {
			continue
		}
		if entityName == "" || strings.EqualFold(code[i+1].Value, entityName) {
			return i + 3, code[i+1].Value
		}
	}
	return -1, ""
}

// matchParen returns the index of the ")" closing the "(" at open, or -1.
func matchParen(code []lexer.Token, open int) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch {
		case isPunct(code[i], "("):
			depth++
		case isPunct(code[i], ")"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// clauseLines returns the raw lines between open and closing along with the
// line number of the first one. The rest of the opening line and the start
// of the closing line are dropped when they hold only whitespace.
func clauseLines(text string, open, closing lexer.Token) ([]string, int) {
	body := text[open.Pos.Offset+1 : closing.Pos.Offset]
	lines := strings.Split(body, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	first := open.Pos.Line
	if strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
		first++
	}
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return nil, first
	}
	return lines, first
}
