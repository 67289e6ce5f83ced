package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/models"
)

// parsePorts splits the port clause body into declarations. An entry ends
// at a ";" outside parentheses and may span several lines. Lines holding
// nothing but a comment or whitespace between entries become pass-through
// declarations.
func parsePorts(file, entity string, lines []string, firstLine int) ([]models.PortDeclaration, error) {
	var (
		ports       []models.PortDeclaration
		pending     []lexer.Token
		pendingLine int
		depth       int
	)

	flush := func() error {
		if len(significant(pending)) == 0 {
			pending = nil
			return nil
		}
		decls, err := parseEntry(file, entity, pending, pendingLine)
		if err != nil {
			return err
		}
		ports = append(ports, decls...)
		pending = nil
		return nil
	}

	for i, raw := range lines {
		lineNo := firstLine + i
		toks, err := lex(file, raw)
		if err != nil {
			return nil, errors.NewUnparsablePortEntry(file, lineNo, entity, raw, err.Error())
		}

		hasCode, hasComment := false, false
		for _, tok := range toks {
			switch tok.Type {
			case lexer.EOF:
				continue
			case tokComment:
				hasComment = true
				continue
			case tokWhitespace:
				if len(pending) > 0 {
					pending = append(pending, tok)
				}
				continue
			}

			hasCode = true
			if len(pending) == 0 {
				pendingLine = lineNo
			}
			switch {
			case isPunct(tok, "("):
				depth++
			case isPunct(tok, ")"):
				depth--
			case depth == 0 && isPunct(tok, ";"):
				if err := flush(); err != nil {
					return nil, err
				}
				continue
			}
			pending = append(pending, tok)
		}

		switch {
		case !hasCode && len(pending) == 0:
			ports = append(ports, models.PortDeclaration{
				IsComment: hasComment,
				IsBlank:   !hasComment,
				Raw:       raw,
				Line:      lineNo,
			})
		case len(pending) > 0:
			// The entry continues on the next line.
			pending = append(pending, lexer.Token{Type: tokWhitespace, Value: " "})
		}
	}

	// The last entry of a port clause has no terminator.
	if err := flush(); err != nil {
		return nil, err
	}
	return ports, nil
}

// parseEntry turns one "name {, name} : mode type" entry into declarations.
func parseEntry(file, entity string, toks []lexer.Token, line int) ([]models.PortDeclaration, error) {
	text := joinTokens(toks)

	colon := -1
	for i, tok := range toks {
		if isPunct(tok, ":") {
			colon = i
			break
		}
	}
	if colon < 0 {
		return nil, errors.NewUnparsablePortEntry(file, line, entity, text, "missing ':' separator")
	}

	names, ok := splitNames(toks[:colon])
	if !ok {
		return nil, errors.NewUnparsablePortEntry(file, line, entity, text, "expected a port name or a comma separated list of names")
	}

	m := colon + 1
	for m < len(toks) && !isCode(toks[m]) {
		m++
	}
	if m == len(toks) {
		return nil, errors.NewUnparsablePortEntry(file, line, entity, text, "missing direction")
	}
	mode := toks[m]

	// Everything after the mode token is the type, as written.
	typeExpr := joinTokens(toks[m+1:])
	if typeExpr == "" {
		return nil, errors.NewUnparsablePortEntry(file, line, entity, text, "missing type")
	}

	dir, ok := classifyDirection(mode.Value)
	if !ok {
		return nil, errors.NewUnsupportedDirection(file, line, entity, strings.Join(names, ", "), mode.Value)
	}

	decls := make([]models.PortDeclaration, 0, len(names))
	for _, name := range names {
		decls = append(decls, models.PortDeclaration{
			Name:           name,
			Direction:      dir,
			TypeExpression: typeExpr,
			Raw:            text,
			Line:           line,
		})
	}
	return decls, nil
}

// splitNames splits "a, b, c" into identifiers.
func splitNames(toks []lexer.Token) ([]string, bool) {
	var names []string
	expectName := true
	for _, tok := range significant(toks) {
		switch {
		case expectName && tok.Type == tokIdent:
			names = append(names, tok.Value)
			expectName = false
		case !expectName && isPunct(tok, ","):
			expectName = true
		default:
			return nil, false
		}
	}
	if len(names) == 0 || expectName {
		return nil, false
	}
	return names, true
}

// classifyDirection maps a mode token onto IN or OUT. Bidirectional modes
// are rejected; unknown tokens fall back to a substring test where any
// token containing "in" is an input.
func classifyDirection(mode string) (models.Direction, bool) {
	switch m := strings.ToLower(mode); m {
	case "in":
		return models.DirectionIn, true
	case "out", "buffer":
		return models.DirectionOut, true
	case "inout", "linkage":
		return models.DirectionNone, false
	default:
		if strings.Contains(m, "in") {
			return models.DirectionIn, true
		}
		return models.DirectionOut, true
	}
}
