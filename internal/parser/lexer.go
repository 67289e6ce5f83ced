package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// vhdlLexer splits module declaration text into the few token classes the
// extractor cares about. Anything it does not recognise becomes Other.
var vhdlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "Newline", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\r\f]+`},
	{Name: "String", Pattern: `"[^"\n]*"`},
	{Name: "Char", Pattern: `'[^'\n]'`},
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9][0-9_.]*`},
	{Name: "Punct", Pattern: `[();:,]`},
	{Name: "Other", Pattern: `.`},
})

var (
	tokComment    = vhdlLexer.Symbols()["Comment"]
	tokNewline    = vhdlLexer.Symbols()["Newline"]
	tokWhitespace = vhdlLexer.Symbols()["Whitespace"]
	tokIdent      = vhdlLexer.Symbols()["Ident"]
	tokPunct      = vhdlLexer.Symbols()["Punct"]
)

func lex(filename, text string) ([]lexer.Token, error) {
	l, err := vhdlLexer.LexString(filename, text)
	if err != nil {
		return nil, err
	}
	return lexer.ConsumeAll(l)
}

// significant drops whitespace, line breaks, comments and the EOF token.
func significant(toks []lexer.Token) []lexer.Token {
	code := make([]lexer.Token, 0, len(toks))
	for _, tok := range toks {
		if isCode(tok) {
			code = append(code, tok)
		}
	}
	return code
}

func isCode(tok lexer.Token) bool {
	switch tok.Type {
	case tokComment, tokNewline, tokWhitespace, lexer.EOF:
		return false
	}
	return true
}

// isKeyword matches identifiers case-insensitively, as VHDL does.
func isKeyword(tok lexer.Token, word string) bool {
	return tok.Type == tokIdent && strings.EqualFold(tok.Value, word)
}

func isPunct(tok lexer.Token, p string) bool {
	return tok.Type == tokPunct && tok.Value == p
}

// joinTokens rebuilds source text from tokens, collapsing every run of
// whitespace to one space and dropping comments.
func joinTokens(toks []lexer.Token) string {
	var b strings.Builder
	space := false
	for _, tok := range toks {
		switch tok.Type {
		case tokComment, lexer.EOF:
			continue
		case tokWhitespace, tokNewline:
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteString(tok.Value)
	}
	return b.String()
}
