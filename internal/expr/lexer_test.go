package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokens(src string) []Token {
	l := NewLexer(src)
	var out []Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == TokEOF {
			return out
		}
	}
}

func TestLexIdentifierAndCall(t *testing.T) {
	toks := tokens("malloc(256)")
	kinds := []TokenKind{TokID, TokLParen, TokInt, TokRParen, TokEOF}
	for i, k := range kinds {
		assert.Equal(t, k, toks[i].Kind)
	}
	assert.Equal(t, "malloc", toks[0].Text)
	assert.Equal(t, "256", toks[2].Text)
}

func TestLexIntegerSuffix(t *testing.T) {
	toks := tokens("18446744073709551615ULL")
	assert.Equal(t, TokInt, toks[0].Kind)
	assert.Equal(t, "18446744073709551615ULL", toks[0].Text)
}

func TestLexStringLiteralWithEscape(t *testing.T) {
	toks := tokens(`"String Literal\n"`)
	assert.Equal(t, TokString, toks[0].Kind)
	assert.Equal(t, `String Literal\n`, toks[0].Text)
}

func TestLexOperatorsAndConstraint(t *testing.T) {
	toks := tokens("x @= { [0, 0] }")
	kinds := []TokenKind{TokID, TokAssign, TokLBrace, TokLBracket, TokInt, TokComma, TokInt, TokRBracket, TokRBrace, TokEOF}
	for i, k := range kinds {
		assert.Equalf(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestLexArrowAndMultiCharOperators(t *testing.T) {
	toks := tokens("a->b << c && d != e")
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, TokArrow)
	assert.Contains(t, kinds, TokShl)
	assert.Contains(t, kinds, TokLAnd)
	assert.Contains(t, kinds, TokNe)
}

func TestLexIllegalCharacterIsDroppedNotFatal(t *testing.T) {
	toks := tokens("x # y")
	// '#' is illegal and dropped; lexing continues to produce x, y, EOF.
	assert.Equal(t, TokID, toks[0].Kind)
	assert.Equal(t, TokID, toks[1].Kind)
	assert.Equal(t, TokEOF, toks[2].Kind)
}
