package scanner_test

import (
	"strings"
	"testing"

	"github.com/leonardinius/treewalk/internal/loxerrors"
	"github.com/leonardinius/treewalk/internal/scanner"
	"github.com/stretchr/testify/assert"
)

func TestScanTokens(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name     string
		input    string
		expected []string
		err      string
	}{
		{"empty", "", []string{`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`}, ""},
		{"syntax error", "⌘", nil, "[line 1] Error: Unexpected character. '⌘'"},
		{
			"basic",
			"(){},*+-;",
			[]string{
				`{Type: LEFT_PAREN, Lexeme: "(", Literal: <nil>, Line: 1}`,
				`{Type: RIGHT_PAREN, Lexeme: ")", Literal: <nil>, Line: 1}`,
				`{Type: LEFT_BRACE, Lexeme: "{", Literal: <nil>, Line: 1}`,
				`{Type: RIGHT_BRACE, Lexeme: "}", Literal: <nil>, Line: 1}`,
				`{Type: COMMA, Lexeme: ",", Literal: <nil>, Line: 1}`,
				`{Type: STAR, Lexeme: "*", Literal: <nil>, Line: 1}`,
				`{Type: PLUS, Lexeme: "+", Literal: <nil>, Line: 1}`,
				`{Type: MINUS, Lexeme: "-", Literal: <nil>, Line: 1}`,
				`{Type: SEMICOLON, Lexeme: ";", Literal: <nil>, Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
		{
			"ternary",
			"a ? b : c",
			[]string{
				`{Type: IDENTIFIER, Lexeme: "a", Literal: <nil>, Line: 1}`,
				`{Type: QUESTION, Lexeme: "?", Literal: <nil>, Line: 1}`,
				`{Type: IDENTIFIER, Lexeme: "b", Literal: <nil>, Line: 1}`,
				`{Type: COLON, Lexeme: ":", Literal: <nil>, Line: 1}`,
				`{Type: IDENTIFIER, Lexeme: "c", Literal: <nil>, Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
		{
			"bangbangeqeqeqeq",
			"!====",
			[]string{
				`{Type: BANG_EQUAL, Lexeme: "!=", Literal: <nil>, Line: 1}`,
				`{Type: EQUAL_EQUAL, Lexeme: "==", Literal: <nil>, Line: 1}`,
				`{Type: EQUAL, Lexeme: "=", Literal: <nil>, Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
		{
			"lteq gteq",
			"<= >= < >",
			[]string{
				`{Type: LESS_EQUAL, Lexeme: "<=", Literal: <nil>, Line: 1}`,
				`{Type: GREATER_EQUAL, Lexeme: ">=", Literal: <nil>, Line: 1}`,
				`{Type: LESS, Lexeme: "<", Literal: <nil>, Line: 1}`,
				`{Type: GREATER, Lexeme: ">", Literal: <nil>, Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
		{
			"bangcomment",
			"!//comment",
			[]string{
				`{Type: BANG, Lexeme: "!", Literal: <nil>, Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
		{
			"nested block comment",
			"/* a /* b */ c */\n/",
			[]string{
				`{Type: SLASH, Lexeme: "/", Literal: <nil>, Line: 2}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 2}`,
			},
			"",
		},
		{"unterminated comment", "/* a", nil, "Unterminated comment."},
		{
			"string",
			`"string"`,
			[]string{
				`{Type: STRING, Lexeme: "\"string\"", Literal: "string", Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
		{"unterminated string", `"string`, nil, "[line 1] Error: Unterminated string."},
		{
			"number-decimal-leading-zeroes",
			`0012.34`,
			[]string{
				`{Type: NUMBER, Lexeme: "0012.34", Literal: 12.34, Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
		{
			"number-dot",
			`12.`,
			[]string{
				`{Type: NUMBER, Lexeme: "12", Literal: 12, Line: 1}`,
				`{Type: DOT, Lexeme: ".", Literal: <nil>, Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
		{
			"reserved",
			`and break else false for fun if nil or print return true var while`,
			[]string{
				`{Type: AND, Lexeme: "and", Literal: <nil>, Line: 1}`,
				`{Type: BREAK, Lexeme: "break", Literal: <nil>, Line: 1}`,
				`{Type: ELSE, Lexeme: "else", Literal: <nil>, Line: 1}`,
				`{Type: FALSE, Lexeme: "false", Literal: <nil>, Line: 1}`,
				`{Type: FOR, Lexeme: "for", Literal: <nil>, Line: 1}`,
				`{Type: FUN, Lexeme: "fun", Literal: <nil>, Line: 1}`,
				`{Type: IF, Lexeme: "if", Literal: <nil>, Line: 1}`,
				`{Type: NIL, Lexeme: "nil", Literal: <nil>, Line: 1}`,
				`{Type: OR, Lexeme: "or", Literal: <nil>, Line: 1}`,
				`{Type: PRINT, Lexeme: "print", Literal: <nil>, Line: 1}`,
				`{Type: RETURN, Lexeme: "return", Literal: <nil>, Line: 1}`,
				`{Type: TRUE, Lexeme: "true", Literal: <nil>, Line: 1}`,
				`{Type: VAR, Lexeme: "var", Literal: <nil>, Line: 1}`,
				`{Type: WHILE, Lexeme: "while", Literal: <nil>, Line: 1}`,
				`{Type: EOF, Lexeme: "", Literal: <nil>, Line: 1}`,
			},
			"",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			s := scanner.NewScanner(tc.input, nil)
			tokens, err := s.Scan()
			if tc.err != "" {
				assert.ErrorContainsf(tt, err, tc.err, "expected error %v, got %v", tc.err, err)
			} else {
				assert.NoError(tt, err)
				tokensAsStrings := make([]string, len(tokens))
				for i, token := range tokens {
					tokensAsStrings[i] = token.GoString()
				}
				assert.Equal(tt, tc.expected, tokensAsStrings)
			}
		})
	}
}

func TestScanReportsEveryError(t *testing.T) {
	t.Parallel()

	out := new(strings.Builder)
	s := scanner.NewScanner("@\nvar a = 1;\n#", loxerrors.NewErrReporter(out))
	tokens, err := s.Scan()

	assert.ErrorIs(t, err, loxerrors.ErrScanUnexpectedCharacter)
	assert.Equal(t, "[line 1] Error: Unexpected character. '@'\n[line 3] Error: Unexpected character. '#'\n", out.String())
	assert.Len(t, tokens, 6)
}
