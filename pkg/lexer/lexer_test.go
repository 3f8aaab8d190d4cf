package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `int main() { return 42; }`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenInt_, "int"},
		{TokenIdent, "main"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenReturn, "return"},
		{TokenInt, "42"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % = == != < <= > >= && || !`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenSlash, "/"},
		{TokenPercent, "%"},
		{TokenAssign, "="},
		{TokenEq, "=="},
		{TokenNe, "!="},
		{TokenLt, "<"},
		{TokenLe, "<="},
		{TokenGt, ">"},
		{TokenGe, ">="},
		{TokenAnd, "&&"},
		{TokenOr, "||"},
		{TokenNot, "!"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - expected %s %q, got %s %q",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `const int void if else while break continue return iffy`
	want := []TokenType{
		TokenConst, TokenInt_, TokenVoid, TokenIf, TokenElse, TokenWhile,
		TokenBreak, TokenContinue, TokenReturn, TokenIdent, TokenEOF,
	}

	toks := New(input).Tokens()
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("token %d: expected %s, got %s (%q)", i, want[i], tok.Type, tok.Literal)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"123", "123"},
		{"017", "017"},
		{"0x1F", "0x1F"},
		{"0XaB", "0XaB"},
	}
	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != TokenInt || tok.Literal != tt.want {
			t.Errorf("%q: got %s %q", tt.input, tok.Type, tok.Literal)
		}
	}
}

func TestComments(t *testing.T) {
	input := `// line comment
/* block
   comment */ return /* inline */ 1; // trailing`

	toks := New(input).Tokens()
	want := []TokenType{TokenReturn, TokenInt, TokenSemicolon, TokenEOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), toks)
	}
	for i := range want {
		if toks[i].Type != want[i] {
			t.Errorf("token %d: expected %s, got %s", i, want[i], toks[i].Type)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "int\n  x;"
	l := New(input)

	tok := l.NextToken()
	if tok.Line != 1 || tok.Column != 1 {
		t.Errorf("int: expected 1:1, got %d:%d", tok.Line, tok.Column)
	}
	tok = l.NextToken()
	if tok.Line != 2 || tok.Column != 3 {
		t.Errorf("x: expected 2:3, got %d:%d", tok.Line, tok.Column)
	}
}

func TestIllegal(t *testing.T) {
	for _, input := range []string{"&", "|", "#", "$"} {
		tok := New(input).NextToken()
		if tok.Type != TokenIllegal {
			t.Errorf("%q: expected ILLEGAL, got %s", input, tok.Type)
		}
	}
}
