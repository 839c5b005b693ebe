package token

import (
	"testing"
)

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		line      int
		want      Token
	}{
		{
			name:      "Create ASSIGN token",
			tokenType: ASSIGN,
			line:      1,
			want:      Token{TokenType: ASSIGN, Lexeme: "=", Line: 1},
		},
		{
			name:      "Create LCUR token",
			tokenType: LCUR,
			line:      3,
			want:      Token{TokenType: LCUR, Lexeme: "{", Line: 3},
		},
		{
			name:      "Create EOF token",
			tokenType: EOF,
			line:      10,
			want:      Token{TokenType: EOF, Lexeme: "EOF", Line: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, tt.line)
			if got != tt.want {
				t.Errorf("CreateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateLiteralToken(t *testing.T) {
	got := CreateLiteralToken(NUMBER, 42.0, "42", 5)
	want := Token{TokenType: NUMBER, Lexeme: "42", Literal: 42.0, Line: 5}
	if got != want {
		t.Errorf("CreateLiteralToken() = %v, want %v", got, want)
	}
}

func TestKeyWordsCoversGrammarKeywords(t *testing.T) {
	for _, kw := range []string{"and", "class", "else", "false", "for", "fun", "if", "nil", "or", "print", "return", "super", "this", "true", "var", "while"} {
		if _, ok := KeyWords[kw]; !ok {
			t.Errorf("KeyWords missing entry for %q", kw)
		}
	}
}
