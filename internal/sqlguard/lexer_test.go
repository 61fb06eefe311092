package sqlguard

import "testing"

func tokenLiterals(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Literal
	}
	return out
}

func assertLiterals(t *testing.T, got []Token, want []string) {
	t.Helper()
	lits := tokenLiterals(got)
	if len(lits) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", lits, want)
	}
	for i := range want {
		if lits[i] != want[i] {
			t.Fatalf("token %d: got %q, want %q (all: %v)", i, lits[i], want[i], lits)
		}
	}
}

func TestTokenize_Simple(t *testing.T) {
	tokens := tokenize("SELECT id FROM person")
	assertLiterals(t, tokens, []string{"SELECT", "id", "FROM", "person"})
}

func TestTokenize_LineCommentDropped(t *testing.T) {
	tokens := tokenize("SELECT 1 -- trailing comment\nFROM person")
	assertLiterals(t, tokens, []string{"SELECT", "1", "FROM", "person"})
}

func TestTokenize_BlockCommentDropped(t *testing.T) {
	tokens := tokenize("SELECT /* inline */ id FROM person")
	assertLiterals(t, tokens, []string{"SELECT", "id", "FROM", "person"})
}

func TestTokenize_UnterminatedBlockComment(t *testing.T) {
	tokens := tokenize("SELECT 1 /* never closed")
	assertLiterals(t, tokens, []string{"SELECT", "1"})
}

func TestTokenize_StringLiteralIsOneToken(t *testing.T) {
	tokens := tokenize("SELECT * FROM person WHERE gender = 'FEMALE; DROP'")
	var strs []Token
	for _, tok := range tokens {
		if tok.Type == TokenString {
			strs = append(strs, tok)
		}
	}
	if len(strs) != 1 {
		t.Fatalf("expected one string token, got %d: %v", len(strs), tokenLiterals(tokens))
	}
	if strs[0].Literal != "'FEMALE; DROP'" {
		t.Fatalf("string literal: got %q", strs[0].Literal)
	}
}

func TestTokenize_EscapedQuoteInString(t *testing.T) {
	tokens := tokenize("SELECT 'it''s fine'")
	assertLiterals(t, tokens, []string{"SELECT", "'it''s fine'"})
}

func TestTokenize_QuotedIdentifierStripped(t *testing.T) {
	tokens := tokenize(`SELECT "year_of_birth" FROM person`)
	assertLiterals(t, tokens, []string{"SELECT", "year_of_birth", "FROM", "person"})
	if tokens[1].Type != TokenIdent {
		t.Fatalf("quoted identifier should lex as TokenIdent, got %v", tokens[1].Type)
	}
}

func TestTokenize_BacktickIdentifier(t *testing.T) {
	tokens := tokenize("SELECT `count` FROM measurement")
	assertLiterals(t, tokens, []string{"SELECT", "count", "FROM", "measurement"})
}

func TestTokenize_Punctuation(t *testing.T) {
	tokens := tokenize("SELECT a.b, c(d);")
	assertLiterals(t, tokens, []string{"SELECT", "a", ".", "b", ",", "c", "(", "d", ")", ";"})
}

func TestTokenize_Number(t *testing.T) {
	tokens := tokenize("LIMIT 100")
	assertLiterals(t, tokens, []string{"LIMIT", "100"})
	if tokens[1].Type != TokenNumber {
		t.Fatalf("expected TokenNumber, got %v", tokens[1].Type)
	}
}

func TestKeywordIs(t *testing.T) {
	if !keywordIs(Token{Type: TokenIdent, Literal: "from"}, "FROM") {
		t.Fatal("keywordIs should match case-insensitively")
	}
	if keywordIs(Token{Type: TokenString, Literal: "'FROM'"}, "FROM") {
		t.Fatal("keywordIs must not match string literals")
	}
}
