package sqlguard

import "strings"

// lexer tokenizes SQL input. Comments are consumed and dropped; string
// literals are kept as single tokens so statement splitting and table
// extraction never trip over quoted content.
type lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// nextToken returns the next token from the input.
func (l *lexer) nextToken() Token {
	l.skipWhitespaceAndComments()

	var tok Token

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Literal: ""}
	case ';':
		tok = Token{Type: TokenSemicolon, Literal: ";"}
	case ',':
		tok = Token{Type: TokenComma, Literal: ","}
	case '.':
		tok = Token{Type: TokenDot, Literal: "."}
	case '(':
		tok = Token{Type: TokenLParen, Literal: "("}
	case ')':
		tok = Token{Type: TokenRParen, Literal: ")"}
	case '\'':
		return l.readString()
	case '"':
		return l.readQuotedIdent('"')
	case '`':
		return l.readQuotedIdent('`')
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = Token{Type: TokenOperator, Literal: string(l.ch)}
	}

	l.readChar()
	return tok
}

// tokenize runs the lexer to EOF and returns all tokens (comments dropped,
// EOF excluded).
func tokenize(input string) []Token {
	l := newLexer(input)
	var tokens []Token
	for {
		tok := l.nextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

// readString reads a single-quoted literal, honoring '' escapes.
// An unterminated string consumes the rest of the input.
func (l *lexer) readString() Token {
	start := l.pos
	l.readChar()
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		l.readChar()
	}
	return Token{Type: TokenString, Literal: l.input[start:l.pos]}
}

// readQuotedIdent reads a "double-quoted" or `backticked` identifier and
// strips the quotes from the literal.
func (l *lexer) readQuotedIdent(quote byte) Token {
	l.readChar()
	start := l.pos
	for l.ch != 0 && l.ch != quote {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	if l.ch == quote {
		l.readChar()
	}
	return Token{Type: TokenIdent, Literal: lit}
}

func (l *lexer) readIdentifier() Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return Token{Type: TokenIdent, Literal: l.input[start:l.pos]}
}

func (l *lexer) readNumber() Token {
	start := l.pos
	for isDigit(l.ch) || l.ch == '.' || l.ch == 'e' || l.ch == 'E' {
		l.readChar()
	}
	return Token{Type: TokenNumber, Literal: l.input[start:l.pos]}
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// keywordIs reports whether the token is the given bare keyword,
// case-insensitively.
func keywordIs(tok Token, keyword string) bool {
	return tok.Type == TokenIdent && strings.EqualFold(tok.Literal, keyword)
}
