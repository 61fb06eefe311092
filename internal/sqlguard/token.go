// Package sqlguard classifies and vets analytic SQL before it may reach
// the data store.
//
// The checks are deliberately lexical: a lean tokenizer feeds pattern
// classification, not a query planner. This bounds what the gate can
// guarantee — documented as a design choice, not an omission. If stronger
// guarantees are ever needed, a real parser can be substituted behind the
// same Validator contract.
package sqlguard

// TokenType represents the type of a lexical token.
type TokenType int

// Token types produced by the lexer. Operators the gate does not need to
// distinguish are lumped into TokenOperator.
const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdent  // bare, "quoted", or `backticked` identifier
	TokenNumber // 123, 45.67, 1e10
	TokenString // 'hello'

	TokenSemicolon // ;
	TokenComma     // ,
	TokenDot       // .
	TokenLParen    // (
	TokenRParen    // )
	TokenOperator  // everything else: + - * / = < > etc.
)

// Token is one lexical token with its literal text.
type Token struct {
	Type    TokenType
	Literal string
}
