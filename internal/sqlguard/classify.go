package sqlguard

import (
	"strings"

	"omopgate/internal/domain"
)

// writeVerbs are the classifiable data-modifying statement verbs. A query
// opening with one of these is classified as that verb and denied outright.
var writeVerbs = map[string]struct{}{
	"INSERT": {}, "UPDATE": {}, "DELETE": {}, "DROP": {}, "CREATE": {},
	"ALTER": {}, "TRUNCATE": {}, "REPLACE": {}, "MERGE": {}, "EXEC": {},
	"EXECUTE": {}, "GRANT": {}, "REVOKE": {},
}

// splitStatements splits a token stream at semicolons, dropping empty
// segments. Two or more segments means a stacked query.
func splitStatements(tokens []Token) [][]Token {
	var statements [][]Token
	var current []Token
	for _, tok := range tokens {
		if tok.Type == TokenSemicolon {
			if len(current) > 0 {
				statements = append(statements, current)
				current = nil
			}
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		statements = append(statements, current)
	}
	return statements
}

// classifyStatement returns the coarse verb classification of a single
// statement's tokens. WITH and parenthesized selects classify as SELECT;
// recognized write verbs classify as themselves; anything else is
// indeterminate and must survive every later check.
func classifyStatement(tokens []Token) (domain.StatementType, string) {
	for len(tokens) > 0 && tokens[0].Type == TokenLParen {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return domain.StmtIndeterminate, ""
	}
	first := tokens[0]
	if first.Type != TokenIdent {
		return domain.StmtIndeterminate, ""
	}
	verb := strings.ToUpper(first.Literal)
	switch {
	case verb == "SELECT", verb == "WITH":
		return domain.StmtSelect, verb
	default:
		if _, ok := writeVerbs[verb]; ok {
			return domain.StatementType(verb), verb
		}
		return domain.StmtIndeterminate, verb
	}
}
