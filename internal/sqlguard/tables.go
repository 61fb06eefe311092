package sqlguard

import "strings"

// extractTableNames lexically collects identifiers following FROM and JOIN
// tokens, including comma-separated FROM lists. Dotted names keep their
// last component. This exists for audit attribution only — it is best
// effort and an empty result is never an error.
func extractTableNames(tokens []Token) []string {
	var tables []string
	seen := make(map[string]struct{})

	add := func(name string) {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		tables = append(tables, key)
	}

	for i := 0; i < len(tokens); i++ {
		if !keywordIs(tokens[i], "FROM") && !keywordIs(tokens[i], "JOIN") {
			continue
		}
		fromList := keywordIs(tokens[i], "FROM")
		j := i + 1
		for j < len(tokens) {
			// Subquery or table function — no bare table name here.
			if tokens[j].Type == TokenLParen {
				break
			}
			if tokens[j].Type != TokenIdent || isClauseKeyword(tokens[j]) {
				break
			}
			name := tokens[j].Literal
			// a.b.c — keep walking, the real name is the last component.
			for j+2 < len(tokens) && tokens[j+1].Type == TokenDot && tokens[j+2].Type == TokenIdent {
				name = tokens[j+2].Literal
				j += 2
			}
			add(name)
			j++
			// Skip an alias (with optional AS).
			if j < len(tokens) && keywordIs(tokens[j], "AS") {
				j++
			}
			if j < len(tokens) && tokens[j].Type == TokenIdent && !isClauseKeyword(tokens[j]) {
				j++
			}
			// Only FROM takes a comma-separated table list.
			if fromList && j < len(tokens) && tokens[j].Type == TokenComma {
				j++
				continue
			}
			break
		}
	}
	return tables
}

// isClauseKeyword reports whether the identifier opens a new clause and
// therefore cannot be a table name or alias.
func isClauseKeyword(tok Token) bool {
	if tok.Type != TokenIdent {
		return false
	}
	switch strings.ToUpper(tok.Literal) {
	case "WHERE", "GROUP", "HAVING", "ORDER", "LIMIT", "JOIN", "ON",
		"LEFT", "RIGHT", "INNER", "OUTER", "FULL", "CROSS", "UNION",
		"INTERSECT", "EXCEPT", "USING", "AS", "SELECT", "QUALIFY", "WINDOW":
		return true
	}
	return false
}
