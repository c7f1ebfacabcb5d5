package connector_repository

import (
	"fmt"
	"strings"

	"github.com/RedHatInsights/connector-conformance/internal/domain"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"gorm.io/gorm"
)

// filterExpression is a conjunction of equality terms, e.g.
//
//	connector_type=CONNECTOR_TYPE_SOURCE AND state="STATE_CONNECTED"
type filterExpression struct {
	Terms []*filterTerm `parser:"@@ ( ( 'AND' | 'and' ) @@ )*"`
}

type filterTerm struct {
	Field string `parser:"@Ident '='"`
	Value string `parser:"( @Ident | @String )"`
}

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var filterParser = participle.MustBuild[filterExpression](
	participle.Lexer(filterLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace"),
)

type filterField struct {
	column   string
	validate func(string) bool
}

var definitionFilterFields = map[string]filterField{
	"connector_type": {column: "connector_type", validate: validConnectorType},
}

var connectorFilterFields = map[string]filterField{
	"connector_type": {column: "connector_type", validate: validConnectorType},
	"state":          {column: "state", validate: validState},
}

func validConnectorType(v string) bool {
	return domain.ConnectorType(v).Valid()
}

func validState(v string) bool {
	switch domain.State(v) {
	case domain.StateDisconnected, domain.StateConnected, domain.StateError:
		return true
	}
	return false
}

type filterClause struct {
	column string
	value  string
}

func parseFilter(filter string, fields map[string]filterField) ([]filterClause, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, nil
	}

	expr, err := filterParser.ParseString("", filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", InvalidFilterError, err)
	}

	clauses := make([]filterClause, 0, len(expr.Terms))
	for _, term := range expr.Terms {
		field, ok := fields[term.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported field %q", InvalidFilterError, term.Field)
		}
		if !field.validate(term.Value) {
			return nil, fmt.Errorf("%w: unsupported value %q for field %q", InvalidFilterError, term.Value, term.Field)
		}
		clauses = append(clauses, filterClause{column: field.column, value: term.Value})
	}

	return clauses, nil
}

func applyFilter(query *gorm.DB, clauses []filterClause) *gorm.DB {
	for _, c := range clauses {
		query = query.Where(c.column+" = ?", c.value)
	}
	return query
}
