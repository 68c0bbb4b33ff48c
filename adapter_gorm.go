package criteria

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var regexSQLOperator = "REGEXP"

// SetRegexSQLOperator sets the SQL operator used for regex matches; use ~ or ~* for Postgres.
func SetRegexSQLOperator(op string) {
	regexSQLOperator = op
}

// GetRegexSQLOperator returns the SQL operator used for regex matches.
func GetRegexSQLOperator() string {
	return regexSQLOperator
}

// ToGormClause converts a rendered filter document into a gorm clause.Expression.
// An empty document yields a nil expression.
func ToGormClause(doc bson.D) (clause.Expression, error) {
	exprs, err := gormExprs(doc)
	if err != nil {
		return nil, err
	}
	switch len(exprs) {
	case 0:
		return nil, nil
	case 1:
		return exprs[0], nil
	}
	return clause.And(exprs...), nil
}

// ApplyGorm renders c and adds it to trx as a WHERE clause.
func ApplyGorm(c *Criteria, trx *gorm.DB) (*gorm.DB, error) {
	doc, err := c.Document()
	if err != nil {
		return trx, err
	}
	exprs, err := gormExprs(doc)
	if err != nil {
		return trx, err
	}
	if len(exprs) == 0 {
		return trx, nil
	}
	return trx.Clauses(clause.Where{Exprs: exprs}), nil
}

// SQLString returns the SELECT statement gorm would run to load c into dest,
// with placeholders, and its vars. Nothing is executed.
func SQLString(c *Criteria, db *gorm.DB, dest any) (string, []any, error) {
	trx, err := ApplyGorm(c, db.Session(&gorm.Session{DryRun: true}))
	if err != nil {
		return "", nil, err
	}
	res := trx.Find(dest)
	if res.Error != nil {
		return "", nil, res.Error
	}
	return res.Statement.SQL.String(), res.Statement.Vars, nil
}

func gormExprs(doc bson.D) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(doc))
	for _, e := range doc {
		expr, err := gormEntry(e)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func gormEntry(e bson.E) (clause.Expression, error) {
	switch e.Key {
	case string(OperatorOr):
		docs, err := documentList(e.Key, e.Value)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("%w: empty %s", ErrUnsupportedOperator, e.Key)
		}
		parts := make([]clause.Expression, 0, len(docs))
		for _, d := range docs {
			expr, err := ToGormClause(d)
			if err != nil {
				return nil, err
			}
			if expr != nil {
				parts = append(parts, expr)
			}
		}
		if len(parts) == 0 {
			return nil, fmt.Errorf("%w: %s without conditions", ErrUnsupportedOperator, e.Key)
		}
		return clause.Or(parts...), nil
	case string(OperatorAnd):
		groups, err := gormGroups(e)
		if err != nil {
			return nil, err
		}
		return clause.And(groups...), nil
	case string(OperatorNor):
		groups, err := gormGroups(e)
		if err != nil {
			return nil, err
		}
		return clause.Not(clause.Or(groups...)), nil
	}
	if strings.HasPrefix(e.Key, "$") {
		return nil, fmt.Errorf("%w: %s at top level", ErrUnsupportedOperator, e.Key)
	}
	return gormField(e.Key, e.Value)
}

// gormGroups converts the list of document lists held by $and and $nor; each
// list becomes one AND group.
func gormGroups(e bson.E) ([]clause.Expression, error) {
	list, ok := e.Value.(bson.A)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a list, got %T", ErrUnsupportedOperator, e.Key, e.Value)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: empty %s", ErrUnsupportedOperator, e.Key)
	}
	groups := make([]clause.Expression, 0, len(list))
	for _, item := range list {
		docs, err := documentList(e.Key, item)
		if err != nil {
			return nil, err
		}
		var parts []clause.Expression
		for _, d := range docs {
			exprs, err := gormExprs(d)
			if err != nil {
				return nil, err
			}
			parts = append(parts, exprs...)
		}
		if len(parts) == 0 {
			return nil, fmt.Errorf("%w: empty group in %s", ErrUnsupportedOperator, e.Key)
		}
		groups = append(groups, clause.And(parts...))
	}
	return groups, nil
}

func documentList(op string, v any) ([]bson.D, error) {
	list, ok := v.(bson.A)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a list, got %T", ErrUnsupportedOperator, op, v)
	}
	docs := make([]bson.D, 0, len(list))
	for _, item := range list {
		d, ok := item.(bson.D)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects documents, got %T", ErrUnsupportedOperator, op, item)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func gormField(field string, v any) (clause.Expression, error) {
	switch x := v.(type) {
	case primitive.Regex:
		return gormRegex(field, x)
	case bson.D:
		if !isOperatorDocument(x) {
			return nil, fmt.Errorf("%w: embedded document on %q", ErrUnsupportedOperator, field)
		}
		parts := make([]clause.Expression, 0, len(x))
		for _, e := range x {
			expr, err := gormOperator(field, e)
			if err != nil {
				return nil, err
			}
			parts = append(parts, expr)
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return clause.And(parts...), nil
	default:
		return clause.Eq{Column: field, Value: v}, nil
	}
}

func gormOperator(field string, e bson.E) (clause.Expression, error) {
	switch Operator(e.Key) {
	case OperatorNe:
		return clause.Neq{Column: field, Value: e.Value}, nil
	case OperatorLt:
		return clause.Lt{Column: field, Value: e.Value}, nil
	case OperatorLte:
		return clause.Lte{Column: field, Value: e.Value}, nil
	case OperatorGt:
		return clause.Gt{Column: field, Value: e.Value}, nil
	case OperatorGte:
		return clause.Gte{Column: field, Value: e.Value}, nil
	case OperatorIn:
		values, ok := e.Value.(bson.A)
		if !ok {
			return nil, fmt.Errorf("%w: $in on %q expects a list", ErrUnsupportedOperator, field)
		}
		return clause.IN{Column: field, Values: []any(values)}, nil
	case OperatorNin:
		values, ok := e.Value.(bson.A)
		if !ok {
			return nil, fmt.Errorf("%w: $nin on %q expects a list", ErrUnsupportedOperator, field)
		}
		return clause.Not(clause.IN{Column: field, Values: []any(values)}), nil
	case OperatorExists:
		if exists, _ := e.Value.(bool); exists {
			return clause.Neq{Column: field, Value: nil}, nil
		}
		return clause.Eq{Column: field, Value: nil}, nil
	case OperatorNot:
		switch x := e.Value.(type) {
		case primitive.Regex:
			expr, err := gormRegex(field, x)
			if err != nil {
				return nil, err
			}
			return clause.Not(expr), nil
		case bson.D:
			inner, err := gormField(field, x)
			if err != nil {
				return nil, err
			}
			return clause.Not(inner), nil
		}
		return nil, fmt.Errorf("%w: $not on %q with %T", ErrUnsupportedOperator, field, e.Value)
	}
	return nil, fmt.Errorf("%w: %s on %q", ErrUnsupportedOperator, e.Key, field)
}

// gormRegex supports the i option by lowering both sides; other options have
// no portable SQL form.
func gormRegex(field string, r primitive.Regex) (clause.Expression, error) {
	vars := []any{clause.Column{Name: field}, r.Pattern}
	switch r.Options {
	case "":
		return clause.Expr{SQL: fmt.Sprintf("? %s ?", GetRegexSQLOperator()), Vars: vars}, nil
	case "i":
		return clause.Expr{SQL: fmt.Sprintf("LOWER(?) %s LOWER(?)", GetRegexSQLOperator()), Vars: vars}, nil
	}
	return nil, fmt.Errorf("%w: regex options %q on %q", ErrUnsupportedOperator, r.Options, field)
}

func isOperatorDocument(d bson.D) bool {
	if len(d) == 0 {
		return false
	}
	for _, e := range d {
		if !strings.HasPrefix(e.Key, "$") {
			return false
		}
	}
	return true
}
