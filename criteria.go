// Package criteria builds MongoDB find filters from a fluent chain of field
// expressions.
//
//	c := criteria.Where("a").Is("b").And("c").Gt(5)
//	c.OrOperator(criteria.Where("x").Is("y"), criteria.Where("x").Exists(false))
//	filter, err := c.Document()
//
// Nodes created with And share one chain with the node they were created
// from; rendering any node of the chain renders the whole chain. A chain is
// not safe for concurrent use: build and render it on one goroutine, then
// share the rendered document.
package criteria

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operator is a query operator token understood by MongoDB.
type Operator string

const (
	OperatorNe     Operator = "$ne"
	OperatorLt     Operator = "$lt"
	OperatorLte    Operator = "$lte"
	OperatorGt     Operator = "$gt"
	OperatorGte    Operator = "$gte"
	OperatorIn     Operator = "$in"
	OperatorNin    Operator = "$nin"
	OperatorExists Operator = "$exists"
	OperatorNot    Operator = "$not"
	OperatorOr     Operator = "$or"
	OperatorNor    Operator = "$nor"
	OperatorAnd    Operator = "$and"
)

type chain struct {
	elements       []*Criteria
	namingStrategy NamingStrategy

	// err is the first failure recorded by any node of the chain.
	err error
}

func (ch *chain) last() *Criteria {
	if len(ch.elements) == 0 {
		return nil
	}
	return ch.elements[len(ch.elements)-1]
}

// Criteria is one field constraint of a chain, or a logical operator node.
//
// Fluent methods record the first failure on the chain and turn every later
// call on that chain into a no-op. The failure is reported by Err and Document.
type Criteria struct {
	key      string
	criteria bson.D
	isValue  any
	hasIs    bool
	chain    *chain
}

// Operand is accepted by OrOperator, NorOperator and AndOperator: a single
// *Criteria or a Group.
type Operand interface {
	documents() (bson.A, error)
}

// Group lists criteria that form one operand of a logical operator.
type Group []*Criteria

// New returns a criteria without a field key. Operators applied to it render
// at the top level of the document.
func New() *Criteria {
	return &Criteria{chain: &chain{namingStrategy: NAMING_STRATEGY_NO_CHANGE}}
}

// Where starts a new chain constraining key.
func Where(key string) *Criteria {
	return newCriteria(key, &chain{namingStrategy: NAMING_STRATEGY_NO_CHANGE})
}

func newCriteria(key string, ch *chain) *Criteria {
	c := &Criteria{key: key, chain: ch}
	if key != "" {
		ch.elements = append(ch.elements, c)
	}
	return c
}

// And appends a criteria for key to the receiver's chain and returns it.
func (c *Criteria) And(key string) *Criteria {
	return newCriteria(key, c.chain)
}

// Key returns the field key, or the operator token of a logical node.
func (c *Criteria) Key() string {
	return c.key
}

// Err returns the first error recorded on the chain.
func (c *Criteria) Err() error {
	return c.chain.err
}

// SetNamingStrategy sets how field keys of the whole chain are rendered.
func (c *Criteria) SetNamingStrategy(strategy NamingStrategy) *Criteria {
	c.chain.namingStrategy = strategy
	return c
}

// GetNamingStrategy returns the naming strategy of the chain.
func (c *Criteria) GetNamingStrategy() NamingStrategy {
	return c.chain.namingStrategy
}

func (c *Criteria) fail(err error) *Criteria {
	if c.chain.err == nil {
		c.chain.err = err
	}
	return c
}

func (c *Criteria) set(op Operator, v any) *Criteria {
	if c.chain.err != nil {
		return c
	}
	c.criteria = put(c.criteria, string(op), v)
	return c
}

// lastOperationWasNot reports whether the last operator entry is a $not
// without a value, which negates whatever comes next.
func (c *Criteria) lastOperationWasNot() bool {
	if len(c.criteria) == 0 {
		return false
	}
	last := c.criteria[len(c.criteria)-1]
	return last.Key == string(OperatorNot) && isFalsy(last.Value)
}

// Is sets the value the field must equal.
func (c *Criteria) Is(v any) *Criteria {
	if c.chain.err != nil {
		return c
	}
	if c.hasIs {
		return c.fail(fmt.Errorf("%w: key %q already has value %v", ErrDuplicateEquality, c.key, c.isValue))
	}
	if c.lastOperationWasNot() {
		return c.fail(fmt.Errorf("%w: key %q", ErrNegatedEquality, c.key))
	}
	c.isValue, c.hasIs = v, true
	return c
}

// Ne sets $ne.
func (c *Criteria) Ne(v any) *Criteria {
	return c.set(OperatorNe, v)
}

// Lt sets $lt.
func (c *Criteria) Lt(v any) *Criteria {
	return c.set(OperatorLt, v)
}

// Lte sets $lte.
func (c *Criteria) Lte(v any) *Criteria {
	return c.set(OperatorLte, v)
}

// Gt sets $gt.
func (c *Criteria) Gt(v any) *Criteria {
	return c.set(OperatorGt, v)
}

// Gte sets $gte.
func (c *Criteria) Gte(v any) *Criteria {
	return c.set(OperatorGte, v)
}

// In matches any of values. A single slice argument is the list itself, so
// In(ids) and In(1, 2, 3) both render a flat $in. A slice as the second of
// several values is rejected.
func (c *Criteria) In(values ...any) *Criteria {
	if c.chain.err != nil {
		return c
	}
	list := listValues(values)
	if len(list) > 1 && isSequence(list[1]) {
		return c.fail(fmt.Errorf("%w: key %q got %v", ErrArgumentShape, c.key, list))
	}
	return c.set(OperatorIn, list)
}

// Nin matches none of values. A single slice argument is expanded as in In.
func (c *Criteria) Nin(values ...any) *Criteria {
	return c.set(OperatorNin, listValues(values))
}

// Exists sets $exists.
func (c *Criteria) Exists(v bool) *Criteria {
	return c.set(OperatorExists, v)
}

// Not negates the next operator applied to this criteria.
func (c *Criteria) Not() *Criteria {
	return c.set(OperatorNot, nil)
}

// NotValue sets $not to v directly.
func (c *Criteria) NotValue(v any) *Criteria {
	return c.set(OperatorNot, v)
}

// Regex matches the field against pattern. After Not the pattern becomes the
// value of $not, otherwise it is the field's equality value.
func (c *Criteria) Regex(pattern, options string) *Criteria {
	if c.chain.err != nil {
		return c
	}
	if pattern == "" {
		return c.fail(fmt.Errorf("%w: key %q", ErrNullPattern, c.key))
	}
	reg := primitive.Regex{Pattern: pattern, Options: options}
	if c.lastOperationWasNot() {
		return c.NotValue(reg)
	}
	c.isValue, c.hasIs = reg, true
	return c
}

// OrOperator appends {$or: [...]} to the chain, one entry per criteria of
// all operands.
func (c *Criteria) OrOperator(operands ...Operand) *Criteria {
	if c.chain.err != nil {
		return c
	}
	statements := bson.A{}
	for _, op := range operands {
		docs, err := op.documents()
		if err != nil {
			return c.fail(err)
		}
		statements = append(statements, docs...)
	}
	return c.register(OperatorOr, statements)
}

// NorOperator appends {$nor: [[...], ...]} to the chain, one list per operand.
func (c *Criteria) NorOperator(operands ...Operand) *Criteria {
	return c.registerGrouped(OperatorNor, operands)
}

// AndOperator appends {$and: [[...], ...]} to the chain, one list per operand.
func (c *Criteria) AndOperator(operands ...Operand) *Criteria {
	return c.registerGrouped(OperatorAnd, operands)
}

func (c *Criteria) registerGrouped(op Operator, operands []Operand) *Criteria {
	if c.chain.err != nil {
		return c
	}
	statements := bson.A{}
	for _, operand := range operands {
		docs, err := operand.documents()
		if err != nil {
			return c.fail(err)
		}
		statements = append(statements, docs)
	}
	return c.register(op, statements)
}

func (c *Criteria) register(op Operator, statements bson.A) *Criteria {
	element := &Criteria{key: string(op), isValue: statements, hasIs: true, chain: c.chain}
	last := c.chain.last()
	if last == nil {
		last = c
	}
	if last.lastOperationWasNot() {
		return c.fail(fmt.Errorf("%w: %v", ErrCombinatorAfterNegation, bson.D{{Key: string(op), Value: statements}}))
	}
	c.chain.elements = append(c.chain.elements, element)
	return c
}

func (c *Criteria) documents() (bson.A, error) {
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	return bson.A{doc}, nil
}

func (g Group) documents() (bson.A, error) {
	docs := make(bson.A, 0, len(g))
	for _, c := range g {
		doc, err := c.Document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
