package criteria

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Document renders the whole chain the receiver belongs to.
func (c *Criteria) Document() (bson.D, error) {
	if c.chain.err != nil {
		return nil, c.chain.err
	}
	elements := c.chain.elements
	if len(elements) == 1 {
		return elements[0].SingleDocument()
	}
	if len(elements) == 0 && len(c.criteria) > 0 {
		return c.SingleDocument()
	}

	doc := bson.D{}
	for _, e := range elements {
		single, err := e.SingleDocument()
		if err != nil {
			return nil, err
		}
		for _, entry := range single {
			if doc, err = putUnique(doc, entry); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// SingleDocument renders the receiver alone, ignoring the rest of its chain.
//
// A $not without a value negates the entry that follows it; that entry is
// rendered as a [key, value] pair under $not.
func (c *Criteria) SingleDocument() (bson.D, error) {
	if c.chain.err != nil {
		return nil, c.chain.err
	}
	statement := bson.D{}
	notFlag := false
	for _, e := range c.criteria {
		switch {
		case notFlag:
			// TODO: emit {$not: {key: value}}; the pair is not a valid query fragment.
			statement = put(statement, string(OperatorNot), bson.A{e.Key, e.Value})
			notFlag = false
		case e.Key == string(OperatorNot) && isFalsy(e.Value):
			notFlag = true
		default:
			statement = put(statement, e.Key, e.Value)
		}
	}

	if c.key == "" {
		if notFlag {
			return bson.D{{Key: string(OperatorNot), Value: statement}}, nil
		}
		return statement, nil
	}

	key := fieldName(c.chain.namingStrategy, c.key)
	if !c.hasIs {
		return bson.D{{Key: key, Value: statement}}, nil
	}
	doc := bson.D{{Key: key, Value: c.isValue}}
	for _, e := range statement {
		doc = put(doc, e.Key, e.Value)
	}
	return doc, nil
}

func putUnique(doc bson.D, e bson.E) (bson.D, error) {
	if existing, ok := lookup(doc, e.Key); ok && !isFalsy(existing) {
		return nil, fmt.Errorf("%w: you can't add a second '%s' expression specified as '%s : %v', criteria already contains '%s : %v'",
			ErrDuplicateKey, e.Key, e.Key, e.Value, e.Key, existing)
	}
	return put(doc, e.Key, e.Value), nil
}
