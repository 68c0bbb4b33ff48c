package criteria

import "errors"

var (
	ErrDuplicateEquality       = errors.New("multiple 'is' values declared, use 'and' with multiple criteria")
	ErrNegatedEquality         = errors.New("invalid query: 'not' can't be used with 'is', use 'ne' instead")
	ErrArgumentShape           = errors.New("you can only pass in one argument of type slice")
	ErrNullPattern             = errors.New("regex pattern must not be empty")
	ErrCombinatorAfterNegation = errors.New("operator $not is not allowed around criteria chain element")
	ErrDuplicateKey            = errors.New("duplicate key in criteria chain")

	// ErrUnsupportedOperator is returned by adapters for document shapes they cannot translate.
	ErrUnsupportedOperator = errors.New("unsupported operator")
)
