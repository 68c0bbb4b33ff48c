package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegex(t *testing.T) {
	got, err := Where("name").Regex("^al", "i").Document()
	require.NoError(t, err)
	assert.Equal(t, doc("name", primitive.Regex{Pattern: "^al", Options: "i"}), got)
}

func TestNotRegex(t *testing.T) {
	got, err := Where("name").Not().Regex("^al", "").Document()
	require.NoError(t, err)
	assert.Equal(t, doc("name", doc("$not", primitive.Regex{Pattern: "^al"})), got)
}

func TestRegexEmptyPattern(t *testing.T) {
	for name, c := range map[string]*Criteria{
		"fresh":     Where("a"),
		"after not": Where("a").Not(),
		"after is":  Where("a").Is(1),
		"after gt":  Where("a").Gt(1),
		"no key":    New(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, c.Regex("", "i").Err(), ErrNullPattern)
		})
	}
}

func TestIsAfterNot(t *testing.T) {
	c := Where("a").Not().Is(1)
	assert.ErrorIs(t, c.Err(), ErrNegatedEquality)

	// A $not that already holds a value does not block equality.
	c = Where("a").NotValue(doc("$gt", 5)).Is(1)
	assert.NoError(t, c.Err())
}

func TestNotValue(t *testing.T) {
	got, err := Where("a").NotValue(doc("$gt", 5)).Document()
	require.NoError(t, err)
	assert.Equal(t, doc("a", doc("$not", doc("$gt", 5))), got)
}

func TestNotFollowedByOperatorRendersPair(t *testing.T) {
	got, err := Where("a").Not().Gt(5).Document()
	require.NoError(t, err)
	assert.Equal(t, doc("a", doc("$not", bson.A{"$gt", 5})), got)
}

func TestTrailingNot(t *testing.T) {
	got, err := New().Gt(1).Not().Document()
	require.NoError(t, err)
	assert.Equal(t, doc("$not", doc("$gt", 1)), got)

	// A keyed criteria drops the dangling negation.
	got, err = Where("a").Gt(1).Not().Document()
	require.NoError(t, err)
	assert.Equal(t, doc("a", doc("$gt", 1)), got)
}

func TestNewWithOperators(t *testing.T) {
	got, err := New().Gt(1).Lt(3).Document()
	require.NoError(t, err)
	assert.Equal(t, doc("$gt", 1, "$lt", 3), got)

	got, err = New().Document()
	require.NoError(t, err)
	assert.Equal(t, bson.D{}, got)
}

func TestEqualityMergesOperatorsBeside(t *testing.T) {
	got, err := Where("a").Is(1).Gt(0).Document()
	require.NoError(t, err)
	assert.Equal(t, doc("a", 1, "$gt", 0), got)
}

func TestKeyWithoutOperators(t *testing.T) {
	got, err := Where("a").Document()
	require.NoError(t, err)
	assert.Equal(t, doc("a", bson.D{}), got)
}

func TestDuplicateKey(t *testing.T) {
	_, err := Where("a").Gt(1).And("a").Lt(5).Document()
	assert.ErrorIs(t, err, ErrDuplicateKey)

	c := Where("a").Is(1)
	c.OrOperator(Where("x").Is(1))
	c.OrOperator(Where("y").Is(1))
	_, err = c.Document()
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// Equality merges operators beside the key, so both $gt entries collide.
	_, err = Where("a").Is(1).And("b").Is(2).Gt(1).And("c").Is(3).Gt(4).Document()
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestDuplicateKeyOverFalsyValue(t *testing.T) {
	got, err := Where("a").Is(0).And("a").Is(5).Document()
	require.NoError(t, err)
	assert.Equal(t, doc("a", 5), got)
}

func TestRenderIsIdempotent(t *testing.T) {
	c := Where("a").Is("b").And("n").Not().Gt(3)
	c.OrOperator(Where("x").In(1, 2), Where("y").Not().Regex("z", "i"))
	c.NorOperator(Group{Where("p").Exists(false)})

	first, err := c.Document()
	require.NoError(t, err)
	second, err := c.Document()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNamingStrategy(t *testing.T) {
	c := Where("userName").Is("ali").And("address.zipCode").Exists(true)
	assert.Equal(t, NAMING_STRATEGY_NO_CHANGE, c.GetNamingStrategy())

	got, err := c.Document()
	require.NoError(t, err)
	assert.Equal(t, doc("userName", "ali", "address.zipCode", doc("$exists", true)), got)

	c.SetNamingStrategy(NAMING_STRATEGY_SNAKE_CASE)
	got, err = c.Document()
	require.NoError(t, err)
	assert.Equal(t, doc("user_name", "ali", "address.zip_code", doc("$exists", true)), got)
}

func TestNamingStrategyLeavesOperators(t *testing.T) {
	c := Where("vendorId").Is(1).SetNamingStrategy(NAMING_STRATEGY_SNAKE_CASE)
	c.OrOperator(Where("x").Is(1))

	got, err := c.Document()
	require.NoError(t, err)
	assert.Equal(t, doc("vendor_id", 1, "$or", bson.A{doc("x", 1)}), got)
}
