package main

import (
	"github.com/bi0dread/criteria"
)

type namedQuery struct {
	Name     string
	Criteria *criteria.Criteria
}

// sampleQueries builds fresh criteria on every call; a chain must not be
// extended after it has been handed out.
func sampleQueries() []namedQuery {
	engaged := criteria.Where("status").Is("active")
	engaged.OrOperator(
		criteria.Where("score").Gt(90.0),
		criteria.Where("loginCount").Gte(50).SetNamingStrategy(criteria.NAMING_STRATEGY_SNAKE_CASE),
	)

	clean := criteria.Where("archived").Is(false)
	clean.NorOperator(
		criteria.Where("status").Is("banned"),
		criteria.Group{criteria.Where("age").Lt(18), criteria.Where("country").Is("US")},
	)

	countries := []string{"US", "DE", "IR"}

	return []namedQuery{
		{Name: "active users", Criteria: criteria.Where("status").Is("active")},
		{Name: "age range", Criteria: criteria.Where("age").Gte(25).Lte(40)},
		{Name: "name pattern", Criteria: criteria.Where("name").Regex("^a", "i")},
		{Name: "not gmail", Criteria: criteria.Where("email").Not().Regex(`@gmail\.com$`, "")},
		{Name: "countries", Criteria: criteria.Where("country").In(countries).And("age").Gte(21)},
		{Name: "engaged", Criteria: engaged},
		{Name: "clean adults", Criteria: clean},
		{Name: "not deleted", Criteria: criteria.Where("deletedAt").Exists(false).SetNamingStrategy(criteria.NAMING_STRATEGY_SNAKE_CASE)},
	}
}
