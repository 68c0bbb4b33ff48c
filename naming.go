package criteria

import (
	"strings"

	"github.com/gobeam/stringy"
)

type NamingStrategy string

const (
	NAMING_STRATEGY_NO_CHANGE  NamingStrategy = "no_change"
	NAMING_STRATEGY_SNAKE_CASE NamingStrategy = "snake_case"
)

// fieldName applies the naming strategy to every segment of a dotted field path.
// Operator keys are returned untouched.
func fieldName(strategy NamingStrategy, key string) string {
	if strategy != NAMING_STRATEGY_SNAKE_CASE || key == "" || strings.HasPrefix(key, "$") {
		return key
	}
	segments := strings.Split(key, ".")
	for i, s := range segments {
		if s == "" {
			continue
		}
		segments[i] = stringy.New(s).SnakeCase("?", "").ToLower()
	}
	return strings.Join(segments, ".")
}
