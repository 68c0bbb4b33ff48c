package criteria

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestEdgeCases covers inputs that used to trip the builder
func TestEdgeCases(t *testing.T) {
	t.Run("EmptyKeyIsNotRegistered", func(t *testing.T) {
		c := Where("")
		if len(c.chain.elements) != 0 {
			t.Fatalf("expected empty chain, got %d elements", len(c.chain.elements))
		}
		c.Gt(1)
		got, err := c.Document()
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Key != "$gt" {
			t.Errorf("unexpected document %v", got)
		}
	})

	t.Run("NotTwiceKeepsPosition", func(t *testing.T) {
		c := Where("a").Not().Gt(1).Not()
		// $not stays first, so the last entry is $gt and equality is allowed.
		if err := c.Is(2).Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("FalsyNotValueStaysDeferred", func(t *testing.T) {
		for _, v := range []any{nil, false, 0, "", bson.A{}, bson.D{}} {
			if err := Where("a").NotValue(v).Is(1).Err(); err == nil {
				t.Errorf("expected error for $not value %#v", v)
			}
		}
	})

	t.Run("RegexReplacesEqualityWithoutCheck", func(t *testing.T) {
		got, err := Where("a").Is(1).Regex("x", "").Document()
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got[0].Value.(primitive.Regex); !ok {
			t.Errorf("expected regex value, got %T", got[0].Value)
		}
		if err := Where("a").Regex("x", "").Is(1).Err(); err == nil {
			t.Error("expected duplicate equality after regex")
		}
	})

	t.Run("InCopiesArguments", func(t *testing.T) {
		values := []any{1, 2}
		c := Where("a").In(values...)
		values[0] = 9
		got, err := c.Document()
		if err != nil {
			t.Fatal(err)
		}
		in := got[0].Value.(bson.D)[0].Value.(bson.A)
		if in[0] != 1 {
			t.Errorf("expected $in to keep 1, got %v", in[0])
		}
	})

	t.Run("EmptyCombinator", func(t *testing.T) {
		got, err := Where("a").Is(1).OrOperator().Document()
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := lookup(got, "$or"); len(v.(bson.A)) != 0 {
			t.Errorf("expected empty $or, got %v", v)
		}
	})
}

func TestIsFalsy(t *testing.T) {
	var nilPtr *int
	cases := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{false, true},
		{true, false},
		{0, true},
		{int64(3), false},
		{uint8(0), true},
		{0.0, true},
		{0.5, false},
		{"", true},
		{"x", false},
		{bson.A{}, true},
		{bson.A{1}, false},
		{bson.D{}, true},
		{map[string]any{}, true},
		{nilPtr, true},
		{primitive.Regex{}, false},
	}
	for _, tc := range cases {
		if got := isFalsy(tc.v); got != tc.want {
			t.Errorf("isFalsy(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestIsSequence(t *testing.T) {
	cases := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{"abc", false},
		{[]byte("abc"), false},
		{bson.D{}, false},
		{bson.A{}, true},
		{[]int{1}, true},
		{[2]string{"a", "b"}, true},
		{map[string]int{}, false},
	}
	for _, tc := range cases {
		if got := isSequence(tc.v); got != tc.want {
			t.Errorf("isSequence(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}
