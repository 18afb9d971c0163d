package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	assert.Nil(t, Required("name", "ok"))

	ef := Required("name", "   ")
	require.NotNil(t, ef)
	assert.Equal(t, "name", ef.Field)
}

func TestMinInt(t *testing.T) {
	assert.Nil(t, MinInt("year", 2020, 1900))
	assert.NotNil(t, MinInt("year", 1800, 1900))
}

func TestPositive(t *testing.T) {
	assert.Nil(t, Positive("amount", 1))
	assert.NotNil(t, Positive("amount", 0))
	assert.NotNil(t, Positive("amount", -5))
}

func TestErrsError(t *testing.T) {
	e := Errs{
		{Field: "a", Msg: "required"},
		{Field: "b", Msg: "must be > 0"},
	}
	assert.Equal(t, "a: required; b: must be > 0", e.Error())
}
