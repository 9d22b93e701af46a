package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterprise_BeforeCreate(t *testing.T) {
	t.Parallel()

	e := &Enterprise{Name: "Acme"}
	require.NoError(t, e.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, e.ID)

	fixed := uuid.MustParse("2f1d7c8e-4b7a-4f57-9d8e-1c2b3a4d5e6f")
	e = &Enterprise{ID: fixed}
	require.NoError(t, e.BeforeCreate(nil))
	assert.Equal(t, fixed, e.ID, "existing id is kept")
}

func TestEnterprise_ValueNames(t *testing.T) {
	t.Parallel()

	e := &Enterprise{Values: []Value{{Name: "trust"}, {Name: "growth"}}}
	assert.Equal(t, []string{"trust", "growth"}, e.ValueNames())
	assert.Equal(t, []string{}, (&Enterprise{}).ValueNames())
}
