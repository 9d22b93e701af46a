package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"enterprise_backend/internal/feature/symbols/domain/entity"
)

func TestSet(t *testing.T) {
	t.Parallel()

	s := entity.NewSet([]string{"MSFT", "AAPL", "", "AAPL"})

	assert.True(t, s.Contains("AAPL"))
	assert.False(t, s.Contains("aapl"))
	assert.False(t, s.Contains(""))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"AAPL", "MSFT"}, s.Codes())
}

func TestSet_Nil(t *testing.T) {
	t.Parallel()

	var s *entity.Set

	assert.False(t, s.Contains("AAPL"))
	assert.Zero(t, s.Len())
	assert.Nil(t, s.Codes())
}
