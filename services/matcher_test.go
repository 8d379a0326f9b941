package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
	"github.com/SAsh-1102/AI-Sales-Agent/services"
)

func testCatalog(t *testing.T) *services.Catalog {
	t.Helper()
	catalog, err := services.NewCatalog([]models.Product{
		{"name": "Laptop X", "model": "LPX-100", "category": "laptop", "price": "$999", "processor": "i7"},
		{"name": "Laptop Y", "model": "LPY-200", "category": "laptop", "price": "$999", "processor": "i5"},
		{"name": "Gaming Pro 15", "model": "GP15-3070", "category": "gaming laptop", "price": "$1799"},
	})
	require.NoError(t, err)
	return catalog
}

func TestMatchProducts(t *testing.T) {
	m := services.NewMatcher(testCatalog(t))

	t.Run("matches by name", func(t *testing.T) {
		matched := m.MatchProducts("how much is the Laptop X?")
		require.Len(t, matched, 1)
		assert.Equal(t, "Laptop X", matched[0].Name())
	})

	t.Run("matches by model code", func(t *testing.T) {
		matched := m.MatchProducts("tell me about the LPY-200")
		require.Len(t, matched, 1)
		assert.Equal(t, "Laptop Y", matched[0].Name())
	})

	t.Run("is case insensitive", func(t *testing.T) {
		matched := m.MatchProducts("do you sell the laptop x")
		require.Len(t, matched, 1)
		assert.Equal(t, "Laptop X", matched[0].Name())
	})

	t.Run("multiple matches keep catalog order", func(t *testing.T) {
		matched := m.MatchProducts("Laptop Y or Laptop X, which should I get")
		require.Len(t, matched, 2)
		assert.Equal(t, "Laptop X", matched[0].Name())
		assert.Equal(t, "Laptop Y", matched[1].Name())
	})

	t.Run("no partial word matches", func(t *testing.T) {
		// "Gaming Pro 15" must not fire on "pro" inside "processor"
		assert.Empty(t, m.MatchProducts("what processor options do you have"))
	})

	t.Run("whole phrase only", func(t *testing.T) {
		assert.Empty(t, m.MatchProducts("I like gaming"))
	})

	t.Run("no products mentioned", func(t *testing.T) {
		assert.Empty(t, m.MatchProducts("do you ship internationally?"))
	})
}

func TestMatchCasual(t *testing.T) {
	m := services.NewMatcher(testCatalog(t))

	reply, ok := m.MatchCasual("hello")
	require.True(t, ok)
	assert.Equal(t, "Hi there! How can I help you today?", reply)

	_, ok = m.MatchCasual("shipping options please")
	assert.False(t, ok)

	// "hi" must not fire inside other words
	_, ok = m.MatchCasual("the high end model")
	assert.False(t, ok)
}

func TestHasComparisonCue(t *testing.T) {
	m := services.NewMatcher(testCatalog(t))

	assert.True(t, m.HasComparisonCue("compare Laptop X vs Laptop Y"))
	assert.True(t, m.HasComparisonCue("Laptop X versus Laptop Y"))
	assert.True(t, m.HasComparisonCue("which is better"))
	assert.False(t, m.HasComparisonCue("I want a laptop"))
	// "vs" must not fire inside other words
	assert.False(t, m.HasComparisonCue("the canvas bag"))
}
