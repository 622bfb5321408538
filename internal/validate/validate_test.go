package validate

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredString(t *testing.T) {
	assert.NoError(t, RequiredString("product_Name", "Milk"))

	for _, empty := range []string{"", "   ", "\t\n"} {
		err := RequiredString("product_Name", empty)
		require.Error(t, err)
		ferr, ok := err.(*fiber.Error)
		require.True(t, ok)
		assert.Equal(t, fiber.StatusBadRequest, ferr.Code)
		assert.Contains(t, ferr.Message, "product_Name")
	}
}

func TestNonNegative(t *testing.T) {
	assert.NoError(t, NonNegative("price", 0))
	assert.NoError(t, NonNegative("price", 19.99))

	err := NonNegative("price", -0.01)
	require.Error(t, err)
	ferr, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, ferr.Code)
	assert.Contains(t, ferr.Message, "price")
}

func TestRefExistsRejectsZeroID(t *testing.T) {
	// A zero id never reaches the store.
	err := RefExists("category_ID", nil, 0)
	require.Error(t, err)
	ferr, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, ferr.Code)
}
