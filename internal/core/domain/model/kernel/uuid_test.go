package kernel_test

import (
	"testing"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	a := kernel.NewUUID()
	b := kernel.NewUUID()

	require.NoError(t, a.Validate())
	assert.False(t, a.IsEqual(b))
	assert.False(t, a.IsZero())
}

func TestUUIDFromString(t *testing.T) {
	t.Run("round trips canonical form", func(t *testing.T) {
		original := kernel.NewUUID()

		parsed, err := kernel.UUIDFromString(original.String())

		require.NoError(t, err)
		assert.True(t, parsed.IsEqual(original))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("rejects nil uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())

		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID

	assert.True(t, zero.IsZero())
	assert.ErrorIs(t, zero.Validate(), errs.ErrValueIsRequired)
}

func TestMustUUIDFromString(t *testing.T) {
	assert.Panics(t, func() { kernel.MustUUIDFromString("x") })
	assert.NotPanics(t, func() { kernel.MustUUIDFromString("6ba7b810-9dad-11d1-80b4-00c04fd430c8") })
}
