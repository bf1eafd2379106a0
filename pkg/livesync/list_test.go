package livesync

import (
	"testing"

	"offeralert_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func promo(id uint, code string) model.PromoCode {
	return model.PromoCode{
		Model:     gorm.Model{ID: id},
		BrandName: "Glow Cosmetics",
		BrandSlug: "glow-cosmetics",
		Code:      code,
		Category:  model.CategoryBeauty,
		UserID:    7,
	}
}

func TestList_InsertPrepends(t *testing.T) {
	list := List{promo(1, "GLOW10")}

	list = list.Apply(Event{Kind: Insert, Record: promo(2, "GLOW20")})

	require.Len(t, list, 2)
	assert.Equal(t, uint(2), list[0].ID, "new record must be first")
	assert.Equal(t, uint(1), list[1].ID)
}

func TestList_DuplicateInsertIsNoOp(t *testing.T) {
	list := List{promo(1, "GLOW10")}

	list = list.Apply(Event{Kind: Insert, Record: promo(1, "GLOW10")})

	assert.Len(t, list, 1)
}

func TestList_UpdateReplacesInPlace(t *testing.T) {
	list := List{promo(2, "GLOW20"), promo(1, "GLOW10")}

	updated := promo(1, "GLOW15")
	list = list.Apply(Event{Kind: Update, Record: updated})

	require.Len(t, list, 2)
	assert.Equal(t, uint(2), list[0].ID, "position must not change on update")
	assert.Equal(t, "GLOW15", list[1].Code)
}

func TestList_UpdateForMissingIDIsNoOp(t *testing.T) {
	list := List{promo(1, "GLOW10")}

	list = list.Apply(Event{Kind: Update, Record: promo(9, "NOPE")})

	require.Len(t, list, 1)
	assert.Equal(t, "GLOW10", list[0].Code)
}

func TestList_DeleteIsIdempotent(t *testing.T) {
	list := List{promo(2, "GLOW20"), promo(1, "GLOW10")}

	list = list.Apply(Event{Kind: Delete, Record: promo(1, "GLOW10")})
	require.Len(t, list, 1)

	again := list.Apply(Event{Kind: Delete, Record: promo(1, "GLOW10")})
	assert.Equal(t, list, again, "second delete must be a no-op")
}

func TestList_InsertUpdateDeleteLeavesNoTrace(t *testing.T) {
	var list List

	list = list.Apply(Event{Kind: Insert, Record: promo(1, "GLOW10")})
	list = list.Apply(Event{Kind: Update, Record: promo(1, "GLOW15")})
	list = list.Apply(Event{Kind: Delete, Record: promo(1, "GLOW15")})

	assert.Empty(t, list)
}
