package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

func TestNewCart(t *testing.T) {
	userID := uuid.New()
	c, err := NewCart(valueobject.MustUserIdentity(userID))

	assert.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.UserID)
	assert.Equal(t, userID, *c.UserID)
	assert.Nil(t, c.SessionID)
	assert.True(t, c.Identity().IsUser())
}

func TestNewCart_Guest(t *testing.T) {
	c, err := NewCart(valueobject.MustGuestIdentity("sess-42"))

	assert.NoError(t, err)
	assert.Nil(t, c.UserID)
	assert.NotNil(t, c.SessionID)
	assert.Equal(t, "sess-42", *c.SessionID)
	assert.True(t, c.Identity().IsGuest())
}

func TestNewCart_ZeroIdentity(t *testing.T) {
	_, err := NewCart(valueobject.Identity{})
	assert.Error(t, err)
}

func TestCart_AddItem(t *testing.T) {
	c, _ := NewCart(valueobject.MustGuestIdentity("sess-1"))
	productID := uuid.New()

	err := c.AddItem(productID, nil, decimal.NewFromInt(2), decimal.NewFromInt(100))
	assert.NoError(t, err)
	assert.Len(t, c.Items, 1)
	assert.True(t, c.DisplayedSubtotal.Equal(decimal.NewFromInt(200)))

	// Same product merges into the existing line.
	err = c.AddItem(productID, nil, decimal.NewFromInt(1), decimal.NewFromInt(100))
	assert.NoError(t, err)
	assert.Len(t, c.Items, 1)
	assert.True(t, c.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, c.DisplayedSubtotal.Equal(decimal.NewFromInt(300)))
}

func TestCart_AddItem_DistinctVariants(t *testing.T) {
	c, _ := NewCart(valueobject.MustGuestIdentity("sess-1"))
	productID := uuid.New()
	variantA := uuid.New()
	variantB := uuid.New()

	assert.NoError(t, c.AddItem(productID, &variantA, decimal.NewFromInt(1), decimal.NewFromInt(100)))
	assert.NoError(t, c.AddItem(productID, &variantB, decimal.NewFromInt(1), decimal.NewFromInt(120)))

	assert.Len(t, c.Items, 2)
	assert.True(t, c.DisplayedSubtotal.Equal(decimal.NewFromInt(220)))
}

func TestCart_AddItem_Invalid(t *testing.T) {
	c, _ := NewCart(valueobject.MustGuestIdentity("sess-1"))

	err := c.AddItem(uuid.Nil, nil, decimal.NewFromInt(1), decimal.NewFromInt(100))
	assert.Error(t, err)

	err = c.AddItem(uuid.New(), nil, decimal.Zero, decimal.NewFromInt(100))
	assert.Error(t, err)

	err = c.AddItem(uuid.New(), nil, decimal.NewFromInt(1), decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	c, _ := NewCart(valueobject.MustGuestIdentity("sess-1"))
	_ = c.AddItem(uuid.New(), nil, decimal.NewFromInt(2), decimal.NewFromInt(50))
	itemID := c.Items[0].ID

	err := c.UpdateItemQuantity(itemID, decimal.NewFromInt(5))
	assert.NoError(t, err)
	assert.True(t, c.Items[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, c.DisplayedSubtotal.Equal(decimal.NewFromInt(250)))

	// Zero quantity removes the line.
	err = c.UpdateItemQuantity(itemID, decimal.Zero)
	assert.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.True(t, c.DisplayedSubtotal.IsZero())
}

func TestCart_UpdateItemQuantity_NotFound(t *testing.T) {
	c, _ := NewCart(valueobject.MustGuestIdentity("sess-1"))
	err := c.UpdateItemQuantity(uuid.New(), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestCart_Snapshot(t *testing.T) {
	c, _ := NewCart(valueobject.MustGuestIdentity("sess-1"))
	productID := uuid.New()
	_ = c.AddItem(productID, nil, decimal.NewFromInt(3), decimal.NewFromInt(100))

	lines := c.Snapshot()
	assert.Len(t, lines, 1)
	assert.Equal(t, productID, lines[0].ProductID)
	assert.True(t, lines[0].Amount().Equal(decimal.NewFromInt(300)))

	// Mutating the cart afterwards does not affect the snapshot.
	c.Clear()
	assert.True(t, lines[0].Quantity.Equal(decimal.NewFromInt(3)))
}
