package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
)

func TestQuoteRejectsBelowMinimum(t *testing.T) {
	for guests := 0; guests < 8; guests++ {
		_, err := Quote(Input{UnitPrice: 30, MinGuests: 8, GuestCount: guests})
		require.ErrorIs(t, err, domainErrors.ErrQuantityBelowMinimum)
		assert.Equal(t, domainErrors.KindValidation, domainErrors.KindOf(err))
	}
}

func TestQuoteRejectsNonPositiveGuests(t *testing.T) {
	_, err := Quote(Input{UnitPrice: 30, MinGuests: 0, GuestCount: 0})
	require.ErrorIs(t, err, domainErrors.ErrInvalidQuantity)
}

func TestQuoteInCityWithDiscount(t *testing.T) {
	price, err := Quote(Input{UnitPrice: 100, MinGuests: 5, GuestCount: 10, DistanceKm: 0})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, price.Subtotal)
	assert.Equal(t, 100.0, price.DiscountAmount)
	assert.True(t, price.DiscountApplied)
	assert.Equal(t, 5.0, price.DeliveryFee)
	assert.Equal(t, 905.0, price.Total)
	assert.False(t, price.OutsideBaseZone)
	assert.Equal(t, 100.0, price.UnitPrice)
	assert.Equal(t, 5, price.MinGuests)
}

func TestQuoteOutsideZoneWithoutDiscount(t *testing.T) {
	price, err := Quote(Input{UnitPrice: 50, MinGuests: 1, GuestCount: 10, DistanceKm: 50})
	require.NoError(t, err)

	assert.Equal(t, 500.0, price.Subtotal)
	assert.Equal(t, 0.0, price.DiscountAmount)
	assert.Equal(t, 34.5, price.DeliveryFee)
	assert.Equal(t, 534.5, price.Total)
	assert.True(t, price.OutsideBaseZone)
	assert.Equal(t, 50.0, price.DistanceKm)
}

func TestQuoteDiscountThreshold(t *testing.T) {
	cases := []struct {
		guests   int
		discount float64
	}{
		{guests: 6, discount: 0},
		{guests: 10, discount: 0},
		{guests: 11, discount: 27.5},
		{guests: 20, discount: 50},
	}
	for _, tc := range cases {
		price, err := Quote(Input{UnitPrice: 25, MinGuests: 6, GuestCount: tc.guests})
		require.NoError(t, err)
		assert.Equal(t, tc.discount, price.DiscountAmount, "guests=%d", tc.guests)
		assert.Equal(t, tc.discount > 0, price.DiscountApplied, "guests=%d", tc.guests)
	}
}

func TestDeliveryFee(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{km: 0, want: "5"},
		{km: 15, want: "13.85"},
		{km: 12.3, want: "12.26"},
		{km: 50, want: "34.5"},
		{km: -3, want: "5"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeliveryFee(tc.km).String(), "km=%v", tc.km)
	}
}

func TestQuoteRoundsTotalToCents(t *testing.T) {
	price, err := Quote(Input{UnitPrice: 12.345, MinGuests: 1, GuestCount: 3, DistanceKm: 1.01})
	require.NoError(t, err)

	// 37.035 -> 37.04 (half away from zero), fee 5.5959 -> 5.60
	assert.Equal(t, 5.6, price.DeliveryFee)
	assert.Equal(t, 42.64, price.Total)
}
