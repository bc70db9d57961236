package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

func TestTopBuyingBrand(t *testing.T) {
	ds := newDataset(t,
		// Monster has more total dollars, Rockstar owns the biggest single household total.
		rec("CVS", "Monster", "H1", 1, "$10", "2014-01-01"),
		rec("CVS", "Monster", "H2", 1, "$10", "2014-01-01"),
		rec("CVS", "Monster", "H3", 1, "$10", "2014-01-01"),
		rec("CVS", "Rockstar", "H4", 1, "$8.50", "2014-01-01"),
		rec("Publix", "Rockstar", "H4", 1, "$8.50", "2014-01-02"),
	)

	got, err := TopBuyingBrand(ds)
	require.NoError(t, err)
	assert.Equal(t, "Rockstar", got)

	spends, err := HouseholdSpends(ds)
	require.NoError(t, err)
	require.Len(t, spends, 4)
	assert.Equal(t, HouseholdSpend{Brand: "Rockstar", HouseholdID: "H4", Total: 1700}, spends[0])
}

func TestTopBuyingBrand_TieBreak(t *testing.T) {
	ds := newDataset(t,
		rec("CVS", "Rockstar", "H9", 1, "$5", "2014-01-01"),
		rec("CVS", "Monster", "H2", 1, "$5", "2014-01-01"),
		rec("CVS", "Monster", "H1", 1, "$5", "2014-01-01"),
	)

	spends, err := HouseholdSpends(ds)
	require.NoError(t, err)
	assert.Equal(t, "Monster", spends[0].Brand)
	assert.Equal(t, "H1", spends[0].HouseholdID)

	got, err := TopBuyingBrand(ds)
	require.NoError(t, err)
	assert.Equal(t, "Monster", got)
}

func TestTopBuyingBrand_Idempotent(t *testing.T) {
	ds := randomDataset(t, 99, 300)

	first, err := TopBuyingBrand(ds)
	require.NoError(t, err)
	second, err := TopBuyingBrand(ds)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTopBuyingBrand_MalformedDollars(t *testing.T) {
	ds := newDataset(t,
		rec("CVS", "Monster", "H1", 1, "$1.00", "2014-01-01"),
		rec("CVS", "Monster", "H2", 1, "12.34", "2014-01-01"),
	)

	_, err := TopBuyingBrand(ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, transactions.ErrDataError))

	var fe *transactions.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "item_dollars", fe.Field)
	assert.Equal(t, 1, fe.Row)
	assert.Equal(t, "12.34", fe.Value)
}

func TestBrandSpendRates(t *testing.T) {
	ds := newDataset(t,
		rec("CVS", "Monster", "H1", 1, "$10", "2014-01-01"),
		rec("CVS", "Monster", "H2", 1, "$20", "2014-01-01"),
		rec("CVS", "Rockstar", "H3", 1, "$12", "2014-01-01"),
		rec("CVS", "Rockstar", "H4", 1, "$14", "2014-01-01"),
	)

	rates, err := BrandSpendRates(ds)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "Monster", rates[0].Brand)
	assert.Equal(t, 2, rates[0].Households)
	assert.InDelta(t, 15.0, rates[0].PerHH, 1e-9)
	assert.InDelta(t, 13.0, rates[1].PerHH, 1e-9)

	literal, err := TopBuyingBrand(ds)
	require.NoError(t, err)
	assert.Equal(t, "Monster", literal)

	byRate, err := TopBrandByRate(ds)
	require.NoError(t, err)
	assert.Equal(t, "Monster", byRate)
}
