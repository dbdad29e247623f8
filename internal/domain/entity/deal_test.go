package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"dealsadmin/internal/domain/entity"
)

func TestDealDiscountPercent(t *testing.T) {
	testCases := []struct {
		name        string
		opPrice     string
		askingPrice string
		want        float64
		wantOK      bool
	}{
		{name: "Discount", opPrice: "1000", askingPrice: "800", want: 20.0, wantOK: true},
		{name: "Markup", opPrice: "800", askingPrice: "1000", want: -25.0, wantOK: true},
		{name: "Equal", opPrice: "1000", askingPrice: "1000", want: 0.0, wantOK: true},
		{name: "Rounded to one decimal", opPrice: "300", askingPrice: "200", want: 33.3, wantOK: true},
		{name: "Rounded half away from zero", opPrice: "1000", askingPrice: "999.5", want: 0.1, wantOK: true},
		{name: "Zero op price is undefined", opPrice: "0", askingPrice: "500", want: 0, wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			deal := entity.Deal{
				OpPrice:     decimal.RequireFromString(tc.opPrice),
				AskingPrice: decimal.RequireFromString(tc.askingPrice),
			}

			got, ok := deal.DiscountPercent()
			rq.Equal(tc.wantOK, ok)
			rq.InDelta(tc.want, got, 1e-9)
		})
	}
}

func TestDealJSONPrices(t *testing.T) {
	rq := require.New(t)

	var deals []entity.Deal

	err := json.Unmarshal([]byte(`[
		{"id":"a","status":"published","op_price":1000,"asking_price":"800.50","location":null,"published_at":null},
		{"id":"b","status":"draft","op_price":"250000","asking_price":240000,"location":"Dubai Marina"}
	]`), &deals)
	rq.NoError(err)
	rq.Len(deals, 2)

	rq.True(deals[0].OpPrice.Equal(decimal.NewFromInt(1000)))
	rq.True(deals[0].AskingPrice.Equal(decimal.RequireFromString("800.5")))
	rq.Empty(deals[0].LocationText())
	rq.Nil(deals[0].PublishedAt)
	rq.Equal("Dubai Marina", deals[1].LocationText())
	rq.Equal(entity.StatusDraft, deals[1].Status)
}
