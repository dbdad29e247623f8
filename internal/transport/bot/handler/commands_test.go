package handler

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"dealsadmin/internal/domain/entity"
)

func pendingDeals(n int) []entity.Deal {
	deals := make([]entity.Deal, 0, n)

	for i := range n {
		deals = append(deals, entity.Deal{
			ID:          entity.DealID(fmt.Sprintf("d-%d", i+1)),
			Status:      entity.StatusPendingValidation,
			Title:       fmt.Sprintf("Deal %d", i+1),
			OpPrice:     decimal.NewFromInt(1000),
			AskingPrice: decimal.NewFromInt(800),
			Currency:    "EUR",
		})
	}

	return deals
}

func TestPendingPage(t *testing.T) {
	testCases := []struct {
		name         string
		deals        int
		page         int
		wantHeader   string
		wantFirst    string
		wantKeyboard bool
	}{
		{name: "Single page", deals: 3, page: 1, wantHeader: "3 (page 1/1)", wantFirst: "1. <b>Deal 1</b>"},
		{name: "Second page", deals: 7, page: 2, wantHeader: "7 (page 2/2)", wantFirst: "6. <b>Deal 6</b>", wantKeyboard: true},
		{name: "Clamped above", deals: 7, page: 9, wantHeader: "(page 2/2)", wantFirst: "6. <b>Deal 6</b>", wantKeyboard: true},
		{name: "Clamped below", deals: 7, page: 0, wantHeader: "(page 1/2)", wantFirst: "1. <b>Deal 1</b>", wantKeyboard: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			text, keyboard := pendingPage(pendingDeals(tc.deals), tc.page, 5)
			rq.Contains(text, tc.wantHeader)
			rq.Contains(text, tc.wantFirst)
			rq.Contains(text, "EUR 1000 → 800 (20.0%)")
			rq.Equal(tc.wantKeyboard, keyboard != nil)
		})
	}
}

func TestPendingPageEmpty(t *testing.T) {
	rq := require.New(t)

	text, keyboard := pendingPage(nil, 1, 5)
	rq.Contains(text, "All caught up!")
	rq.Nil(keyboard)
}

func TestPaginationKeyboard(t *testing.T) {
	rq := require.New(t)

	first := paginationKeyboard(1, 3).InlineKeyboard[0]
	rq.Len(first, 2)
	rq.Equal("pending_page:2", first[1].CallbackData)

	middle := paginationKeyboard(2, 3).InlineKeyboard[0]
	rq.Len(middle, 3)
	rq.Equal("pending_page:1", middle[0].CallbackData)
	rq.Equal("2 / 3", middle[1].Text)

	last := paginationKeyboard(3, 3).InlineKeyboard[0]
	rq.Len(last, 2)
	rq.Equal("pending_page:2", last[0].CallbackData)
}

func TestStatsText(t *testing.T) {
	rq := require.New(t)

	deals := pendingDeals(2)
	deals = append(deals, entity.Deal{ID: "p", Status: entity.StatusPublished})

	text := statsText(deals)
	rq.Contains(text, "<b>Deals</b>: 3")
	rq.Contains(text, "Pending: 2")
	rq.Contains(text, "Published: 1")
	rq.Contains(text, "Closed: 0")
}

func TestParsePage(t *testing.T) {
	rq := require.New(t)

	rq.Equal(3, parsePage("pending_page:3"))
	rq.Equal(1, parsePage("pending_page:-1"))
	rq.Equal(1, parsePage("pending_page:x"))
	rq.Equal(1, parsePage("noop"))
}
