package server

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/internal/domain/service/review"
	"dealsadmin/pkg/rest"
)

type layoutData struct {
	Title string
	Email string
	Nav   viewKind
}

type loginPage struct {
	layoutData
	FormEmail string
	Error     string
}

type dealsPage struct {
	layoutData
	Heading     string
	Subheading  string
	View        string
	Filter      string
	Query       string
	Total       int
	Visible     int
	Chips       []filterChip
	Rows        []dealRow
	Error       string
	Busy        bool
	Empty       string
	ShowActions bool
	ShowFilters bool

	snapshot review.Snapshot
}

type filterChip struct {
	Label  string
	Count  int
	Href   string
	Active bool
	Class  string
}

type discountView struct {
	Text  string
	Class string
}

type dealRow struct {
	ID          string
	Title       string
	Description string
	Location    string
	Status      string
	StatusClass string
	Currency    string
	OpPrice     string
	AskingPrice string
	Discount    discountView
	Created     string
	Images      int
	Documents   int
	Actioning   bool
}

func newDealRow(d entity.Deal, actioningID entity.DealID) dealRow {
	return dealRow{
		ID:          d.ID.String(),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.LocationText(),
		Status:      d.Status.Label(),
		StatusClass: statusClass(d.Status),
		Currency:    d.Currency,
		OpPrice:     formatPrice(d.OpPrice),
		AskingPrice: formatPrice(d.AskingPrice),
		Discount:    newDiscountView(d),
		Created:     d.CreatedAt.Format("Jan 2, 2006"),
		Images:      len(d.Images),
		Documents:   len(d.Documents),
		Actioning:   actioningID != "" && actioningID == d.ID,
	}
}

func formatPrice(amount decimal.Decimal) string {
	f, _ := amount.Float64()

	return humanize.Commaf(f)
}

func newDiscountView(d entity.Deal) discountView {
	percent, ok := review.DiscountPercent(d)

	switch {
	case !ok:
		return discountView{Text: "n/a", Class: "neutral"}
	case percent > 0:
		return discountView{Text: formatPercent(percent) + "% off", Class: "down"}
	case percent < 0:
		return discountView{Text: formatPercent(-percent) + "% above", Class: "up"}
	default:
		return discountView{Text: "Equal", Class: "equal"}
	}
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

func statusClass(status entity.DealStatus) string {
	switch status {
	case entity.StatusPendingValidation:
		return "status-pending"
	case entity.StatusPublished:
		return "status-published"
	case entity.StatusInDiscussion:
		return "status-discussion"
	default:
		return "status-muted"
	}
}

// newFilterChips lists "all" first, then every status present in the deals.
func newFilterChips(snap review.Snapshot, view string) []filterChip {
	chips := []filterChip{{
		Label:  "Total",
		Count:  snap.Total,
		Href:   allDealsURL(entity.StatusAll, snap.Query, view),
		Active: snap.Filter == entity.StatusAll,
		Class:  "status-all",
	}}

	present := lo.Filter(entity.Statuses, func(s entity.DealStatus, _ int) bool {
		return snap.Counts[s] > 0
	})

	for _, status := range present {
		chips = append(chips, filterChip{
			Label:  status.Label(),
			Count:  snap.Counts[status],
			Href:   allDealsURL(status, snap.Query, view),
			Active: snap.Filter == status,
			Class:  statusClass(status),
		})
	}

	return chips
}

func allDealsURL(status entity.DealStatus, query, view string) string {
	values := url.Values{}

	if status != entity.StatusAll {
		values.Set("status", status.String())
	}

	if query != "" {
		values.Set("q", query)
	}

	if view != "" && view != rendererTable {
		values.Set("view", view)
	}

	if len(values) == 0 {
		return "/deals/all"
	}

	return "/deals/all?" + values.Encode()
}

func emptyMessage(kind viewKind, snap review.Snapshot) string {
	switch {
	case kind == viewPending:
		return "No deals are pending validation at the moment."
	case snap.Query != "":
		return fmt.Sprintf("No deals matching %q", snap.Query)
	case snap.Filter == entity.StatusAll:
		return "There are no deals in the system yet."
	default:
		return fmt.Sprintf("No deals with status %q.", snap.Filter.Label())
	}
}

func newRESTDeal(d entity.Deal) rest.Deal {
	deal := rest.Deal{
		ID:          d.ID.String(),
		Status:      d.Status.String(),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.LocationText(),
		Currency:    d.Currency,
		OpPrice:     d.OpPrice.String(),
		AskingPrice: d.AskingPrice.String(),
		Images:      len(d.Images),
		Documents:   len(d.Documents),
	}

	if percent, ok := d.DiscountPercent(); ok {
		deal.DiscountPercent = &percent
	}

	return deal
}

func newRESTDealsPage(snap review.Snapshot) rest.DealsPage {
	return rest.DealsPage{
		Filter:      snap.Filter.String(),
		Query:       snap.Query,
		Total:       snap.Total,
		Counts:      lo.MapKeys(snap.Counts, func(_ int, s entity.DealStatus) string { return s.String() }),
		ActioningID: snap.ActioningID.String(),
		Error:       snap.Error,
		Deals:       lo.Map(snap.Visible, func(d entity.Deal, _ int) rest.Deal { return newRESTDeal(d) }),
	}
}
