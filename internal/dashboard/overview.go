package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketdesk/internal/enrich"
	"github.com/angelmondragon/marketdesk/internal/records"
	"github.com/angelmondragon/marketdesk/pkg/enums"
)

// Column is one status lane of the order board.
type Column struct {
	Status enums.OrderStatus      `json:"status"`
	Count  int                    `json:"count"`
	Orders []enrich.EnrichedOrder `json:"orders"`
}

// Stats are the headline numbers of the overview.
type Stats struct {
	TotalOrders  int             `json:"total_orders"`
	ActiveOrders int             `json:"active_orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	Products     int             `json:"products"`
	Categories   int             `json:"categories"`
	Sellers      int             `json:"sellers"`
}

// Overview is everything the dashboard page renders.
type Overview struct {
	Stats    Stats                    `json:"stats"`
	Board    []Column                 `json:"board"`
	Products []enrich.EnrichedProduct `json:"products"`
	Orders   []enrich.EnrichedOrder   `json:"orders"`
}

// Build derives the overview from a full snapshot. It performs no I/O.
func Build(snap *records.Snapshot) Overview {
	if snap == nil {
		snap = &records.Snapshot{}
	}
	products := enrich.EnrichProducts(snap.Products, enrich.ProductMaps{
		Categories: records.Index(snap.Categories),
		Sellers:    records.Index(snap.Sellers),
	})
	orders := enrich.EnrichOrders(snap.Orders, enrich.OrderMaps{Products: records.Index(snap.Products)})

	return Overview{
		Stats: Stats{
			TotalOrders:  len(snap.Orders),
			ActiveOrders: activeOrders(snap.Orders),
			Revenue:      Revenue(snap.Orders),
			Products:     len(snap.Products),
			Categories:   len(snap.Categories),
			Sellers:      len(snap.Sellers),
		},
		Board:    StatusBoard(orders),
		Products: products,
		Orders:   orders,
	}
}

// Revenue sums total_amount over all orders; absent amounts count as zero.
func Revenue(orders []records.Record[records.Order]) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Fields.TotalAmount != nil {
			total = total.Add(decimal.NewFromFloat(*o.Fields.TotalAmount))
		}
	}
	return total
}

// activeOrders counts orders that are neither cancelled nor delivered. Absent status counts.
func activeOrders(orders []records.Record[records.Order]) int {
	count := 0
	for _, o := range orders {
		if enums.OrderStatus(deref(o.Fields.Status)).Active() {
			count++
		}
	}
	return count
}

// StatusBoard groups orders into the fixed status columns, newest order date first.
func StatusBoard(orders []enrich.EnrichedOrder) []Column {
	statuses := enums.OrderStatuses()
	index := make(map[enums.OrderStatus]int, len(statuses))
	board := make([]Column, 0, len(statuses))
	for i, status := range statuses {
		index[status] = i
		board = append(board, Column{Status: status, Orders: []enrich.EnrichedOrder{}})
	}

	for _, o := range orders {
		i := index[o.Fields.StatusOrDefault()]
		board[i].Orders = append(board[i].Orders, o)
	}
	for i := range board {
		col := board[i].Orders
		sort.SliceStable(col, func(a, b int) bool {
			return deref(col[a].Fields.OrderDate) > deref(col[b].Fields.OrderDate)
		})
		board[i].Count = len(col)
	}
	return board
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
