package service

import (
	"sort"

	"github.com/lunchdesk/api/internal/pricing"
	"github.com/lunchdesk/api/internal/upstream"
)

// buildSimplifiedOrder merges an order's lines across all its deliveries by
// productId. Quantities are summed; the first-seen price for a product wins
// and is not recomputed.
func buildSimplifiedOrder(date string, kitchenID int64, o upstream.DetailedOrder, cancelEnabled bool) SimplifiedOrder {
	qty := map[int64]int{}
	price := map[int64]string{}
	for _, d := range o.Deliveries {
		for _, l := range d.OrderLines {
			if _, seen := qty[l.ProductID]; !seen {
				price[l.ProductID] = pricing.Format(l.UnitPrice)
			}
			qty[l.ProductID] += l.Quantity
		}
	}
	return SimplifiedOrder{
		Date:          date,
		KitchenID:     kitchenID,
		Orderlines:    sortedLines(qty, price),
		CancelEnabled: cancelEnabled,
	}
}

// simplifiedFromCreated builds the projection of the freshly created order.
// Prices come from the kitchen's current catalog; a product missing from
// the catalog defaults to zero.
func simplifiedFromCreated(date string, kitchenID int64, created []ProductQuantity, catalog map[int64]upstream.Money) SimplifiedOrder {
	qty := map[int64]int{}
	price := map[int64]string{}
	for _, pq := range created {
		qty[pq.ProductID] += pq.Quantity
		price[pq.ProductID] = pricing.Format(catalog[pq.ProductID])
	}
	return SimplifiedOrder{
		Date:          date,
		KitchenID:     kitchenID,
		Orderlines:    sortedLines(qty, price),
		CancelEnabled: true,
	}
}

func sortedLines(qty map[int64]int, price map[int64]string) []SimplifiedOrderLine {
	lines := make([]SimplifiedOrderLine, 0, len(qty))
	for pid, q := range qty {
		lines = append(lines, SimplifiedOrderLine{ProductID: pid, Quantity: q, Price: price[pid]})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}
