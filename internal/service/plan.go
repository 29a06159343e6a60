package service

import (
	"sort"

	"github.com/lunchdesk/api/internal/upstream"
)

// Plan is the outcome of reconciling desired quantities against the
// current orders of one kitchen and day.
type Plan struct {
	ToCancel []upstream.DetailedOrder
	ToCreate []ProductQuantity
	Kept     []upstream.DetailedOrder
	Fixed    []upstream.DetailedOrder
	Warnings []Warning
}

// Reconcile computes which current orders to keep, which to cancel, and
// what single new order (if any) covers the remainder. Pure computation,
// no upstream calls.
//
// Orders are treated as atomic units: an order is kept only if every one
// of its lines is still needed. A single oversupplied line rejects the
// whole order even when its other lines would have been useful. This
// greedy pass prefers orders with fewer lines, so single-product orders
// survive first and fewer orders cover the desired quantities. It is an
// approximation, not an optimal packing.
func Reconcile(desired []ProductQuantity, current []upstream.DetailedOrder) Plan {
	plan := Plan{}

	// Partition: an order with any non-cancelable delivery is immovable.
	var cancelable []upstream.DetailedOrder
	for _, o := range current {
		if fullyCancelable(o) {
			cancelable = append(cancelable, o)
		} else {
			plan.Fixed = append(plan.Fixed, o)
		}
	}

	// Quantities guaranteed by fixed orders act as a floor.
	fixedQty := map[int64]int{}
	for _, o := range plan.Fixed {
		for _, d := range o.Deliveries {
			for _, l := range d.OrderLines {
				fixedQty[l.ProductID] += l.Quantity
			}
		}
	}

	needed := map[int64]int{}
	for _, pq := range desired {
		needed[pq.ProductID] = pq.Quantity
	}
	for pid, want := range needed {
		fixed, ok := fixedQty[pid]
		if !ok {
			continue
		}
		if fixed > want {
			plan.Warnings = append(plan.Warnings, Warning{ProductID: pid, Desired: want, Fixed: fixed})
		}
		rest := want - fixed
		if rest < 0 {
			rest = 0
		}
		needed[pid] = rest
	}

	// Fewer lines first; ties keep input order.
	sort.SliceStable(cancelable, func(i, j int) bool {
		return totalLineCount(cancelable[i]) < totalLineCount(cancelable[j])
	})

	for _, o := range cancelable {
		canKeep := true
		for _, d := range o.Deliveries {
			for _, l := range d.OrderLines {
				if needed[l.ProductID] <= 0 {
					canKeep = false
				}
			}
		}
		if !canKeep {
			plan.ToCancel = append(plan.ToCancel, o)
			continue
		}
		for _, d := range o.Deliveries {
			for _, l := range d.OrderLines {
				rest := needed[l.ProductID] - l.Quantity
				if rest < 0 {
					rest = 0
				}
				needed[l.ProductID] = rest
			}
		}
		plan.Kept = append(plan.Kept, o)
	}

	for pid, rest := range needed {
		if rest > 0 {
			plan.ToCreate = append(plan.ToCreate, ProductQuantity{ProductID: pid, Quantity: rest})
		}
	}
	// Map iteration order is random; keep the plan deterministic.
	sort.Slice(plan.ToCreate, func(i, j int) bool {
		return plan.ToCreate[i].ProductID < plan.ToCreate[j].ProductID
	})
	sort.Slice(plan.Warnings, func(i, j int) bool {
		return plan.Warnings[i].ProductID < plan.Warnings[j].ProductID
	})

	return plan
}

// fullyCancelable reports whether every delivery of the order may still be
// cancelled.
func fullyCancelable(o upstream.DetailedOrder) bool {
	for _, d := range o.Deliveries {
		if !d.CancelEnable {
			return false
		}
	}
	return true
}

func totalLineCount(o upstream.DetailedOrder) int {
	n := 0
	for _, d := range o.Deliveries {
		n += len(d.OrderLines)
	}
	return n
}
