package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lunchdesk/api/internal/enum"
	"github.com/lunchdesk/api/internal/upstream"
)

func line(productID int64, qty int) upstream.OrderLine {
	return upstream.OrderLine{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: upstream.Money{Amount: 2500, Scale: 2},
	}
}

func testOrder(id int64, cancelable bool, lines ...upstream.OrderLine) upstream.DetailedOrder {
	return upstream.DetailedOrder{
		ID:        id,
		OrderType: enum.OrderTypeLunch,
		KitchenID: 7,
		Deliveries: []upstream.Delivery{{
			DeliveryTime: time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
			OrderLines:   lines,
			CancelEnable: cancelable,
		}},
	}
}

func orderIDs(orders []upstream.DetailedOrder) []int64 {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestReconcile_NothingExistsCreatesEverything(t *testing.T) {
	plan := Reconcile([]ProductQuantity{{ProductID: 1, Quantity: 2}}, nil)

	require.Equal(t, []ProductQuantity{{ProductID: 1, Quantity: 2}}, plan.ToCreate)
	require.Empty(t, plan.ToCancel)
	require.Empty(t, plan.Kept)
	require.Empty(t, plan.Fixed)
	require.Empty(t, plan.Warnings)
}

func TestReconcile_ExactMatchIsKept(t *testing.T) {
	existing := testOrder(10, true, line(1, 2))
	plan := Reconcile([]ProductQuantity{{ProductID: 1, Quantity: 2}}, []upstream.DetailedOrder{existing})

	require.Equal(t, []int64{10}, orderIDs(plan.Kept))
	require.Empty(t, plan.ToCancel)
	require.Empty(t, plan.ToCreate)
}

func TestReconcile_FixedQuantityActsAsFloor(t *testing.T) {
	fixed := testOrder(10, false, line(1, 3))
	plan := Reconcile([]ProductQuantity{{ProductID: 1, Quantity: 2}}, []upstream.DetailedOrder{fixed})

	require.Equal(t, []int64{10}, orderIDs(plan.Fixed))
	require.Empty(t, plan.ToCancel, "fixed orders must never be cancelled")
	require.Empty(t, plan.ToCreate, "floor subtraction should clamp desired to zero")
	// 3 fixed vs 2 desired is an over-order the caller must hear about.
	require.Equal(t, []Warning{{ProductID: 1, Desired: 2, Fixed: 3}}, plan.Warnings)
}

func TestReconcile_OneOversuppliedLineRejectsWholeOrder(t *testing.T) {
	a := testOrder(1, true, line(1, 1))
	b := testOrder(2, true, line(1, 1), line(2, 1))
	desired := []ProductQuantity{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 0}}

	plan := Reconcile(desired, []upstream.DetailedOrder{b, a})

	// A sorts first (fewer lines) and covers product 1. B's product-2 line
	// is unneeded, which rejects B entirely despite its product-1 line.
	require.Equal(t, []int64{1}, orderIDs(plan.Kept))
	require.Equal(t, []int64{2}, orderIDs(plan.ToCancel))
	require.Empty(t, plan.ToCreate)
}

func TestReconcile_ZeroQuantityCancelsOrder(t *testing.T) {
	existing := testOrder(4, true, line(1, 2))
	plan := Reconcile([]ProductQuantity{{ProductID: 1, Quantity: 0}}, []upstream.DetailedOrder{existing})

	require.Equal(t, []int64{4}, orderIDs(plan.ToCancel))
	require.Empty(t, plan.Kept)
	require.Empty(t, plan.ToCreate)
}

func TestReconcile_PartialCoverCreatesRemainder(t *testing.T) {
	existing := testOrder(3, true, line(1, 2))
	plan := Reconcile([]ProductQuantity{{ProductID: 1, Quantity: 5}}, []upstream.DetailedOrder{existing})

	require.Equal(t, []int64{3}, orderIDs(plan.Kept))
	require.Equal(t, []ProductQuantity{{ProductID: 1, Quantity: 3}}, plan.ToCreate)
}

func TestReconcile_Idempotent(t *testing.T) {
	desired := []ProductQuantity{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 1},
	}
	current := []upstream.DetailedOrder{
		testOrder(1, true, line(1, 1), line(2, 1)),
		testOrder(2, true, line(1, 2)),
		testOrder(3, false, line(2, 1)),
	}

	first := Reconcile(desired, current)
	second := Reconcile(desired, current)
	require.Equal(t, first, second)
}

func TestReconcile_StableSortPreservesInputOrder(t *testing.T) {
	// Equal line counts: relative input order must survive on both sides
	// of the keep/cancel split.
	a := testOrder(1, true, line(1, 1))
	b := testOrder(2, true, line(1, 1))
	c := testOrder(3, true, line(1, 1))

	plan := Reconcile([]ProductQuantity{{ProductID: 1, Quantity: 1}}, []upstream.DetailedOrder{a, b, c})

	require.Equal(t, []int64{1}, orderIDs(plan.Kept))
	require.Equal(t, []int64{2, 3}, orderIDs(plan.ToCancel))
}

func TestReconcile_MonotonicFloor(t *testing.T) {
	desired := []ProductQuantity{{ProductID: 1, Quantity: 5}}

	small := Reconcile(desired, []upstream.DetailedOrder{testOrder(1, false, line(1, 1))})
	large := Reconcile(desired, []upstream.DetailedOrder{testOrder(1, false, line(1, 3))})

	require.Equal(t, 4, small.ToCreate[0].Quantity)
	require.Equal(t, 2, large.ToCreate[0].Quantity)
}

func TestReconcile_Conservation(t *testing.T) {
	desired := []ProductQuantity{
		{ProductID: 1, Quantity: 4},
		{ProductID: 2, Quantity: 2},
	}
	current := []upstream.DetailedOrder{
		testOrder(1, false, line(1, 1)),
		testOrder(2, true, line(1, 2)),
		testOrder(3, true, line(2, 2)),
	}

	plan := Reconcile(desired, current)

	// For each product: kept + created == max(0, desired - fixed).
	got := map[int64]int{}
	for _, o := range plan.Kept {
		for _, d := range o.Deliveries {
			for _, l := range d.OrderLines {
				got[l.ProductID] += l.Quantity
			}
		}
	}
	for _, pq := range plan.ToCreate {
		got[pq.ProductID] += pq.Quantity
	}
	require.Equal(t, map[int64]int{1: 3, 2: 2}, got)
}

func TestReconcile_ProductOnlyInFixedIsLeftAlone(t *testing.T) {
	fixed := testOrder(9, false, line(5, 2))
	plan := Reconcile([]ProductQuantity{{ProductID: 1, Quantity: 1}}, []upstream.DetailedOrder{fixed})

	require.Empty(t, plan.Warnings, "surplus of an undesired product is not flagged")
	require.Equal(t, []ProductQuantity{{ProductID: 1, Quantity: 1}}, plan.ToCreate)
}

func TestReconcile_MultiDeliveryOrderIsOneUnit(t *testing.T) {
	multi := upstream.DetailedOrder{
		ID:        20,
		OrderType: enum.OrderTypeLunch,
		KitchenID: 7,
		Deliveries: []upstream.Delivery{
			{OrderLines: []upstream.OrderLine{line(1, 1)}, CancelEnable: true},
			{OrderLines: []upstream.OrderLine{line(2, 1)}, CancelEnable: false},
		},
	}
	plan := Reconcile([]ProductQuantity{{ProductID: 1, Quantity: 1}}, []upstream.DetailedOrder{multi})

	// One non-cancelable delivery fixes the whole order.
	require.Equal(t, []int64{20}, orderIDs(plan.Fixed))
	require.Empty(t, plan.ToCancel)
}
