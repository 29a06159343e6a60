package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lunchdesk/api/internal/enum"
	"github.com/lunchdesk/api/internal/upstream"
)

// FetchValidOrderDetails resolves full details for each summary and drops
// refunded or invalid orders. Failure handling follows the service's
// configured strictness.
func (s *OrderService) FetchValidOrderDetails(ctx context.Context, summaries []upstream.OrderSummary) ([]upstream.DetailedOrder, error) {
	return s.fetchOrderDetails(ctx, summaries, s.strict)
}

// fetchOrderDetails fans out one detail fetch per summary under the
// configured concurrency limit. In strict mode any failed fetch aborts the
// whole operation; acting on an incomplete snapshot could cancel orders
// that should have been kept. In lenient mode failed entries are omitted.
func (s *OrderService) fetchOrderDetails(ctx context.Context, summaries []upstream.OrderSummary, strict bool) ([]upstream.DetailedOrder, error) {
	results := make([]*upstream.DetailedOrder, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, sum := range summaries {
		g.Go(func() error {
			d, err := s.client.GetOrderDetails(gctx, sum.ID)
			if err != nil {
				if strict {
					return fmt.Errorf("order %d details: %w", sum.ID, err)
				}
				return nil
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var valid []upstream.DetailedOrder
	for _, d := range results {
		if d == nil {
			continue
		}
		if d.OrderType == enum.OrderTypeRefund {
			continue
		}
		// A credit-note linkage marks the holding order itself as refunded.
		if len(d.CreditNoteOrderIDs) > 0 {
			continue
		}
		valid = append(valid, *d)
	}
	return valid, nil
}
