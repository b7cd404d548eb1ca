package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"demandcast/models"
)

// UpstreamDataError wraps a failure of the sales/stock store. It always
// surfaces to the caller: without data there is no forecast to degrade to.
type UpstreamDataError struct {
	Op  string
	Err error
}

func (e *UpstreamDataError) Error() string {
	return fmt.Sprintf("upstream data error during %s: %v", e.Op, e.Err)
}

func (e *UpstreamDataError) Unwrap() error {
	return e.Err
}

// SalesStore reads sales history and stock levels from the retail database.
// It is the only I/O boundary of the forecasting engine.
type SalesStore struct {
	db *pgxpool.Pool
}

func NewSalesStore(db *pgxpool.Pool) *SalesStore {
	return &SalesStore{db: db}
}

// SalesHistory returns the completed sale lines for an item within the
// window. Rows with a broken timestamp are skipped, not fatal.
func (s *SalesStore) SalesHistory(ctx context.Context, itemID string, start, end time.Time) ([]models.SalesRecord, error) {
	query := `
		SELECT si.inventory_item_id, si.quantity_sold, si.selling_price_at_sale, s.sale_date, s.payment_status
		FROM sales s
		JOIN sale_items si ON s.id = si.sale_id
		WHERE si.inventory_item_id = $1
		  AND s.payment_status = 'completed'
		  AND s.sale_date >= $2 AND s.sale_date < $3
		ORDER BY s.sale_date
	`
	rows, err := s.db.Query(ctx, query, itemID, start, end)
	if err != nil {
		return nil, &UpstreamDataError{Op: "sales history fetch", Err: err}
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var rec models.SalesRecord
		if err := rows.Scan(&rec.ProductID, &rec.Quantity, &rec.UnitPrice, &rec.CreatedAt, &rec.Status); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &UpstreamDataError{Op: "sales history scan", Err: err}
	}

	return records, nil
}

// CurrentStock returns the total on-hand quantity for an item across shops.
func (s *SalesStore) CurrentStock(ctx context.Context, itemID string) (float64, error) {
	var stock float64
	query := "SELECT COALESCE(SUM(quantity), 0) FROM shop_stock WHERE inventory_item_id = $1"
	if err := s.db.QueryRow(ctx, query, itemID).Scan(&stock); err != nil {
		return 0, &UpstreamDataError{Op: "stock fetch", Err: err}
	}
	return stock, nil
}

// ActiveItems lists the ids of all non-archived inventory items.
func (s *SalesStore) ActiveItems(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT id FROM inventory_items WHERE is_archived = false")
	if err != nil {
		return nil, &UpstreamDataError{Op: "active items fetch", Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &UpstreamDataError{Op: "active items scan", Err: err}
	}

	return ids, nil
}

// LeadTimeStats returns the replenishment lead time and unit cost for an
// item. Items without supplier data fall back to the given default.
func (s *SalesStore) LeadTimeStats(ctx context.Context, itemID string, defaultLeadDays float64) (models.LeadTimeStats, error) {
	stats := models.LeadTimeStats{LeadTimeDays: defaultLeadDays}
	query := `
		SELECT COALESCE(sp.lead_time_days, $2), COALESCE(i.original_price, i.selling_price, 0)
		FROM inventory_items i
		LEFT JOIN suppliers sp ON i.supplier_id = sp.id
		WHERE i.id = $1
	`
	if err := s.db.QueryRow(ctx, query, itemID, defaultLeadDays).Scan(&stats.LeadTimeDays, &stats.UnitCost); err != nil {
		return stats, &UpstreamDataError{Op: "lead time fetch", Err: err}
	}
	return stats, nil
}
