package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zeronetech/boq-procure/internal/ledger"
	"github.com/zeronetech/boq-procure/internal/model"
)

type LineItemRepository struct {
	db *gorm.DB
}

func NewLineItemRepository(db *gorm.DB) *LineItemRepository {
	return &LineItemRepository{db: db}
}

type lineItemRow struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	BOQRef         string `gorm:"column:boq_ref"`
	Description    string
	Make           string
	Model          string
	Unit           string
	BOQQty         decimal.Decimal `gorm:"column:boq_qty"`
	Rate           decimal.Decimal
	Amount         decimal.Decimal
	DeliveredQty1  decimal.Decimal `gorm:"column:delivered_qty_1"`
	DeliveredQty2  decimal.Decimal `gorm:"column:delivered_qty_2"`
	DeliveredQty3  decimal.Decimal `gorm:"column:delivered_qty_3"`
	DeliveredQty4  decimal.Decimal `gorm:"column:delivered_qty_4"`
	DeliveredQty5  decimal.Decimal `gorm:"column:delivered_qty_5"`
	DeliveredQty6  decimal.Decimal `gorm:"column:delivered_qty_6"`
	DeliveredQty7  decimal.Decimal `gorm:"column:delivered_qty_7"`
	DeliveredQty8  decimal.Decimal `gorm:"column:delivered_qty_8"`
	DeliveredQty9  decimal.Decimal `gorm:"column:delivered_qty_9"`
	DeliveredQty10 decimal.Decimal `gorm:"column:delivered_qty_10"`
	TotalDeliveryQty decimal.Decimal `gorm:"column:total_delivery_qty"`
	BalanceToDeliver decimal.Decimal `gorm:"column:balance_to_deliver"`
	CreatedAt        time.Time
}

const lineItemColumns = `
	id, project_id, boq_ref, description, make, model, unit,
	boq_qty, rate, amount,
	delivered_qty_1, delivered_qty_2, delivered_qty_3, delivered_qty_4, delivered_qty_5,
	delivered_qty_6, delivered_qty_7, delivered_qty_8, delivered_qty_9, delivered_qty_10,
	total_delivery_qty, balance_to_deliver, created_at
`

func (row *lineItemRow) toModel() model.LineItem {
	return model.LineItem{
		ID:          row.ID,
		ProjectID:   row.ProjectID,
		BOQRef:      row.BOQRef,
		Description: row.Description,
		Make:        row.Make,
		Model:       row.Model,
		Unit:        row.Unit,
		BOQQty:      row.BOQQty,
		Rate:        row.Rate,
		Amount:      row.Amount,
		Delivered: [model.DeliverySlots]decimal.Decimal{
			row.DeliveredQty1, row.DeliveredQty2, row.DeliveredQty3, row.DeliveredQty4, row.DeliveredQty5,
			row.DeliveredQty6, row.DeliveredQty7, row.DeliveredQty8, row.DeliveredQty9, row.DeliveredQty10,
		},
		TotalDelivered: row.TotalDeliveryQty,
		Balance:        row.BalanceToDeliver,
		CreatedAt:      row.CreatedAt,
	}
}

func (r *LineItemRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.LineItem, error) {
	var row lineItemRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+lineItemColumns+`
		FROM boq_items
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, ledger.ErrItemNotFound
	}
	item := row.toModel()
	return &item, nil
}

func (r *LineItemRepository) ListItems(ctx context.Context, projectID uuid.UUID) ([]model.LineItem, error) {
	var rows []lineItemRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+lineItemColumns+`
		FROM boq_items
		WHERE project_id = ?
		ORDER BY boq_ref ASC
	`, projectID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]model.LineItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toModel())
	}
	return items, nil
}

// ApplyDeliveries writes a batch of slot updates in one transaction. Every
// update is guarded on the total_delivery_qty the writer read; a guard miss
// rolls the whole batch back with ledger.ErrStaleItem.
func (r *LineItemRepository) ApplyDeliveries(ctx context.Context, updates []ledger.DeliveryUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			result := tx.Exec(`
				UPDATE boq_items SET
					delivered_qty_1 = ?, delivered_qty_2 = ?, delivered_qty_3 = ?,
					delivered_qty_4 = ?, delivered_qty_5 = ?, delivered_qty_6 = ?,
					delivered_qty_7 = ?, delivered_qty_8 = ?, delivered_qty_9 = ?,
					delivered_qty_10 = ?, total_delivery_qty = ?, balance_to_deliver = ?
				WHERE id = ? AND total_delivery_qty = ?
			`,
				update.Delivered[0], update.Delivered[1], update.Delivered[2],
				update.Delivered[3], update.Delivered[4], update.Delivered[5],
				update.Delivered[6], update.Delivered[7], update.Delivered[8],
				update.Delivered[9], update.TotalDelivered, update.Balance,
				update.ItemID, update.GuardTotal,
			)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ledger.ErrStaleItem
			}
		}
		return nil
	})
}

func (r *LineItemRepository) InsertItem(ctx context.Context, item *model.LineItem) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO boq_items (
			project_id, boq_ref, description, make, model, unit,
			boq_qty, rate, amount,
			delivered_qty_1, delivered_qty_2, delivered_qty_3, delivered_qty_4, delivered_qty_5,
			delivered_qty_6, delivered_qty_7, delivered_qty_8, delivered_qty_9, delivered_qty_10,
			total_delivery_qty, balance_to_deliver
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		item.ProjectID, item.BOQRef, item.Description, item.Make, item.Model, item.Unit,
		item.BOQQty, item.Rate, item.Amount,
		item.Delivered[0], item.Delivered[1], item.Delivered[2], item.Delivered[3], item.Delivered[4],
		item.Delivered[5], item.Delivered[6], item.Delivered[7], item.Delivered[8], item.Delivered[9],
		item.TotalDelivered, item.Balance,
	).Error
}
