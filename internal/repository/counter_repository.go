package repository

import (
	"context"

	"gorm.io/gorm"
)

// CounterRepository backs the PO sequence allocator with the po_counters table.
type CounterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

func (r *CounterRepository) GetSerial(ctx context.Context, locationCode string) (int64, bool, error) {
	var rows []int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT last_serial FROM po_counters WHERE location_code = ? LIMIT 1
	`, locationCode).Scan(&rows).Error
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0], true, nil
}

// CompareAndSwapSerial advances the counter only if it still holds old. The
// rows-affected count tells the allocator whether it won the race.
func (r *CounterRepository) CompareAndSwapSerial(ctx context.Context, locationCode string, old, new int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE po_counters
		SET last_serial = ?, updated_at = NOW()
		WHERE location_code = ? AND last_serial = ?
	`, new, locationCode, old)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CounterRepository) InitSerial(ctx context.Context, locationCode string, serial int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO po_counters (location_code, last_serial)
		VALUES (?, ?)
		ON CONFLICT (location_code) DO NOTHING
	`, locationCode, serial)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
