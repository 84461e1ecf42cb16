// Package sequence issues human-readable claim numbers from a counter
// table. The generator runs in its own transaction, decoupled from the
// claim store's writes; the unique index on claim_number is the final
// guarantee against reuse.
package sequence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter named monotonic counter row
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null;default:0"`
}

func (Counter) TableName() string {
	return "warranty_sequences"
}

// Generator claim number generator
type Generator struct {
	db     *gorm.DB
	prefix string
}

// NewGenerator creates a generator producing numbers like RK-2026-00042
func NewGenerator(db *gorm.DB, prefix string) *Generator {
	return &Generator{db: db, prefix: prefix}
}

// Next reserves and returns the next claim number. Numbers are issued per
// calendar year; the atomic increment makes concurrent callers receive
// distinct values.
func (g *Generator) Next(ctx context.Context) (string, error) {
	year := time.Now().Year()
	name := fmt.Sprintf("claim_%d", year)

	var value int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ensure the counter row exists; lost insert races are harmless
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Counter{Name: name, Value: 0}).Error; err != nil {
			return err
		}
		if err := tx.Model(&Counter{}).
			Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + 1")).Error; err != nil {
			return err
		}
		var counter Counter
		if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
			return err
		}
		value = counter.Value
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("next claim number: %w", err)
	}

	return fmt.Sprintf("%s-%d-%05d", g.prefix, year, value), nil
}
