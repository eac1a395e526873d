package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"automed-dashboard/internal/adapters/storage/tree"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Document es la fila de un nodo de primer nivel del árbol.
type Document struct {
	Root      string    `gorm:"primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Open abre (o crea) la base sqlite y migra la tabla de documentos.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(gormsqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, err
	}

	return db, nil
}

type backend struct {
	db *gorm.DB
}

// NewStore arma el árbol de documentos persistido en sqlite.
func NewStore(db *gorm.DB) *tree.Store {
	return tree.NewStore(&backend{db: db})
}

func (b *backend) Load(ctx context.Context, root string) (any, bool, error) {
	var d Document
	err := b.db.WithContext(ctx).Where("root = ?", root).Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	v, err := decode(d.Value)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (b *backend) Mutate(ctx context.Context, root string, fn func(cur any, ok bool) (any, bool, error)) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			d   Document
			cur any
			ok  bool
		)

		err := tx.Where("root = ?", root).Take(&d).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			cur, err = decode(d.Value)
			if err != nil {
				return err
			}
			ok = true
		}

		next, keep, err := fn(cur, ok)
		if err != nil {
			return err
		}

		if !keep {
			return tx.Where("root = ?", root).Delete(&Document{}).Error
		}

		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("sqlite: marshal document %s: %w", root, err)
		}

		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&Document{
			Root:  root,
			Value: string(raw),
		}).Error
	})
}

// Close cierra la conexión subyacente.
func (b *backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func decode(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("sqlite: invalid document json: %w", err)
	}
	return v, nil
}
