package database

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

const migrationsTable = "schema_migrations"

var ErrNothingToRollback = errors.New("no applied migration to roll back")

type Migration struct {
	// ID sorts lexically in apply order, e.g. "20260101_create_users_table".
	ID   string
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

var registry = struct {
	sync.Mutex
	byID map[string]Migration
}{byID: make(map[string]Migration)}

// RegisterMigration is called from init functions in the migrations package.
func RegisterMigration(m Migration) {
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.byID[m.ID]; dup {
		panic(fmt.Sprintf("migration %s registered twice", m.ID))
	}
	registry.byID[m.ID] = m
}

// RegisteredMigrations returns the registered migration ids in apply order.
func RegisteredMigrations() []string {
	registry.Lock()
	defer registry.Unlock()
	ids := make([]string, 0, len(registry.byID))
	for id := range registry.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func lookupMigration(id string) (Migration, bool) {
	registry.Lock()
	defer registry.Unlock()
	m, ok := registry.byID[id]
	return m, ok
}

type appliedMigration struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	AppliedAt time.Time
}

func (appliedMigration) TableName() string { return migrationsTable }

type MigrationsManager struct {
	db *gorm.DB
}

func NewMigrationsManager(db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{db: db}
}

func (m *MigrationsManager) applied() (map[string]struct{}, error) {
	if err := m.db.AutoMigrate(&appliedMigration{}); err != nil {
		return nil, fmt.Errorf("failed to prepare %s: %w", migrationsTable, err)
	}
	var rows []appliedMigration
	if err := m.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", migrationsTable, err)
	}
	done := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		done[r.ID] = struct{}{}
	}
	return done, nil
}

// ApplyPending runs every registered migration not yet recorded, each in its
// own transaction, and returns how many ran.
func (m *MigrationsManager) ApplyPending() (int, error) {
	done, err := m.applied()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range RegisteredMigrations() {
		if _, ok := done[id]; ok {
			continue
		}
		mig, _ := lookupMigration(id)
		if mig.Up == nil {
			return count, fmt.Errorf("migration %s has no Up step", id)
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&appliedMigration{ID: mig.ID, Name: mig.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration %s failed: %w", id, err)
		}
		count++
	}
	return count, nil
}

// RollbackLast reverts the most recently applied migration.
func (m *MigrationsManager) RollbackLast() (string, error) {
	var last appliedMigration
	err := m.db.Order("id DESC").Limit(1).Find(&last).Error
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", migrationsTable, err)
	}
	if last.ID == "" {
		return "", ErrNothingToRollback
	}
	mig, ok := lookupMigration(last.ID)
	if !ok || mig.Down == nil {
		return "", fmt.Errorf("migration %s cannot be rolled back", last.ID)
	}
	err = m.db.Transaction(func(tx *gorm.DB) error {
		if err := mig.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&appliedMigration{}, "id = ?", last.ID).Error
	})
	if err != nil {
		return "", fmt.Errorf("rollback of %s failed: %w", last.ID, err)
	}
	return last.ID, nil
}
