package migrations

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Migration is one applied row in the schema_migrations table
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"unique;not null"`
	Batch     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Migration) TableName() string {
	return "schema_migrations"
}

// Step is one named migration with its up and down SQL
type Step struct {
	Name string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// Runner applies registered steps in order, grouping each Apply call into a
// batch so Rollback can undo whole deployments at a time
type Runner struct {
	db    *gorm.DB
	steps []Step
}

func NewRunner(db *gorm.DB) (*Runner, error) {
	if err := db.AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("failed to prepare migrations table: %w", err)
	}
	return &Runner{db: db}, nil
}

func (r *Runner) Register(steps []Step) {
	r.steps = append(r.steps, steps...)
}

// Apply runs every step that has not been applied yet, each in its own
// transaction
func (r *Runner) Apply() error {
	applied, err := r.appliedNames()
	if err != nil {
		return err
	}

	batch, err := r.latestBatch()
	if err != nil {
		return err
	}
	batch++

	ran := 0
	for _, step := range r.steps {
		if applied[step.Name] {
			continue
		}

		fmt.Printf("Migrating: %s\n", step.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := step.Up(tx); err != nil {
				return err
			}
			return tx.Create(&Migration{Name: step.Name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", step.Name, err)
		}
		ran++
	}

	if ran == 0 {
		fmt.Println("Nothing to migrate")
	} else {
		fmt.Printf("Applied %d migration(s)\n", ran)
	}
	return nil
}

// Rollback undoes the given number of batches, newest first
func (r *Runner) Rollback(batches int) error {
	if batches <= 0 {
		batches = 1
	}

	for ; batches > 0; batches-- {
		batch, err := r.latestBatch()
		if err != nil {
			return err
		}
		if batch == 0 {
			fmt.Println("Nothing to roll back")
			return nil
		}

		var rows []Migration
		if err := r.db.Where("batch = ?", batch).Order("id DESC").Find(&rows).Error; err != nil {
			return err
		}

		for _, row := range rows {
			step, ok := r.findStep(row.Name)
			if !ok {
				return fmt.Errorf("no definition registered for applied migration %s", row.Name)
			}
			if step.Down == nil {
				return fmt.Errorf("migration %s has no down step", row.Name)
			}

			fmt.Printf("Rolling back: %s\n", row.Name)
			err := r.db.Transaction(func(tx *gorm.DB) error {
				if err := step.Down(tx); err != nil {
					return err
				}
				return tx.Delete(&row).Error
			})
			if err != nil {
				return fmt.Errorf("rollback of %s failed: %w", row.Name, err)
			}
		}
	}
	return nil
}

// Status returns the applied migrations in application order
func (r *Runner) Status() ([]Migration, error) {
	var rows []Migration
	if err := r.db.Order("batch ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Runner) appliedNames() (map[string]bool, error) {
	var names []string
	if err := r.db.Model(&Migration{}).Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(names))
	for _, name := range names {
		applied[name] = true
	}
	return applied, nil
}

func (r *Runner) latestBatch() (int, error) {
	var batch int
	err := r.db.Model(&Migration{}).Select("COALESCE(MAX(batch), 0)").Scan(&batch).Error
	return batch, err
}

func (r *Runner) findStep(name string) (Step, bool) {
	for _, step := range r.steps {
		if step.Name == name {
			return step, true
		}
	}
	return Step{}, false
}
