package database

import (
	"database/sql"
	"fmt"

	"github.com/wiruacademy/clubsite/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reconcile brings a live schema written by an older deployment up to date
// with the current model declarations: additive column changes, default
// backfills and missing indexes only, nothing destructive. It is idempotent
// and must run once at startup, after AutoMigrate.
//
// Introspection is SQLite-specific, so any other dialect is a silent no-op
// (AutoMigrate already covers create-if-missing there). Failures are logged
// as warnings and never abort startup. Not safe for concurrent multi-process
// startup against the same file.
func Reconcile(db *gorm.DB) {
	if db.Dialector.Name() != "sqlite" {
		return
	}
	if err := reconcileUsers(db); err != nil {
		logger.Log.Warn("users table reconciliation skipped or failed",
			zap.Error(err),
		)
	}
	if err := reconcileSchedule(db); err != nil {
		logger.Log.Warn("schedule table reconciliation skipped or failed",
			zap.Error(err),
		)
	}
}

func reconcileUsers(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cols, err := tableColumns(tx, "users")
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			// Fresh database, AutoMigrate owns table creation.
			return nil
		}

		wanted := []struct {
			name string
			ddl  string
		}{
			{"email", "VARCHAR(255)"},
			{"username", "VARCHAR(80)"},
			{"password_hash", "VARCHAR(255)"},
			{"full_name", "VARCHAR(255)"},
			{"level", "VARCHAR(120)"},
			{"group_name", "VARCHAR(120)"},
			{"role", "VARCHAR(10)"},
			{"is_active", "BOOLEAN"},
			{"created_at", "DATETIME"},
			{"is_admin", "BOOLEAN"},
			{"is_superadmin", "BOOLEAN"},
			{"avatar_path", "VARCHAR(512)"},
		}
		for _, w := range wanted {
			if cols[w.name] {
				continue
			}
			if err := tx.Exec(fmt.Sprintf("ALTER TABLE users ADD COLUMN %s %s", w.name, w.ddl)).Error; err != nil {
				return err
			}
		}

		backfills := []string{
			"UPDATE users SET role = COALESCE(NULLIF(role, ''), 'user')",
			"UPDATE users SET is_active = COALESCE(is_active, 1)",
			"UPDATE users SET created_at = COALESCE(created_at, datetime('now'))",
			"UPDATE users SET is_admin = COALESCE(is_admin, 0)",
			"UPDATE users SET is_superadmin = COALESCE(is_superadmin, 0)",
		}
		for _, stmt := range backfills {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		if err := ensureAdminEmail(tx); err != nil {
			return err
		}

		if err := tx.Exec("CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users(email)").Error; err != nil {
			return err
		}
		return tx.Exec("CREATE INDEX IF NOT EXISTS ix_users_role ON users(role)").Error
	})
}

// ensureAdminEmail synthesizes an email for an administrator row that has
// none, so the unique-email invariant can be enforced retroactively.
// admin@site.local, with the admin's id suffixed on collision.
func ensureAdminEmail(tx *gorm.DB) error {
	var row struct{ ID uint }
	res := tx.Raw(
		"SELECT id FROM users WHERE (COALESCE(is_admin, 0) = 1 OR role IN ('admin', 'superadmin')) " +
			"AND (email IS NULL OR email = '') LIMIT 1",
	).Scan(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	email := "admin@site.local"
	var count int64
	if err := tx.Raw("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		email = fmt.Sprintf("admin+%d@site.local", row.ID)
	}
	return tx.Exec("UPDATE users SET email = ? WHERE id = ?", email, row.ID).Error
}

func reconcileSchedule(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cols, err := tableColumns(tx, "schedules")
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			return nil
		}
		if !cols["discipline"] {
			if err := tx.Exec("ALTER TABLE schedules ADD COLUMN discipline VARCHAR(50)").Error; err != nil {
				return err
			}
		}
		if !cols["age"] {
			if err := tx.Exec("ALTER TABLE schedules ADD COLUMN age VARCHAR(50)").Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// tableColumns returns the column names of a table via PRAGMA table_info.
// An empty map means the table does not exist.
func tableColumns(tx *gorm.DB, table string) (map[string]bool, error) {
	rows, err := tx.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			primary int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &primary); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
