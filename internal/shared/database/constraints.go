package database

import (
	"fmt"

	"gorm.io/gorm"
)

type checkConstraint struct {
	table string
	name  string
	expr  string
}

// The ledger and money invariants hold in the database as well as in code.
var checkConstraints = []checkConstraint{
	{"events", "chk_events_capacity", "total_tickets >= 0 AND tickets_available BETWEEN 0 AND total_tickets"},
	{"events", "chk_events_price", "ticket_price >= 0"},
	{"tickets", "chk_tickets_split", "commission_amount + provider_amount = price"},
	{"tickets", "chk_tickets_status", "status IN ('unused', 'used', 'cancelled')"},
	{"invitations", "chk_invitations_status", "status IN ('active', 'used')"},
	{"cancellations", "chk_cancellations_amounts", "cancellation_fee >= 0 AND refund_amount >= 0"},
}

// MigrateConstraints adds CHECK constraints that AutoMigrate cannot express.
// Postgres has no ADD CONSTRAINT IF NOT EXISTS, so existing ones are skipped
// via the catalog.
func MigrateConstraints(db *gorm.DB) error {
	for _, c := range checkConstraints {
		var exists bool
		err := db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name).
			Scan(&exists).Error
		if err != nil {
			return fmt.Errorf("lookup constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}

		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", c.table, c.name, c.expr)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", c.name, err)
		}
	}

	// Partial index backing the per-event sold counters
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_event_active
		ON tickets (event_id) WHERE is_active;
	`).Error
	if err != nil {
		return fmt.Errorf("create ticket index: %w", err)
	}
	return nil
}
