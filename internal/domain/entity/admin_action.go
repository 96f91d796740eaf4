package entity

import "time"

// AdminAction is one row of the append-only audit trail: who did what to
// whom. Rows are only ever inserted.
type AdminAction struct {
	ID           string
	AdminID      string
	TargetUserID string
	Action       string // uppercased verb: APPROVE, REJECT, BLOCK, ENABLE
	Details      string
	CreatedAt    time.Time
}
