package enum

// ── Upstream order types ──

const (
	OrderTypeLunch  = "LUNCH"
	OrderTypeRefund = "REFUND"
)

// ── WebSocket event types ──

const (
	EventOrdersUpdated = "orders.updated"
)

// ── Roles ──

const (
	UserRoleAdmin = "ADMIN"
)
