package redisx

import "time"

const (
	// Cache status pesanan: order_status:{order_id} -> {"status":"..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Cache ringkasan dashboard admin (JSON hasil query stats).
	KeyDashboard = "dashboard:stats"

	// Counter berjalan yang dirawat worker dari event order.
	KeyStatsOrders  = "stats:orders_total"
	KeyStatsRevenue = "stats:revenue_total"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLDashboard   = 5 * time.Minute
)
