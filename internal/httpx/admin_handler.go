package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/cahaya-atk/storefront/internal/kafka"
	"github.com/cahaya-atk/storefront/internal/orders"
	"github.com/cahaya-atk/storefront/internal/redisx"
)

func (a *API) adminOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.Orders.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (a *API) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ok := false
	defer func() { RecordOrderOperation("update_status", ok) }()

	orderID := chi.URLParam(r, "id")
	var req updateStatusReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	st, err := orders.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := a.Orders.UpdateStatus(r.Context(), orderID, st); err != nil {
		writeError(w, err)
		return
	}

	if a.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		_ = a.Redis.Set(r.Context(), key,
			fmt.Sprintf(`{"status":%q}`, st), redisx.TTLStatusCache).Err()
	}
	a.publishOrderEvent(a.ProducerStatus, orders.EventOrderStatusChanged, orderID,
		orders.OrderStatusChangedPayload{OrderID: orderID, Status: string(st)},
		r.Header.Get("X-Request-Id"))

	ok = true
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "status pesanan diperbarui ke " + string(st),
		"order_id": orderID,
	})
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ok := false
	defer func() { RecordOrderOperation("delete", ok) }()

	orderID := chi.URLParam(r, "id")
	if err := a.Orders.Delete(r.Context(), orderID); err != nil {
		writeError(w, err)
		return
	}

	if a.Redis != nil {
		_ = a.Redis.Del(r.Context(), fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Err()
	}
	a.publishOrderEvent(a.ProducerDelete, orders.EventOrderDeleted, orderID,
		orders.OrderDeletedPayload{OrderID: orderID},
		r.Header.Get("X-Request-Id"))

	ok = true
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "pesanan dihapus",
		"order_id": orderID,
	})
}

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Coba cache dulu; hasil query stats disimpan 5 menit.
	if a.Redis != nil {
		if s, err := a.Redis.Get(ctx, redisx.KeyDashboard).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	stats, err := a.Orders.Stats(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := json.Marshal(stats)
	if err != nil {
		writeError(w, err)
		return
	}
	if a.Redis != nil {
		_ = a.Redis.Set(ctx, redisx.KeyDashboard, b, redisx.TTLDashboard).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (a *API) publishOrderEvent(p *kafkax.Producer, eventType, orderID string, payload any, traceID string) {
	if p == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      a.ServiceName,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
