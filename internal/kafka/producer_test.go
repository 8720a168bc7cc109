package kafka

import (
	"testing"
	"time"
)

// Siklus hidup producer tidak butuh context: Close menguras inbox lalu
// WaitClosed kembali. Tidak ada broker yang dihubungi selama inbox kosong.
func TestProducerStartCloseWait(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "order.created", 16)
	p.Start()
	p.Close()

	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		// pemanggil kedua juga tidak boleh menggantung
		p.WaitClosed()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer tidak selesai setelah Close")
	}
}
