package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer membufferkan pesan lewat channel; urutan publish per key dijaga
// oleh balancer hash di writer. Siklus hidupnya murni Start -> Close ->
// WaitClosed, tanpa context: shutdown selalu lewat Close supaya antrean
// sempat dikuras.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start() {
	go func() {
		// Flush pakai Background supaya pesan yang sudah antre tetap terkirim
		// walau ctx utama sudah dibatalkan saat shutdown.
		for m := range p.inbox {
			_ = p.w.WriteMessages(context.Background(), m)
		}
		_ = p.w.Close()
		close(p.closeCh)
	}()
}

func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	p.inbox <- kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Close menutup inbox supaya goroutine flush sisa pesan lalu exit rapi.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed menunggu sampai goroutine producer selesai.
func (p *Producer) WaitClosed() { <-p.closeCh }
