package orders

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStatus  = errors.New("status tidak dikenal")
	ErrUnknownPayment = errors.New("metode pembayaran tidak dikenal")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Tidak ada tabel transisi: admin boleh memindahkan status ke nilai apa pun,
// termasuk mundur (delivered -> pending) atau mengedit pesanan yang sudah
// cancelled. Penyederhanaan ini disengaja; hanya keanggotaan himpunan yang
// divalidasi.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentQRIS PaymentMethod = "qris_transfer"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCOD, PaymentQRIS:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPayment, s)
}
