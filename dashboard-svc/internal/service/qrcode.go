package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes a link to the customer rating page of an order.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID int) ([]byte, error) {
	link := fmt.Sprintf("%s/rating?order_id=%d", g.BaseURL, orderID)
	return qrcode.Encode(link, qrcode.Medium, 256)
}
