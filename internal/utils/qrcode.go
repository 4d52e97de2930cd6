package utils

import (
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"
)

// GenerateOrderTrackingQR génère le QR de suivi joint à l'email de
// confirmation : il pointe vers la page de suivi de la commande
func GenerateOrderTrackingQR(orderID string) ([]byte, error) {
	baseURL := os.Getenv("FRONTEND_TRACKING_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000/orders"
	}

	return qrcode.Encode(fmt.Sprintf("%s/%s", baseURL, orderID), qrcode.Medium, 256)
}
