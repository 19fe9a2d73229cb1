package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// expectedSignature recomputes the gateway's HMAC-SHA256 hex digest over
// "<gatewayOrderID>|<gatewayPaymentID>".
func expectedSignature(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// signatureMatches compares the supplied signature in constant time.
func signatureMatches(secret, gatewayOrderID, gatewayPaymentID, supplied string) bool {
	expected := expectedSignature(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(supplied))
}
