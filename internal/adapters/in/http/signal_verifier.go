package http

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSignalVerificationFailed indicates a webhook payload whose signature or
// structure could not be verified. Distinct from business rejections so that
// handlers can audit-log it and answer 401.
var ErrSignalVerificationFailed = errors.New("payment signal verification failed")

// Payment signal event types the provider sends. Anything else is
// acknowledged and ignored.
const (
	SignalPaymentSucceeded = "payment.succeeded"
	SignalPaymentFailed    = "payment.failed"
)

// PaymentSignal is the verified content of a provider webhook.
type PaymentSignal struct {
	Event      string
	PaymentRef string
	OrderID    string
	Reason     string
}

// SignalVerifier authenticates webhook payloads from the payment provider.
// The provider signs each payload as a compact HS256 JWS with a shared
// secret; nothing in the payload is trusted before the signature checks out.
type SignalVerifier struct {
	secret []byte
}

// NewSignalVerifier creates a verifier with the shared webhook secret.
func NewSignalVerifier(secret []byte) (SignalVerifier, error) {
	if len(secret) == 0 {
		return SignalVerifier{}, errors.New("webhook secret is required")
	}
	return SignalVerifier{secret: secret}, nil
}

// Verify parses and authenticates a compact JWS payload. Any failure, bad
// signature, wrong algorithm, missing claims, is reported as
// ErrSignalVerificationFailed with the cause attached.
func (v SignalVerifier) Verify(payload string) (PaymentSignal, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(payload, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return PaymentSignal{}, fmt.Errorf("%w: %w", ErrSignalVerificationFailed, err)
	}

	event, ok := claims["event"].(string)
	if !ok || event == "" {
		return PaymentSignal{}, fmt.Errorf("%w: missing event claim", ErrSignalVerificationFailed)
	}
	paymentRef, ok := claims["payment_ref"].(string)
	if !ok || paymentRef == "" {
		return PaymentSignal{}, fmt.Errorf("%w: missing payment_ref claim", ErrSignalVerificationFailed)
	}

	signal := PaymentSignal{
		Event:      event,
		PaymentRef: paymentRef,
	}
	if orderID, isString := claims["order_id"].(string); isString {
		signal.OrderID = orderID
	}
	if reason, isString := claims["reason"].(string); isString {
		signal.Reason = reason
	}

	return signal, nil
}
