package utils

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func getCryptopayConfig() (baseURL, apiKey, webhookSecret, callbackURL string, err error) {
	baseURL = os.Getenv("CRYPTOPAY_BASE_URL")
	apiKey = os.Getenv("CRYPTOPAY_API_KEY")
	webhookSecret = os.Getenv("CRYPTOPAY_WEBHOOK_SECRET")
	callbackURL = os.Getenv("CRYPTOPAY_CALLBACK_URL")

	if baseURL == "" {
		baseURL = "https://api.cryptopay.io"
	}
	if apiKey == "" || webhookSecret == "" || callbackURL == "" {
		return "", "", "", "", fmt.Errorf("CRYPTOPAY config is required")
	}
	return baseURL, apiKey, webhookSecret, callbackURL, nil
}

func cryptopayTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z07:00")
}

// createCryptopaySignature signs an outbound request.
// StringToSign: METHOD:PATH:BODY_HASH:TIMESTAMP, HMAC-SHA512 -> Base64
func createCryptopaySignature(method, path string, body []byte, timestamp, secret string) string {
	bodyHash := sha256.Sum256(body)
	bodyHashHex := strings.ToLower(hex.EncodeToString(bodyHash[:]))
	stringToSign := method + ":" + path + ":" + bodyHashHex + ":" + timestamp
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyCryptopayWebhook checks the X-SIGNATURE header of an incoming callback:
// HMAC-SHA512 over TIMESTAMP + "." + RAW_BODY, Base64 encoded.
func VerifyCryptopayWebhook(body []byte, timestamp, signature string) bool {
	secret := os.Getenv("CRYPTOPAY_WEBHOOK_SECRET")
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func minifyJSON(body []byte) []byte {
	var m map[string]interface{}
	if json.Unmarshal(body, &m) != nil {
		return body
	}
	out, _ := json.Marshal(m)
	return out
}

// CryptopayPaymentResponse from /v1/payments
type CryptopayPaymentResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		PaymentID   string `json:"payment_id"`
		OrderID     string `json:"order_id"`
		PayAddress  string `json:"pay_address"`
		PayCurrency string `json:"pay_currency"`
		Network     string `json:"network"`
		Amount      string `json:"amount"`
		ExpiresAt   string `json:"expires_at"`
	} `json:"data"`
}

// CreateCryptopayPayment requests a one-time deposit address for an order (24h expiry).
func CreateCryptopayPayment(ctx context.Context, client *http.Client, orderID, amount, currency string) (*CryptopayPaymentResponse, error) {
	baseURL, apiKey, webhookSecret, callbackURL, err := getCryptopayConfig()
	if err != nil {
		return nil, err
	}
	path := "/v1/payments"
	url := strings.TrimRight(baseURL, "/") + path

	bodyObj := map[string]interface{}{
		"order_id":     orderID,
		"amount":       amount,
		"currency":     currency,
		"callback_url": callbackURL,
	}
	body, _ := json.Marshal(bodyObj)
	bodyMinified := minifyJSON(body)

	timestamp := cryptopayTimestamp()
	sig := createCryptopaySignature("POST", path, bodyMinified, timestamp, webhookSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyMinified))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("X-TIMESTAMP", timestamp)
	req.Header.Set("X-SIGNATURE", sig)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	var out CryptopayPaymentResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("parse payment response: %w (body: %s)", err, string(respBody))
	}
	if out.Code != "0" {
		return nil, fmt.Errorf("API %s: %s", out.Code, out.Message)
	}
	if out.Data.PayAddress == "" {
		return nil, fmt.Errorf("empty pay address")
	}
	return &out, nil
}

// CryptopayStatusResponse from /v1/payments/{order_id}
type CryptopayStatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		PaymentID string `json:"payment_id"`
		OrderID   string `json:"order_id"`
		Status    string `json:"status"`
		TxHash    string `json:"tx_hash"`
		Amount    string `json:"amount"`
	} `json:"data"`
}

// InquiryCryptopayStatus checks the provider-side status of a payment by order id.
func InquiryCryptopayStatus(ctx context.Context, client *http.Client, orderID string) (*CryptopayStatusResponse, error) {
	baseURL, apiKey, webhookSecret, _, err := getCryptopayConfig()
	if err != nil {
		return nil, err
	}
	path := "/v1/payments/" + orderID
	url := strings.TrimRight(baseURL, "/") + path

	timestamp := cryptopayTimestamp()
	sig := createCryptopaySignature("GET", path, nil, timestamp, webhookSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("X-TIMESTAMP", timestamp)
	req.Header.Set("X-SIGNATURE", sig)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	var out CryptopayStatusResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("parse status response: %w (body: %s)", err, string(respBody))
	}
	if out.Code != "0" {
		return nil, fmt.Errorf("API %s: %s", out.Code, out.Message)
	}
	return &out, nil
}

// IsCryptopayConfirmedStatus reports whether a provider status means the funds arrived on-chain.
func IsCryptopayConfirmedStatus(status string) bool {
	s := strings.ToUpper(strings.TrimSpace(status))
	return s == "CONFIRMED" || s == "FINISHED"
}
