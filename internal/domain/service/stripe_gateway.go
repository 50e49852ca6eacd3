package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finetrack/pkg/errors"
	"finetrack/pkg/logger"
)

// signatureTolerance bounds webhook timestamp skew to defend against replay.
const signatureTolerance = 5 * time.Minute

// StripeGateway talks to a Stripe-compatible payment-intents API over HTTP.
type StripeGateway struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client

	// now is swappable for signature tests
	now func() time.Time
}

func NewStripeGateway(secretKey, webhookSecret, baseURL string) *StripeGateway {
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}

	return &StripeGateway{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		now:           time.Now,
	}
}

type stripeIntentPayload struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata"`
	LatestCharge string            `json:"latest_charge"`
	Charges      struct {
		Data []struct {
			ID                   string `json:"id"`
			PaymentMethodDetails struct {
				Type string `json:"type"`
			} `json:"payment_method_details"`
		} `json:"data"`
	} `json:"charges"`
	PaymentMethodTypes []string `json:"payment_method_types"`
}

func (g *StripeGateway) CreateIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountMinorUnits, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	payload, err := g.do(ctx, http.MethodPost, "/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	intent := payloadToIntent(payload)
	logger.Info("Payment intent created: %s (%d %s)", intent.ID, req.AmountMinorUnits, req.Currency)
	return intent, nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	payload, err := g.do(ctx, http.MethodGet, "/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, err
	}

	return payloadToIntent(payload), nil
}

func (g *StripeGateway) do(ctx context.Context, method, path string, body io.Reader) (*stripeIntentPayload, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, errors.Internal("Failed to build gateway request", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
	if method == http.MethodPost {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.GatewayUnavailable("Payment gateway is unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.GatewayUnavailable("Failed to read gateway response", err)
	}

	if resp.StatusCode >= 500 {
		return nil, errors.GatewayUnavailable(fmt.Sprintf("Payment gateway error (%d)", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Error("Gateway API error: status=%d body=%s", resp.StatusCode, string(raw))
		return nil, errors.BadRequest("Payment gateway rejected the request", nil)
	}

	var payload stripeIntentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Internal("Failed to parse gateway response", err)
	}

	return &payload, nil
}

func payloadToIntent(p *stripeIntentPayload) *PaymentIntent {
	intent := &PaymentIntent{
		ID:            p.ID,
		ClientSecret:  p.ClientSecret,
		Status:        mapIntentStatus(p.Status),
		TransactionID: p.LatestCharge,
		Metadata:      p.Metadata,
	}

	if len(p.PaymentMethodTypes) > 0 {
		intent.PaymentMethod = p.PaymentMethodTypes[0]
	}
	if len(p.Charges.Data) > 0 {
		if intent.TransactionID == "" {
			intent.TransactionID = p.Charges.Data[0].ID
		}
		if t := p.Charges.Data[0].PaymentMethodDetails.Type; t != "" {
			intent.PaymentMethod = t
		}
	}

	return intent
}

func mapIntentStatus(s string) IntentStatus {
	switch s {
	case "succeeded":
		return IntentStatusSucceeded
	case "canceled":
		return IntentStatusFailed
	default:
		// requires_payment_method, requires_confirmation,
		// requires_action, processing...
		return IntentStatusPending
	}
}

type webhookEventPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object stripeIntentPayload `json:"object"`
	} `json:"data"`
}

// VerifyNotification authenticates a webhook payload before anything else.
// The signature header carries "t=<unix>,v1=<hex hmac>"; the signed message
// is "<t>.<payload>" keyed with the webhook secret.
func (g *StripeGateway) VerifyNotification(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, errors.SignatureInvalid("Malformed signature header", err)
	}

	eventTime := time.Unix(timestamp, 0)
	if drift := g.now().Sub(eventTime); drift > signatureTolerance || drift < -signatureTolerance {
		return nil, errors.SignatureInvalid("Signature timestamp outside tolerance", nil)
	}

	expected := computeSignature(timestamp, payload, g.webhookSecret)
	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, errors.SignatureInvalid("Webhook signature verification failed", nil)
	}

	var event webhookEventPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.BadRequest("Invalid webhook payload", err)
	}

	return &WebhookEvent{
		ID:     event.ID,
		Type:   event.Type,
		Intent: *payloadToIntent(&event.Data.Object),
	}, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("empty signature header")
	}

	var timestamp int64 = -1
	var signatures []string

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid timestamp: %v", err)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, parts[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("missing timestamp or signature")
	}

	return timestamp, signatures, nil
}

func computeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
