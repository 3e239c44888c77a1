package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Sender entrega una operación de sincronización al backend remoto.
// El consumidor es idempotente por (collection, document_id): reentregas son no-op.
type Sender interface {
	Send(ctx context.Context, op *entity.SyncOperation) error
}

// HTTPSender entrega operaciones vía POST JSON al backend remoto.
type HTTPSender struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPSender construye el sender HTTP.
func NewHTTPSender(url, apiKey string) *HTTPSender {
	return &HTTPSender{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type syncEnvelope struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	Kind       string          `json:"kind"`
	Collection string          `json:"collection"`
	DocumentID string          `json:"document_id"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Send publica la operación. Cualquier status fuera de 2xx cuenta como fallo
// (el despachador reintenta con backoff).
func (s *HTTPSender) Send(ctx context.Context, op *entity.SyncOperation) error {
	body, err := json.Marshal(syncEnvelope{
		ID:         op.ID,
		CompanyID:  op.CompanyID,
		Kind:       op.Kind,
		Collection: op.Collection,
		DocumentID: op.DocumentID,
		Payload:    op.Payload,
		CreatedAt:  op.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal sync envelope: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sync operation: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sync remote respondió %d", resp.StatusCode)
	}
	return nil
}

// NopSender descarta operaciones marcándolas enviadas. Para development sin
// backend remoto configurado.
type NopSender struct{}

// Send no hace nada.
func (NopSender) Send(ctx context.Context, op *entity.SyncOperation) error { return nil }
