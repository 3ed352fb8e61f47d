// Package airtable keeps shifts and movie history in an Airtable base.
package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"

	// maxPages bounds a listing at 100 records per page.
	maxPages = 50

	unknownFieldType = "UNKNOWN_FIELD_NAME"
)

type Store struct {
	apiKey  string
	baseURL string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

func NewStore(apiKey, baseID, baseURL string, httpClient *circuitbreaker.HTTPClient, log *zap.Logger) (*Store, error) {
	if apiKey == "" || baseID == "" {
		return nil, fmt.Errorf("airtable: %w", domain.ErrConfigMissing)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Store{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(baseID),
		http:    httpClient,
		log:     log,
	}, nil
}

// Table returns a handle on an existing table. Airtable tables are created in
// the base UI, so nothing is checked until the first request.
func (s *Store) Table(ctx context.Context, name string) (ports.RecordTable, error) {
	return &Table{store: s, name: name}, nil
}

type Table struct {
	store *Store
	name  string
}

type listResponse struct {
	Records []domain.Record `json:"records"`
	Offset  string          `json:"offset"`
}

type createRequest struct {
	Fields map[string]interface{} `json:"fields"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *Table) Name() string { return t.name }

func (t *Table) All(ctx context.Context) ([]domain.Record, error) {
	return t.Filter(ctx, nil)
}

// Filter pages through the table and keeps the records match accepts.
func (t *Table) Filter(ctx context.Context, match func(domain.Record) bool) ([]domain.Record, error) {
	var out []domain.Record
	offset := ""
	for page := 0; page < maxPages; page++ {
		endpoint := t.endpoint("")
		if offset != "" {
			endpoint += "?" + url.Values{"offset": {offset}}.Encode()
		}

		var resp listResponse
		if err := t.store.http.GetJSON(ctx, endpoint, t.headers(), &resp); err != nil {
			return nil, t.wrap("list", err)
		}
		for _, rec := range resp.Records {
			if rec.Fields == nil {
				rec.Fields = map[string]interface{}{}
			}
			if match == nil || match(rec) {
				out = append(out, rec)
			}
		}

		if resp.Offset == "" {
			return out, nil
		}
		offset = resp.Offset
	}

	t.store.log.Warn("Airtable listing truncated", zap.String("table", t.name), zap.Int("pages", maxPages))
	return out, nil
}

func (t *Table) Create(ctx context.Context, fields map[string]interface{}) (domain.Record, error) {
	var rec domain.Record
	err := t.store.http.DoJSON(ctx, http.MethodPost, t.endpoint(""), t.headers(), createRequest{Fields: fields}, &rec)
	if err != nil {
		return domain.Record{}, t.wrap("create", err)
	}
	t.store.log.Debug("Airtable record created", zap.String("table", t.name), zap.String("id", rec.ID))
	return rec, nil
}

func (t *Table) Delete(ctx context.Context, id string) error {
	if err := t.store.http.DoJSON(ctx, http.MethodDelete, t.endpoint(id), t.headers(), nil, nil); err != nil {
		return t.wrap("delete", err)
	}
	return nil
}

func (t *Table) endpoint(id string) string {
	u := t.store.baseURL + "/" + url.PathEscape(t.name)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (t *Table) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + t.store.apiKey}
}

// wrap maps Airtable answers onto domain errors: 422 UNKNOWN_FIELD_NAME to
// ErrUnknownField, 404 to ErrNotFound, and transport failures to
// ErrStoreUnavailable.
func (t *Table) wrap(op string, err error) error {
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		return fmt.Errorf("airtable: %s %s: %w: %w", op, t.name, domain.ErrStoreUnavailable, err)
	}

	switch perr.Status {
	case http.StatusNotFound:
		return fmt.Errorf("airtable: %s %s: %w: %w", op, t.name, domain.ErrNotFound, err)
	case http.StatusUnprocessableEntity:
		var body errorResponse
		if json.Unmarshal([]byte(perr.Body), &body) == nil && body.Error.Type == unknownFieldType {
			return fmt.Errorf("airtable: %s %s: %s: %w", op, t.name, body.Error.Message, domain.ErrUnknownField)
		}
	}
	return fmt.Errorf("airtable: %s %s: %w", op, t.name, err)
}
