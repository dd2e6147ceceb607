package smoke

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/ifrs15/internal/domain/model"
)

// DefaultChecks lists every request a smoke round issues.
func DefaultChecks(prefix string) []Check {
	return []Check{
		{Name: "health", Path: prefix + "health", Kind: KindHealth},
		{Name: "contracts", Path: prefix + "contracts", Kind: KindContracts},
		{Name: "revenue", Path: prefix + "revenue", Kind: KindRevenue},
		{Name: "clients", Path: prefix + "clients", Kind: KindClients},
		{Name: "unknown", Path: prefix + "does-not-exist", Kind: KindUnknown},
		{Name: "bare-prefix", Path: prefix, Kind: KindUnknown},
		{Name: "export-clients", Path: prefix + "export/clients", Kind: KindExport},
		{Name: "export-contracts", Path: prefix + "export/contracts", Kind: KindExport},
		{Name: "export-revenue", Path: prefix + "export/revenue", Kind: KindExport},
		{Name: "demo-page", Path: demoPagePath, Kind: KindPage},
		{Name: "root", Path: "/", Kind: KindPage},
		{Name: "dashboard", Path: "/dashboard", Kind: KindPage},
		{Name: "contracts-page", Path: "/contracts", Kind: KindPage},
		{Name: "revenue-page", Path: "/revenue", Kind: KindPage},
	}
}

// verify checks a single response in isolation.
func verify(r Result) error {
	if r.Err != nil {
		return r.Err
	}
	if r.Status != http.StatusOK {
		return fmt.Errorf("status %d", r.Status)
	}
	if got := r.Header.Get("X-Request-ID"); got != r.RequestID {
		return fmt.Errorf("request id %q not echoed (got %q)", r.RequestID, got)
	}
	if r.Check.Kind == KindPage {
		if len(r.Body) == 0 {
			return fmt.Errorf("empty page")
		}
		return nil
	}

	if got := r.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		return fmt.Errorf("missing CORS header (got %q)", got)
	}

	switch r.Check.Kind {
	case KindHealth:
		var doc model.Health
		if err := decodeStrict(r.Body, &doc); err != nil {
			return err
		}
		if doc.Status != expectedHealthStatus || doc.Timestamp == "" || doc.Version == "" || doc.Service == "" {
			return fmt.Errorf("unexpected health document %+v", doc)
		}
	case KindContracts:
		var doc model.ContractList
		if err := decodeStrict(r.Body, &doc); err != nil {
			return err
		}
		if len(doc.Data) != expectedContracts || doc.Total != expectedContracts {
			return fmt.Errorf("want %d contracts, got %d (total %d)", expectedContracts, len(doc.Data), doc.Total)
		}
		for _, c := range doc.Data {
			if c.ID == "" || c.Customer == "" {
				return fmt.Errorf("incomplete contract %+v", c)
			}
		}
	case KindRevenue:
		var doc model.Revenue
		if err := decodeStrict(r.Body, &doc); err != nil {
			return err
		}
		d := doc.Data
		if d.TotalRecognized != expectedTotalRecognized || d.TotalPending != expectedTotalPending {
			return fmt.Errorf("unexpected revenue totals %d/%d", d.TotalRecognized, d.TotalPending)
		}
		if len(d.PerformanceObligations) != 1 || d.PerformanceObligations[0].Progress != expectedProgress {
			return fmt.Errorf("unexpected performance obligations %+v", d.PerformanceObligations)
		}
	case KindClients:
		var doc model.ClientList
		if err := decodeStrict(r.Body, &doc); err != nil {
			return err
		}
		if len(doc.Data) != expectedClients || doc.Total != expectedClients {
			return fmt.Errorf("want %d clients, got %d (total %d)", expectedClients, len(doc.Data), doc.Total)
		}
	case KindUnknown:
		if string(r.Body) != expectedNotFound {
			return fmt.Errorf("unexpected error document %q", r.Body)
		}
	case KindExport:
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
			return fmt.Errorf("content type %q", r.Header.Get("Content-Type"))
		}
		if !strings.HasPrefix(r.Header.Get("Content-Disposition"), "attachment") {
			return fmt.Errorf("export is not an attachment")
		}
		records, err := csv.NewReader(bytes.NewReader(r.Body)).ReadAll()
		if err != nil {
			return fmt.Errorf("invalid csv: %w", err)
		}
		if len(records) < 2 {
			return fmt.Errorf("export has %d records", len(records))
		}
	}
	return nil
}

func decodeStrict(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}
