package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/caja/internal/adapter/http/dto"
	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

type purchaseServiceStub struct {
	quoteFn  func(input usecase.QuoteInput) (*domain.Purchase, error)
	createFn func(ctx context.Context, input usecase.CreatePurchaseInput) (*domain.Purchase, error)
	getFn    func(ctx context.Context, id string) (*domain.Purchase, error)
	listFn   func(ctx context.Context, limit, offset int) ([]*domain.Purchase, error)
}

func (s *purchaseServiceStub) Quote(input usecase.QuoteInput) (*domain.Purchase, error) {
	return s.quoteFn(input)
}

func (s *purchaseServiceStub) CreatePurchase(ctx context.Context, input usecase.CreatePurchaseInput) (*domain.Purchase, error) {
	return s.createFn(ctx, input)
}

func (s *purchaseServiceStub) GetPurchase(ctx context.Context, id string) (*domain.Purchase, error) {
	return s.getFn(ctx, id)
}

func (s *purchaseServiceStub) ListPurchases(ctx context.Context, limit, offset int) ([]*domain.Purchase, error) {
	return s.listFn(ctx, limit, offset)
}

func pricedPurchase(input usecase.QuoteInput) *domain.Purchase {
	p := &domain.Purchase{
		GrossWeight:     input.GrossWeight,
		DeductionWeight: input.DeductionWeight,
		UnitPrice:       input.UnitPrice,
	}
	p.Price()
	return p
}

func TestPurchaseHandler_Quote(t *testing.T) {
	handler := NewPurchaseHandler(&purchaseServiceStub{
		quoteFn: func(input usecase.QuoteInput) (*domain.Purchase, error) {
			return pricedPurchase(input), nil
		},
	})

	body := `{"gross_weight":"85.6","deduction_weight":"2.2","unit_price":"4.50"}`
	req := httptest.NewRequest(http.MethodPost, "/purchases/quote", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Quote(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PurchaseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.NetWeight != "83.4" || resp.Total != "375.30" || resp.GrossWeight != "85.6" {
		t.Fatalf("unexpected quote: %+v", resp)
	}
}

func TestPurchaseHandler_Quote_DeductionExceedsGross(t *testing.T) {
	handler := NewPurchaseHandler(&purchaseServiceStub{
		quoteFn: func(input usecase.QuoteInput) (*domain.Purchase, error) {
			return nil, domain.ErrDeductionExceedsGross
		},
	})

	body := `{"gross_weight":"10","deduction_weight":"11","unit_price":"1"}`
	req := httptest.NewRequest(http.MethodPost, "/purchases/quote", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Quote(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Message != domain.ErrDeductionExceedsGross.Error() {
		t.Fatalf("expected domain message, got %+v", resp)
	}
}

func TestPurchaseHandler_Create(t *testing.T) {
	var captured usecase.CreatePurchaseInput
	handler := NewPurchaseHandler(&purchaseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePurchaseInput) (*domain.Purchase, error) {
			captured = input
			p := pricedPurchase(input.QuoteInput)
			p.ID = "pur-1"
			p.SessionID = input.SessionID
			p.Supplier = input.Supplier
			p.Product = input.Product
			p.CreatedAt = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
			return p, nil
		},
	})

	body := `{"session_id":"ses-1","supplier":"Don Lucho","product":"café pergamino","gross_weight":"85.6","deduction_weight":"2.2","unit_price":"4.50"}`
	req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.SessionID == nil || *captured.SessionID != "ses-1" {
		t.Fatalf("expected session ses-1, got %v", captured.SessionID)
	}

	var resp dto.PurchaseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "pur-1" || resp.Total != "375.30" || resp.CreatedAt == nil {
		t.Fatalf("unexpected purchase: %+v", resp)
	}
}

func TestPurchaseHandler_Create_ClosedSession(t *testing.T) {
	handler := NewPurchaseHandler(&purchaseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePurchaseInput) (*domain.Purchase, error) {
			return nil, domain.ErrSessionClosed
		},
	})

	body := `{"session_id":"ses-1","supplier":"Don Lucho","product":"maíz","gross_weight":"10","unit_price":"2"}`
	req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestPurchaseHandler_GetAndList(t *testing.T) {
	handler := NewPurchaseHandler(&purchaseServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Purchase, error) {
			return nil, domain.ErrPurchaseNotFound
		},
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.Purchase, error) {
			if limit != 10 || offset != 20 {
				t.Fatalf("expected limit=10 offset=20, got %d %d", limit, offset)
			}
			return []*domain.Purchase{{ID: "pur-1"}}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/purchases/nope", nil), "id", "nope")
	rec := httptest.NewRecorder()
	handler.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/purchases?limit=10&offset=20", nil)
	rec = httptest.NewRecorder()
	handler.List(rec, req)

	var resp dto.ListPurchasesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Purchases) != 1 {
		t.Fatalf("expected 1 purchase, got %d", len(resp.Purchases))
	}
}
