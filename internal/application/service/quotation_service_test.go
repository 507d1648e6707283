package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/enum"
	"github.com/sangkips/rajtiles-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

func (e *testEnv) quotationInput(items ...uuid.UUID) QuotationInput {
	lines := make([]QuotationLineInput, len(items))
	for i, id := range items {
		lines[i] = QuotationLineInput{ItemID: id, Quantity: 1}
	}
	return QuotationInput{
		CustomerName:    "Mehta & Sons",
		CustomerPhone:   "98255 32006",
		DiscountPercent: "10",
		PricingMode:     enum.PricingModeNRP,
		IncludeGST:      true,
		Lines:           lines,
	}
}

func TestQuotationService_CreateComputesCachedTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ravi := env.signup(t, "ravi")
	a := env.item(t, ravi.ID, "Alpha", "100", "120")
	b := env.item(t, ravi.ID, "Beta", "250", "300")

	input := env.quotationInput(a.ID, b.ID)
	input.Lines[0].Quantity = 3

	q, err := env.quotations.CreateQuotation(ctx, &CreateQuotationInput{UserID: ravi.ID, Username: "ravi", QuotationInput: input})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if q.TotalQuantity != 4 {
		t.Fatalf("expected total quantity 4, got %d", q.TotalQuantity)
	}
	if !q.TotalAmount.Equal(decimal.NewFromInt(767)) {
		t.Fatalf("expected total amount 767, got %s", q.TotalAmount)
	}
	if q.CustomerPhone != "+919825532006" {
		t.Fatalf("expected E.164 phone, got %q", q.CustomerPhone)
	}
	if q.CustomerAddress != DefaultCustomerAddress {
		t.Fatalf("expected default address, got %q", q.CustomerAddress)
	}
	if q.OwnerName != "ravi" || q.UserID != ravi.ID {
		t.Fatalf("expected owner ravi, got %q", q.OwnerName)
	}
	if len(q.Lines) != 2 || q.Lines[0].Item == nil || q.Lines[0].Item.Name != "Alpha" {
		t.Fatalf("expected lines with items loaded, got %+v", q.Lines)
	}
}

func TestQuotationService_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ravi := env.signup(t, "ravi")
	a := env.item(t, ravi.ID, "Alpha", "100", "120")
	fixed := time.Date(2024, 5, 12, 9, 30, 0, 0, time.UTC)
	env.quotations.now = func() time.Time { return fixed }

	input := env.quotationInput(a.ID)
	input.DiscountPercent = ""
	input.CustomerPhone = "not a phone"
	input.Lines[0].Quantity = 0

	q, err := env.quotations.CreateQuotation(context.Background(), &CreateQuotationInput{UserID: ravi.ID, QuotationInput: input})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.DiscountPercent != "0" {
		t.Fatalf("expected discount 0, got %q", q.DiscountPercent)
	}
	if !q.Date.Equal(fixed) {
		t.Fatalf("expected today's date, got %s", q.Date)
	}
	if q.CustomerPhone != "not a phone" {
		t.Fatalf("expected unparseable phone kept as is, got %q", q.CustomerPhone)
	}
	if q.Lines[0].Quantity != 1 {
		t.Fatalf("expected quantity to default to 1, got %d", q.Lines[0].Quantity)
	}
}

func TestQuotationService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ravi := env.signup(t, "ravi")
	a := env.item(t, ravi.ID, "Alpha", "100", "120")

	cases := map[string]func(*QuotationInput){
		"no customer":     func(in *QuotationInput) { in.CustomerName = " " },
		"bad discount":    func(in *QuotationInput) { in.DiscountPercent = "ten" },
		"discount above":  func(in *QuotationInput) { in.DiscountPercent = "101" },
		"no lines":        func(in *QuotationInput) { in.Lines = nil },
		"unknown mode":    func(in *QuotationInput) { in.PricingMode = enum.PricingMode(7) },
		"negative manual": func(in *QuotationInput) { m := decimal.NewFromInt(-5); in.Lines[0].ManualPrice = &m },
	}
	for name, mutate := range cases {
		input := env.quotationInput(a.ID)
		mutate(&input)
		_, err := env.quotations.CreateQuotation(ctx, &CreateQuotationInput{UserID: ravi.ID, QuotationInput: input})
		if err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		expectCode(t, err, http.StatusUnprocessableEntity)
	}
}

func TestQuotationService_UnknownItem(t *testing.T) {
	env := newTestEnv(t)
	ravi := env.signup(t, "ravi")

	_, err := env.quotations.CreateQuotation(context.Background(), &CreateQuotationInput{
		UserID:         ravi.ID,
		QuotationInput: env.quotationInput(uuid.New()),
	})
	expectCode(t, err, http.StatusNotFound)
}

func TestQuotationService_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ravi := env.signup(t, "ravi")
	priya := env.signup(t, "priya")
	a := env.item(t, ravi.ID, "Alpha", "100", "120")

	q, err := env.quotations.CreateQuotation(ctx, &CreateQuotationInput{UserID: ravi.ID, QuotationInput: env.quotationInput(a.ID)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = env.quotations.GetQuotation(ctx, priya.ID, q.ID)
	expectCode(t, err, http.StatusForbidden)

	_, err = env.quotations.UpdateQuotation(ctx, &UpdateQuotationInput{UserID: priya.ID, ID: q.ID, QuotationInput: env.quotationInput(a.ID)})
	expectCode(t, err, http.StatusForbidden)

	expectCode(t, env.quotations.DeleteQuotation(ctx, priya.ID, q.ID), http.StatusForbidden)

	list, err := env.quotations.ListQuotations(ctx, &ListQuotationsInput{UserID: priya.ID, Pagination: pagination.DefaultPagination()})
	if err != nil || list.Pagination.Total != 0 {
		t.Fatalf("expected priya to see no quotations, got %v (%v)", list, err)
	}

	_, err = env.quotations.GetQuotation(ctx, ravi.ID, uuid.New())
	expectCode(t, err, http.StatusNotFound)
}

func TestQuotationService_UpdateRecomputesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ravi := env.signup(t, "ravi")
	a := env.item(t, ravi.ID, "Alpha", "100", "120")
	b := env.item(t, ravi.ID, "Beta", "250", "300")

	q, err := env.quotations.CreateQuotation(ctx, &CreateQuotationInput{UserID: ravi.ID, QuotationInput: env.quotationInput(a.ID)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := env.quotationInput(b.ID)
	input.PricingMode = enum.PricingModeMRP
	input.IncludeGST = false
	input.Lines[0].Quantity = 2

	updated, err := env.quotations.UpdateQuotation(ctx, &UpdateQuotationInput{UserID: ravi.ID, ID: q.ID, QuotationInput: input})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.TotalAmount.Equal(decimal.NewFromInt(600)) || updated.TotalQuantity != 2 {
		t.Fatalf("expected 600 for 2 at MRP 300, got %s / %d", updated.TotalAmount, updated.TotalQuantity)
	}
	if len(updated.Lines) != 1 || updated.Lines[0].ItemID != b.ID {
		t.Fatalf("expected the lines to be replaced, got %+v", updated.Lines)
	}

	if err := env.quotations.DeleteQuotation(ctx, ravi.ID, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = env.quotations.GetQuotation(ctx, ravi.ID, q.ID)
	expectCode(t, err, http.StatusNotFound)
}
