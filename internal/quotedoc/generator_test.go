package quotedoc

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/domain/enum"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/imagesource"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/layout"
	"github.com/shopspring/decimal"
)

func pngTile(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		img.Set(x, 100, color.RGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func item(name, image string, nrp int64) *entity.Item {
	it := &entity.Item{
		ID:   uuid.New(),
		Name: name,
		NRP:  decimal.NewFromInt(nrp),
		MRP:  decimal.NewFromInt(nrp + 20),
	}
	if image != "" {
		it.Image = &image
	}
	return it
}

func quotation(lines ...entity.QuotationLine) *entity.Quotation {
	return &entity.Quotation{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		OwnerName:       "asha",
		CustomerName:    "Mehta & Sons",
		CustomerAddress: "Ring Road, Surat",
		Date:            time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		DiscountPercent: "10",
		PricingMode:     enum.PricingModeNRP,
		IncludeGST:      true,
		Lines:           lines,
	}
}

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	opts := imagesource.DefaultRemoteOptions()
	opts.InitialBackoff = time.Millisecond
	acquirer := imagesource.NewAcquirer(
		imagesource.NewRemoteSource(nil, opts),
		imagesource.NewLocalSource(t.TempDir()),
	)
	g := NewGenerator(acquirer, layout.DefaultLetterhead(), Options{Concurrency: 2})
	g.now = func() time.Time { return time.Date(2024, 5, 12, 18, 30, 0, 0, time.UTC) }
	return g
}

func TestGenerate_RendersWithMixedImages(t *testing.T) {
	tile := pngTile(t)
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path == "/tile.png" {
			w.Write(tile)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	good := item("Glossy 600x600", srv.URL+"/tile.png", 100)
	broken := item("Matt 300x300", srv.URL+"/gone.png", 250)
	plain := item("Skirting", "", 40)

	q := quotation(
		entity.QuotationLine{ItemID: good.ID, Item: good, Quantity: 3},
		entity.QuotationLine{ItemID: broken.ID, Item: broken, Quantity: 1},
		entity.QuotationLine{ItemID: good.ID, Item: good, Quantity: 2},
		entity.QuotationLine{ItemID: plain.ID, Item: plain, Quantity: 0},
	)

	res, err := testGenerator(t).Generate(context.Background(), q)
	if err != nil {
		t.Fatalf("expected document despite broken image, got %v", err)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF-")) {
		t.Fatal("expected PDF output")
	}
	if res.Pages < 1 {
		t.Fatalf("expected at least one page, got %d", res.Pages)
	}
	if res.Filename != "Quotation_Mehta___Sons_2024-05-12.pdf" {
		t.Fatalf("unexpected filename %q", res.Filename)
	}
	// the shared image is fetched once
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 image requests, got %d", got)
	}
}

func TestGenerate_NonASCIIText(t *testing.T) {
	it := item("Glossy – 600×600", "", 100)
	it.Description = strings.Repeat("Glossy finish – 600×600 mm, frost-proof “premium” grade. ", 6)
	q := quotation(entity.QuotationLine{ItemID: it.ID, Item: it, Quantity: 2})
	q.CustomerName = "Café Mehta"
	q.CustomerAddress = "Café Road, Surat – 395007 (near Nāngal Chowk)"
	q.ConsigneeName = "Søren Tiles"
	q.ConsigneeAddress = "Ünit 4, Ring Road ★ Surat"

	res, err := testGenerator(t).Generate(context.Background(), q)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF-")) {
		t.Fatal("expected PDF output")
	}
}

func TestGenerate_MissingItem(t *testing.T) {
	q := quotation(entity.QuotationLine{ItemID: uuid.New(), Quantity: 1})

	res, err := testGenerator(t).Generate(context.Background(), q)
	if !errors.Is(err, ErrMissingItem) {
		t.Fatalf("expected ErrMissingItem, got %v", err)
	}
	if res != nil {
		t.Fatal("expected no output")
	}
}

func TestGenerate_WithoutAcquirer(t *testing.T) {
	it := item("Tile", "public/tile.jpg", 10)
	g := NewGenerator(nil, nil, Options{})
	res, err := g.Generate(context.Background(), quotation(entity.QuotationLine{ItemID: it.ID, Item: it, Quantity: 1}))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Data) == 0 {
		t.Fatal("expected output")
	}
}

func TestPricingInput(t *testing.T) {
	it := item("Tile", "", 100)
	manual := decimal.NewFromInt(77)
	q := quotation(entity.QuotationLine{ItemID: it.ID, Item: it, Quantity: 2, ManualPrice: &manual})
	q.PricingMode = enum.PricingModeManual
	q.DiscountPercent = "12.5"

	in, err := PricingInput(q)
	if err != nil {
		t.Fatalf("pricing input: %v", err)
	}
	if !in.DiscountPercent.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected discount 12.5, got %s", in.DiscountPercent)
	}
	if in.Lines[0].Manual == nil || !in.Lines[0].Manual.Equal(manual) {
		t.Fatal("expected manual price to be carried")
	}
	if !in.Lines[0].MRP.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected MRP 120, got %s", in.Lines[0].MRP)
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 1, 2, 23, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	cases := map[string]string{
		"":               "Quotation_Customer_2024-01-02.pdf",
		"Ravi Patel":     "Quotation_Ravi_Patel_2024-01-02.pdf",
		"A/B:C*D?":       "Quotation_A_B_C_D__2024-01-02.pdf",
		"Tiles-R-Us 2.0": "Quotation_Tiles_R_Us_2_0_2024-01-02.pdf",
	}
	for in, want := range cases {
		if got := Filename(in, at); got != want {
			t.Fatalf("Filename(%q): expected %q, got %q", in, want, got)
		}
	}
}
