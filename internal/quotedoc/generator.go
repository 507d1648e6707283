// Package quotedoc renders a stored quotation as a PDF document.
package quotedoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sangkips/rajtiles-api/internal/domain/entity"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/imagesource"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/imaging"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/layout"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/pricing"
	"golang.org/x/sync/errgroup"
)

// ErrMissingItem means a line references an item that no longer exists
var ErrMissingItem = errors.New("quotation line references a missing item")

const defaultConcurrency = 8

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// Result is a rendered document ready to stream
type Result struct {
	Data     []byte
	Filename string
	Pages    int
}

// Options tunes a Generator
type Options struct {
	// Concurrency bounds the number of images fetched at once
	Concurrency    int
	LogoCandidates []string
}

// Generator turns quotations into PDFs. It is safe for concurrent use; every
// call composes on its own canvas.
type Generator struct {
	acquirer       *imagesource.Acquirer
	letterhead     *layout.Letterhead
	concurrency    int
	logoCandidates []string
	now            func() time.Time
}

func NewGenerator(acquirer *imagesource.Acquirer, letterhead *layout.Letterhead, opts Options) *Generator {
	if letterhead == nil {
		letterhead = layout.DefaultLetterhead()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = defaultConcurrency
	}
	candidates := opts.LogoCandidates
	if len(candidates) == 0 {
		candidates = letterhead.Logo
	}

	return &Generator{
		acquirer:       acquirer,
		letterhead:     letterhead,
		concurrency:    opts.Concurrency,
		logoCandidates: candidates,
		now:            time.Now,
	}
}

// Generate renders q. Lines must have their items loaded; a line without
// one yields ErrMissingItem before anything is drawn.
func (g *Generator) Generate(ctx context.Context, q *entity.Quotation) (*Result, error) {
	input, err := PricingInput(q)
	if err != nil {
		return nil, err
	}
	totals := pricing.Calculate(input)

	assets := g.loadImages(ctx, q)

	doc := &layout.Document{
		Number: q.Number(),
		Date:   q.Date,
		Buyer: layout.Party{
			Name:    q.CustomerName,
			Address: q.CustomerAddress,
			Phone:   q.CustomerPhone,
		},
		Consignee: layout.Party{
			Name:    q.ConsigneeName,
			Address: q.ConsigneeAddress,
			Phone:   q.ConsigneePhone,
		},
		DiscountPercent: input.DiscountPercent,
		IncludeTax:      q.IncludeGST,
		Rows:            make([]layout.Row, len(q.Lines)),
		Totals:          totals,
		PreparedBy:      q.OwnerName,
		Logo:            assets.logo,
		BrandLogos:      assets.brands,
	}
	for i, line := range q.Lines {
		doc.Rows[i] = layout.Row{
			Name:        line.Item.Name,
			Description: line.Item.Description,
			SKU:         line.Item.SKU(),
			Image:       assets.items[line.Item.ImageRef()],
		}
	}

	now := g.now()
	canvas := layout.NewPDFCanvas("Quotation "+doc.Number, now)
	if err := layout.NewComposer(canvas, g.letterhead).Compose(doc); err != nil {
		return nil, fmt.Errorf("compose quotation %s: %w", q.ID, err)
	}

	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quotation %s: %w", q.ID, err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: Filename(q.CustomerName, now),
		Pages:    canvas.PageCount(),
	}, nil
}

// PricingInput maps a quotation with loaded items onto the calculator input
func PricingInput(q *entity.Quotation) (pricing.Input, error) {
	input := pricing.Input{
		Mode:            q.PricingMode,
		DiscountPercent: pricing.ParsePercent(q.DiscountPercent),
		IncludeTax:      q.IncludeGST,
		Lines:           make([]pricing.Line, len(q.Lines)),
	}
	for i, line := range q.Lines {
		if line.Item == nil {
			return pricing.Input{}, fmt.Errorf("%w: %s", ErrMissingItem, line.ItemID)
		}
		input.Lines[i] = pricing.Line{
			Quantity: line.Quantity,
			NRP:      line.Item.NRP,
			MRP:      line.Item.MRP,
			Manual:   line.ManualPrice,
		}
	}
	return input, nil
}

type imageSet struct {
	logo   *imaging.Image
	items  map[string]*imaging.Image
	brands map[string]*imaging.Image
}

// loadImages acquires and normalizes every distinct image in parallel.
// Tasks never fail; an unresolved image becomes a placeholder.
func (g *Generator) loadImages(ctx context.Context, q *entity.Quotation) imageSet {
	noImage := imaging.Placeholder(imaging.LabelNoImage)
	set := imageSet{
		items:  map[string]*imaging.Image{"": &noImage},
		brands: map[string]*imaging.Image{},
	}

	var refs []string
	seen := map[string]bool{"": true}
	for _, line := range q.Lines {
		if ref := line.Item.ImageRef(); !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	for _, ref := range g.letterhead.BrandLogos() {
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	results := make([]imaging.Image, len(refs))
	var logo *imaging.Image

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	if g.acquirer != nil && len(g.logoCandidates) > 0 {
		eg.Go(func() error {
			if acquired := g.acquirer.AcquireFirst(egCtx, g.logoCandidates...); acquired != nil {
				img := imaging.Normalize(acquired.Data)
				logo = &img
			}
			return nil
		})
	}
	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			var data []byte
			if g.acquirer != nil {
				if acquired := g.acquirer.Acquire(egCtx, ref); acquired != nil {
					data = acquired.Data
				}
			}
			if data == nil {
				results[i] = imaging.Placeholder(imaging.LabelUnavailable)
				return nil
			}
			results[i] = imaging.Normalize(data)
			return nil
		})
	}
	_ = eg.Wait()

	set.logo = logo
	for i, ref := range refs {
		img := results[i]
		set.items[ref] = &img
		set.brands[ref] = &img
	}
	return set
}

// Filename builds Quotation_<customer>_<YYYY-MM-DD>.pdf with every character
// outside [A-Za-z0-9] replaced by an underscore
func Filename(customer string, at time.Time) string {
	if customer == "" {
		customer = "Customer"
	}
	name := unsafeFilenameChars.ReplaceAllString(customer, "_")
	return fmt.Sprintf("Quotation_%s_%s.pdf", name, at.UTC().Format("2006-01-02"))
}
