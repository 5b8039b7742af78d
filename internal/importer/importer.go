package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"obak-storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products,
// creating categories referenced by the rows as it goes.
type CSVImporter struct {
	reader       *csv.Reader
	productRepo  ProductWriter
	categoryRepo CategoryWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:       csvr,
		productRepo:  products,
		categoryRepo: categories,
	}
}

type csvRow struct {
	ID        string
	Name      string
	Desc      string
	ShortDesc string
	Price     string
	Category  string
	InStock   bool
	Variants  []string
	Features  []string
	ImageURLs []string
}

// Run parses CSV rows and upserts one product per named row. Rows with an
// empty name but an image URL extend the images of the preceding product.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
		seenCats = map[string]bool{}
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current, seenCats); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current, seenCats); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow, seenCats map[string]bool) error {
	if row.Name == "" || row.Price == "" || row.Category == "" {
		return fmt.Errorf("invalid product row (missing required fields) for %q", row.Name)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return fmt.Errorf("invalid price for %q: %w", row.Name, err)
	}
	if price.IsNegative() {
		return fmt.Errorf("negative price for %q", row.Name)
	}

	if !seenCats[row.Category] {
		if _, err := i.categoryRepo.Upsert(ctx, domain.Category{Name: row.Category, Slug: slugify(row.Category)}); err != nil {
			return fmt.Errorf("upsert category %q: %w", row.Category, err)
		}
		seenCats[row.Category] = true
	}

	p := domain.Product{
		ID:               row.ID,
		Name:             row.Name,
		Description:      row.Desc,
		ShortDescription: row.ShortDesc,
		Price:            price,
		Category:         row.Category,
		InStock:          row.InStock,
		Variants:         row.Variants,
		Features:         row.Features,
	}
	if len(row.ImageURLs) > 0 {
		p.MainImage = row.ImageURLs[0]
		p.AdditionalImages = row.ImageURLs[1:]
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	imageURL := pick(record, index, "image")

	if name == "" && imageURL == "" {
		return nil
	}

	inStock := true
	if v := pick(record, index, "in_stock"); v != "" {
		inStock, _ = strconv.ParseBool(v)
	}

	row := &csvRow{
		ID:        pick(record, index, "id"),
		Name:      name,
		Desc:      pick(record, index, "description"),
		ShortDesc: pick(record, index, "short_description"),
		Price:     pick(record, index, "price"),
		Category:  pick(record, index, "category"),
		InStock:   inStock,
		Variants:  splitList(pick(record, index, "variants")),
		Features:  splitList(pick(record, index, "features")),
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
