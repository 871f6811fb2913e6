package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/service/catalog"

	"github.com/google/uuid"
)

type ProductWriter interface {
	UpsertBySKU(ctx context.Context, p domain.Product) (*domain.Product, bool, error)
}

type CategoryWriter interface {
	UpsertBySlug(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads catalog CSV exports and upserts categories and
// products row by row. Column names are matched case-variant
// (name/Name, price/Price, ...). A bad row is recorded, not fatal.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:     csvr,
		products:   products,
		categories: categories,
	}
}

// Result summarizes an import run.
type Result struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// Run parses all rows and performs per-row category-then-product
// upserts keyed by slug and SKU respectively.
func (i *CSVImporter) Run(ctx context.Context) (*Result, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	result := &Result{}
	rowNum := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		rowNum++

		created, err := i.importRow(ctx, record, index)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func (i *CSVImporter) importRow(ctx context.Context, record []string, index map[string]int) (bool, error) {
	get := func(key string) string {
		idx, ok := index[key]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := get("name")
	if name == "" {
		return false, errors.New("name is required")
	}

	priceCents, err := ParseCents(get("price"))
	if err != nil {
		return false, fmt.Errorf("price: %w", err)
	}

	var salePriceCents *int64
	if raw := firstNonEmpty(get("saleprice"), get("sale_price")); raw != "" {
		cents, err := ParseCents(raw)
		if err != nil {
			return false, fmt.Errorf("sale price: %w", err)
		}
		salePriceCents = &cents
	}

	stock := 0
	if raw := get("stock"); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return false, fmt.Errorf("invalid stock %q", raw)
		}
	}

	var weightGrams *int
	if raw := get("weight"); raw != "" {
		grams, err := strconv.Atoi(raw)
		if err != nil {
			return false, fmt.Errorf("invalid weight %q", raw)
		}
		weightGrams = &grams
	}

	sku := get("sku")
	if sku == "" {
		sku = generateSKU()
	}

	slug := get("slug")
	if slug == "" {
		slug = name
	}

	var images []string
	if raw := get("images"); raw != "" {
		for _, img := range strings.Split(raw, ",") {
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		}
	}

	product := domain.Product{
		Name:           name,
		Slug:           catalog.Slugify(slug),
		SKU:            sku,
		Description:    get("description"),
		PriceCents:     priceCents,
		SalePriceCents: salePriceCents,
		Stock:          stock,
		WeightGrams:    weightGrams,
		Featured:       strings.EqualFold(get("featured"), "true"),
		Active:         !strings.EqualFold(get("active"), "false"),
		Images:         images,
	}

	if categoryName := get("category"); categoryName != "" {
		cat, err := i.categories.UpsertBySlug(ctx, domain.Category{
			Name: categoryName,
			Slug: catalog.Slugify(categoryName),
		})
		if err != nil {
			return false, fmt.Errorf("category %q: %w", categoryName, err)
		}
		product.CategoryID = &cat.ID
	}

	_, created, err := i.products.UpsertBySKU(ctx, product)
	if err != nil {
		return false, fmt.Errorf("product %q: %w", sku, err)
	}
	return created, nil
}

// headerIndex maps lowercased header names to column positions, so
// "Name" and "name" address the same column.
func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

// ParseCents converts a decimal currency string like "12.50" to cents
// without going through floating point.
func ParseCents(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty amount")
	}
	neg := false
	if strings.HasPrefix(raw, "-") {
		neg = true
		raw = raw[1:]
	}
	whole, frac, _ := strings.Cut(raw, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
		cents = d
	default:
		return 0, fmt.Errorf("amount %q has more than two decimal places", raw)
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return total, nil
}

func generateSKU() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("SKU-%d-%s", time.Now().UnixMilli(), suffix)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
