// Package csvimport reads the semicolon separated exports of point-of-sale
// systems: sales tickets, the product catalog and promotion usage.
// Parsing is forgiving: short rows and rows without a key are skipped and
// malformed numbers read as zero.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"omnia-service/internal/domain/business"
	xerrors "omnia-service/internal/pkg/errors"
)

type Kind string

const (
	KindTickets    Kind = "tickets"
	KindProducts   Kind = "products"
	KindPromotions Kind = "promotions"
)

const (
	delimiter       = ';'
	defaultCategory = "Importado"
	bom             = "\ufeff"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindTickets, "tickets_diarios":
		return KindTickets, nil
	case KindProducts, "catalogo", "catalog":
		return KindProducts, nil
	case KindPromotions, "promociones":
		return KindPromotions, nil
	}
	return "", fmt.Errorf("%w: unknown import kind %q", xerrors.ErrBadRequest, s)
}

// Result is what one file produced. Only the slice for its kind is set.
type Result struct {
	Kind       Kind                      `json:"kind"`
	Imported   int                       `json:"imported"`
	Skipped    int                       `json:"skipped"`
	Tickets    []business.Ticket         `json:"tickets,omitempty"`
	Products   []business.Product        `json:"products,omitempty"`
	Promotions []business.PromotionUsage `json:"promotions,omitempty"`
}

// Parse reads a whole file of the given kind. It returns ErrEmptyImport,
// together with the partial result, when no row could be used.
func Parse(kind Kind, r io.Reader) (*Result, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	res := &Result{Kind: kind}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isBlank(row) {
			continue
		}
		if !res.add(row) {
			res.Skipped++
		}
	}

	if res.Imported == 0 {
		return res, xerrors.ErrEmptyImport
	}
	return res, nil
}

func (res *Result) add(row []string) bool {
	switch res.Kind {
	case KindTickets:
		t, ok := parseTicket(row)
		if ok {
			res.Tickets = append(res.Tickets, t)
		}
		return res.count(ok)
	case KindProducts:
		p, ok := parseProduct(row, int64(len(res.Products)+1))
		if ok {
			res.Products = append(res.Products, p)
		}
		return res.count(ok)
	case KindPromotions:
		p, ok := parsePromotion(row)
		if ok {
			res.Promotions = append(res.Promotions, p)
		}
		return res.count(ok)
	}
	return false
}

func (res *Result) count(ok bool) bool {
	if ok {
		res.Imported++
	}
	return ok
}

// ID_Ticket;Fecha;Hora;Total;MetodoPago;Items
func parseTicket(row []string) (business.Ticket, bool) {
	if len(row) < 4 || field(row, 0) == "" {
		return business.Ticket{}, false
	}
	return business.Ticket{
		ID:            field(row, 0),
		Date:          field(row, 1),
		Time:          field(row, 2),
		Total:         ParseNumber(field(row, 3)),
		PaymentMethod: field(row, 4),
		Items:         int(ParseNumber(field(row, 5))),
	}, true
}

// ID;Nombre;Categoria;Costo;Precio;VentasMensuales
func parseProduct(row []string, seq int64) (business.Product, bool) {
	if len(row) < 5 || field(row, 1) == "" {
		return business.Product{}, false
	}
	category := field(row, 2)
	if category == "" {
		category = defaultCategory
	}
	return business.Product{
		ID:           seq,
		ExternalID:   field(row, 0),
		Name:         field(row, 1),
		Category:     category,
		Cost:         ParseNumber(field(row, 3)),
		Price:        ParseNumber(field(row, 4)),
		SalesMonthly: int(ParseNumber(field(row, 5))),
	}, true
}

// ID_Promo;Nombre;Canjes;DescuentoTotal;Fecha
func parsePromotion(row []string) (business.PromotionUsage, bool) {
	if len(row) < 4 || field(row, 0) == "" {
		return business.PromotionUsage{}, false
	}
	return business.PromotionUsage{
		ID:            field(row, 0),
		Name:          field(row, 1),
		Redemptions:   int(ParseNumber(field(row, 2))),
		TotalDiscount: ParseNumber(field(row, 3)),
		Date:          field(row, 4),
	}, true
}

// ParseNumber accepts "12.90", "12,90", "€12.90", "1.234,50" and returns
// 0 for anything else.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.NewReplacer("€", "", "$", "", " ", "").Replace(s))
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func readRows(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte(bom))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			// counted as skipped
			rows = append(rows, nil)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	if row == nil {
		return false
	}
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
