package imports

import (
	"context"
	"strings"
	"testing"

	"omnia-service/internal/domain/business"
	xerrors "omnia-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBusinesses struct {
	mock.Mock
}

func (m *mockBusinesses) FindByID(ctx context.Context, id string) (*business.Business, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*business.Business)
	return b, args.Error(1)
}

type mockSaver struct {
	mock.Mock
}

func (m *mockSaver) SaveProfile(ctx context.Context, id string, p business.Profile) (*business.Business, error) {
	args := m.Called(ctx, id, p)
	b, _ := args.Get(0).(*business.Business)
	return b, args.Error(1)
}

const productsCSV = "ID;Nombre;Categoria;Costo;Precio;VentasMensuales\nP001;Burger;Food;3.50;12.90;150\n"

func TestParse(t *testing.T) {
	svc := NewImportService(&mockBusinesses{}, &mockSaver{}, zap.NewNop())

	res, err := svc.Parse("catalogo", strings.NewReader(productsCSV))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.InDelta(t, 72.87, res.Products[0].Margin(), 0.01)

	_, err = svc.Parse("invoices", strings.NewReader(productsCSV))
	assert.ErrorIs(t, err, xerrors.ErrBadRequest)

	res, err = svc.Parse("products", strings.NewReader("header\n;;\nx\n"))
	assert.ErrorIs(t, err, xerrors.ErrEmptyImport)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Imported)
}

func TestMerge_ReplacesProducts(t *testing.T) {
	businesses, saver := &mockBusinesses{}, &mockSaver{}
	svc := NewImportService(businesses, saver, zap.NewNop())

	businesses.On("FindByID", mock.Anything, "b1").Return(&business.Business{
		ID:      "b1",
		Profile: business.Profile{Name: "Bar Sol", Products: []business.Product{{Name: "old"}}},
	}, nil)
	saver.On("SaveProfile", mock.Anything, "b1", mock.MatchedBy(func(p business.Profile) bool {
		return len(p.Products) == 1 && p.Products[0].Name == "Burger"
	})).Return(&business.Business{ID: "b1"}, nil)

	res, err := svc.Merge(context.Background(), "b1", "products", strings.NewReader(productsCSV))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, "b1", res.Business.ID)
	saver.AssertExpectations(t)
}

func TestMerge_TicketsDeriveAverage(t *testing.T) {
	businesses, saver := &mockBusinesses{}, &mockSaver{}
	svc := NewImportService(businesses, saver, zap.NewNop())

	businesses.On("FindByID", mock.Anything, "b1").Return(&business.Business{ID: "b1"}, nil)
	saver.On("SaveProfile", mock.Anything, "b1", mock.MatchedBy(func(p business.Profile) bool {
		return len(p.DailyTickets) == 2 && p.AverageTicket == 15
	})).Return(&business.Business{ID: "b1"}, nil)

	csv := "ID;Fecha;Hora;Total;Pago;Items\nT1;2026-01-01;12:00;10;tarjeta;2\nT2;2026-01-01;13:00;20;efectivo;3\n"
	_, err := svc.Merge(context.Background(), "b1", "tickets", strings.NewReader(csv))
	require.NoError(t, err)
	saver.AssertExpectations(t)
}

func TestMerge_EmptyFileDoesNotSave(t *testing.T) {
	businesses, saver := &mockBusinesses{}, &mockSaver{}
	svc := NewImportService(businesses, saver, zap.NewNop())

	res, err := svc.Merge(context.Background(), "b1", "promotions", strings.NewReader("only header\n"))
	assert.ErrorIs(t, err, xerrors.ErrEmptyImport)
	require.NotNil(t, res)
	businesses.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	saver.AssertNotCalled(t, "SaveProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplate(t *testing.T) {
	svc := NewImportService(&mockBusinesses{}, &mockSaver{}, zap.NewNop())

	name, body, err := svc.Template("tickets")
	require.NoError(t, err)
	assert.Equal(t, "plantilla_tickets.csv", name)
	assert.NotEmpty(t, body)

	_, _, err = svc.Template("x")
	assert.Error(t, err)
}
