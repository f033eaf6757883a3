package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryCatalogRepo struct {
	products map[int64]Product
	nextID   int64
}

func newMemoryCatalogRepo() *memoryCatalogRepo {
	return &memoryCatalogRepo{products: make(map[int64]Product)}
}

func (r *memoryCatalogRepo) List(ctx context.Context) ([]Summary, error) {
	list := make([]Summary, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, Summary{ID: p.ID, Name: p.Name, Barcodes: p.Barcodes})
	}
	return list, nil
}

func (r *memoryCatalogRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryCatalogRepo) Create(ctx context.Context, name, description, barcode string) (Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			return Product{}, ErrDuplicate
		}
		for _, code := range p.Barcodes {
			if code == barcode {
				return Product{}, ErrDuplicate
			}
		}
	}
	r.nextID++
	p := Product{ID: r.nextID, Name: name, Description: description, Barcodes: []string{barcode}}
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryCatalogRepo) AddBarcode(ctx context.Context, productID int64, code string) error {
	for id, p := range r.products {
		for _, existing := range p.Barcodes {
			if existing == code {
				if id == productID {
					return nil
				}
				return ErrDuplicate
			}
		}
	}
	p := r.products[productID]
	p.Barcodes = append(p.Barcodes, code)
	r.products[productID] = p
	return nil
}

func (r *memoryCatalogRepo) UpsertPrice(ctx context.Context, productID, supplierID int64, supplierName string, price float64) error {
	p := r.products[productID]
	for i, entry := range p.Prices {
		if entry.SupplierID == supplierID {
			p.Prices[i].Price = price
			p.Prices[i].SupplierName = supplierName
			r.products[productID] = p
			return nil
		}
	}
	r.nextID++
	p.Prices = append(p.Prices, SupplierPrice{ID: r.nextID, SupplierID: supplierID, SupplierName: supplierName, Price: price})
	r.products[productID] = p
	return nil
}

func (r *memoryCatalogRepo) DeletePrice(ctx context.Context, productID, priceID int64) error {
	p := r.products[productID]
	for i, entry := range p.Prices {
		if entry.ID == priceID {
			p.Prices = append(p.Prices[:i], p.Prices[i+1:]...)
			r.products[productID] = p
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryCatalogRepo) FindByBarcode(ctx context.Context, code string) (Product, error) {
	for _, p := range r.products {
		for _, existing := range p.Barcodes {
			if existing == code {
				return p, nil
			}
		}
	}
	return Product{}, ErrNotFound
}

type stubDirectory struct {
	names map[int64]string
}

func (s *stubDirectory) SupplierName(ctx context.Context, id int64) (string, error) {
	name, ok := s.names[id]
	if !ok {
		return "", ErrSupplierNotFound
	}
	return name, nil
}

func newCatalogService() (*Service, *stubDirectory) {
	dir := &stubDirectory{names: map[int64]string{1: "Mercado Central"}}
	return NewService(newMemoryCatalogRepo(), dir), dir
}

func TestCreateRequiresNameAndBarcode(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "", "7791234567890")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, "Cherries 500g", "", "  ")
	require.ErrorIs(t, err, ErrValidation)

	product, err := svc.Create(ctx, "Cherries 500g", "box of 500g", "7791234567890")
	require.NoError(t, err)
	require.Equal(t, []string{"7791234567890"}, product.Barcodes)

	_, err = svc.Create(ctx, "Other", "", "7791234567890")
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestBarcodeSetSemantics(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "Cherries 500g", "", "111")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "Apples 1kg", "", "222")
	require.NoError(t, err)

	require.NoError(t, svc.AddBarcode(ctx, first.ID, "333"))
	// Re-adding an owned code is a no-op.
	require.NoError(t, svc.AddBarcode(ctx, first.ID, "333"))
	// A code owned by another product is rejected.
	require.ErrorIs(t, svc.AddBarcode(ctx, second.ID, "333"), ErrDuplicate)

	found, err := svc.FindByBarcode(ctx, "333")
	require.NoError(t, err)
	require.Equal(t, first.ID, found.ID)

	_, err = svc.FindByBarcode(ctx, "999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetPriceSnapshotsSupplierName(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	product, err := svc.Create(ctx, "Cherries 500g", "", "111")
	require.NoError(t, err)

	updated, err := svc.SetPrice(ctx, product.ID, 1, 100)
	require.NoError(t, err)
	require.Len(t, updated.Prices, 1)
	require.Equal(t, "Mercado Central", updated.Prices[0].SupplierName)
	require.Equal(t, 100.0, updated.Prices[0].Price)

	// Same supplier again replaces the price instead of appending.
	updated, err = svc.SetPrice(ctx, product.ID, 1, 120)
	require.NoError(t, err)
	require.Len(t, updated.Prices, 1)
	require.Equal(t, 120.0, updated.Prices[0].Price)

	_, err = svc.SetPrice(ctx, product.ID, 99, 50)
	require.ErrorIs(t, err, ErrSupplierNotFound)

	_, err = svc.SetPrice(ctx, product.ID, 1, -1)
	require.ErrorIs(t, err, ErrValidation)

	entry, ok := updated.PriceFor(1)
	require.True(t, ok)
	cleared, err := svc.RemovePrice(ctx, product.ID, entry.ID)
	require.NoError(t, err)
	require.Empty(t, cleared.Prices)
}
