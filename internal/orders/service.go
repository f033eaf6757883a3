package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/cherryapp/cherry/internal/catalog"
	"github.com/cherryapp/cherry/internal/platform/locks"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, id int64) (Order, error)
	GetLine(ctx context.Context, id int64) (Line, error)
	ListLines(ctx context.Context, orderID int64) ([]Line, error)
}

// TxRepository exposes transactional operations. Order columns are written
// individually so a writer only touches what it owns; anything read before
// the transaction opened must be re-read through GetOrder here.
type TxRepository interface {
	NextSequence(ctx context.Context, year int) (int, error)
	CreateOrder(ctx context.Context, order Order) (int64, error)
	GetOrder(ctx context.Context, id int64) (Order, error)
	UpdateOrder(ctx context.Context, id int64, status Status, notes string) error
	UpdateOrderStatus(ctx context.Context, id int64, status Status) error
	UpdateOrderTotal(ctx context.Context, id int64, total float64) error
	DeleteOrder(ctx context.Context, id int64) error
	CreateLine(ctx context.Context, line Line) (int64, error)
	GetLine(ctx context.Context, id int64) (Line, error)
	UpdateLine(ctx context.Context, line Line) error
	DeleteLine(ctx context.Context, id int64) error
	DeleteLinesByOrder(ctx context.Context, orderID int64) error
	ListLines(ctx context.Context, orderID int64) ([]Line, error)
}

// CatalogPort resolves products and barcodes from the master catalog.
type CatalogPort interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
	FindByBarcode(ctx context.Context, code string) (catalog.Product, error)
}

// SupplierDirectory resolves supplier names, used in error messages.
type SupplierDirectory interface {
	SupplierName(ctx context.Context, id int64) (string, error)
}

// LockPort serialises mutations on one order aggregate.
type LockPort interface {
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
}

// Service wraps purchase-order business rules.
type Service struct {
	repo      RepositoryPort
	catalog   CatalogPort
	suppliers SupplierDirectory
	locker    LockPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, cat CatalogPort, suppliers SupplierDirectory, locker LockPort) *Service {
	return &Service{repo: repo, catalog: cat, suppliers: suppliers, locker: locker}
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.ListOrders(ctx)
}

// Get fetches one order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// Create opens a new pending order and allocates its sequential number.
// The per-year counter row makes concurrent creates collision-free.
func (s *Service) Create(ctx context.Context, supplierID int64, date time.Time, notes string) (Order, error) {
	if supplierID <= 0 {
		return Order{}, fmt.Errorf("%w: supplier is required", ErrValidation)
	}
	if _, err := s.suppliers.SupplierName(ctx, supplierID); err != nil {
		return Order{}, fmt.Errorf("%w: id %d", ErrSupplierNotFound, supplierID)
	}
	if date.IsZero() {
		date = time.Now()
	}
	order := Order{
		SupplierID: supplierID,
		Date:       date,
		Status:     StatusPending,
		Notes:      notes,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		year := date.Year()
		seq, err := tx.NextSequence(ctx, year)
		if err != nil {
			return err
		}
		order.Number = fmt.Sprintf("OC-%d-%03d", year, seq)
		id, err := tx.CreateOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// Update edits the status and notes of an order, and overrides the total
// when one is supplied. The automatic total upkeep lives in the line
// mutators, not here.
func (s *Service) Update(ctx context.Context, id int64, status Status, notes string, total *float64) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if total != nil && *total < 0 {
		return Order{}, fmt.Errorf("%w: total must not be negative", ErrValidation)
	}
	err := s.withOrderLock(ctx, id, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if _, err := tx.GetOrder(ctx, id); err != nil {
				return err
			}
			if err := tx.UpdateOrder(ctx, id, status, notes); err != nil {
				return err
			}
			if total != nil {
				return tx.UpdateOrderTotal(ctx, id, *total)
			}
			return nil
		})
	})
	if err != nil {
		return Order{}, err
	}
	return s.repo.GetOrder(ctx, id)
}

// Delete removes an order and all its lines, atomically.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetOrder(ctx, id); err != nil {
		return err
	}
	return s.withOrderLock(ctx, id, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if err := tx.DeleteLinesByOrder(ctx, id); err != nil {
				return err
			}
			return tx.DeleteOrder(ctx, id)
		})
	})
}

// Lines returns the lines of one order.
func (s *Service) Lines(ctx context.Context, orderID int64) ([]Line, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListLines(ctx, orderID)
}

// AddLine snapshots a catalog product onto an order: name, reference
// barcode and the price agreed with the order's supplier. The order total
// is recomputed in the same transaction.
func (s *Service) AddLine(ctx context.Context, orderID, productID int64, quantity int) (Line, error) {
	if quantity <= 0 {
		return Line{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return Line{}, err
	}
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return Line{}, err
	}
	// The supplier reference is immutable, so resolving the price against
	// this pre-lock read is safe.
	entry, ok := product.PriceFor(order.SupplierID)
	if !ok {
		name, nameErr := s.suppliers.SupplierName(ctx, order.SupplierID)
		if nameErr != nil {
			name = fmt.Sprintf("supplier %d", order.SupplierID)
		}
		return Line{}, fmt.Errorf("%w: %s has no price for %s", ErrNoSupplierPrice, product.Name, name)
	}
	line := Line{
		OrderID:   orderID,
		ProductID: product.ID,
		Name:      product.Name,
		Barcode:   product.ReferenceBarcode(),
		Ordered:   quantity,
		UnitPrice: entry.Price,
	}
	err = s.withOrderLock(ctx, orderID, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			id, err := tx.CreateLine(ctx, line)
			if err != nil {
				return err
			}
			line.ID = id
			return recomputeTotal(ctx, tx, orderID)
		})
	})
	if err != nil {
		return Line{}, err
	}
	return line, nil
}

// UpdateLine edits the ordered quantity and unit price of a line and
// recomputes the order total. Received counts are not touched here.
func (s *Service) UpdateLine(ctx context.Context, lineID int64, quantity int, unitPrice float64) (Line, error) {
	if quantity <= 0 {
		return Line{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if unitPrice < 0 {
		return Line{}, fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	}
	current, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return Line{}, err
	}
	var line Line
	err = s.withOrderLock(ctx, current.OrderID, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			line, err = tx.GetLine(ctx, lineID)
			if err != nil {
				return err
			}
			line.Ordered = quantity
			line.UnitPrice = unitPrice
			line.Complete = line.Received >= line.Ordered
			if err := tx.UpdateLine(ctx, line); err != nil {
				return err
			}
			return recomputeTotal(ctx, tx, line.OrderID)
		})
	})
	if err != nil {
		return Line{}, err
	}
	return line, nil
}

// DeleteLine removes a line and recomputes the order total.
func (s *Service) DeleteLine(ctx context.Context, lineID int64) error {
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	return s.withOrderLock(ctx, line.OrderID, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if err := tx.DeleteLine(ctx, lineID); err != nil {
				return err
			}
			return recomputeTotal(ctx, tx, line.OrderID)
		})
	})
}

// Scan receives exactly one unit of the product behind a scanned code.
// The whole step runs under the order's lock, and the order is re-read
// inside the locked transaction so concurrent mutations are never
// overwritten with a stale snapshot.
func (s *Service) Scan(ctx context.Context, orderID int64, code string) (ScanResult, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return ScanResult{}, err
	}
	product, err := s.catalog.FindByBarcode(ctx, code)
	if err != nil {
		return ScanResult{}, fmt.Errorf("%w: %s", ErrCodeUnknown, code)
	}

	var result ScanResult
	err = s.withOrderLock(ctx, orderID, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			order, err := tx.GetOrder(ctx, orderID)
			if err != nil {
				return err
			}
			lines, err := tx.ListLines(ctx, orderID)
			if err != nil {
				return err
			}
			idx := -1
			for i, line := range lines {
				if line.ProductID == product.ID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("%w: %s", ErrProductNotInOrder, product.Name)
			}
			line := lines[idx]
			if line.Received >= line.Ordered {
				return fmt.Errorf("%w: %s", ErrMaxReceived, line.Name)
			}

			line.Received++
			line.Complete = line.Received >= line.Ordered
			if err := tx.UpdateLine(ctx, line); err != nil {
				return err
			}
			lines[idx] = line

			// Status only ever advances through this path.
			next := orderStatusAfterScan(order.Status, lines)
			if next != order.Status {
				if err := tx.UpdateOrderStatus(ctx, orderID, next); err != nil {
					return err
				}
			}
			result = ScanResult{
				Line:    line,
				Status:  next,
				Message: fmt.Sprintf("%s (%d/%d)", line.Name, line.Received, line.Ordered),
			}
			return nil
		})
	})
	if err != nil {
		return ScanResult{}, err
	}
	return result, nil
}

func orderStatusAfterScan(current Status, lines []Line) Status {
	all := true
	for _, line := range lines {
		if line.Received < line.Ordered {
			all = false
			break
		}
	}
	if all {
		return StatusCompleted
	}
	if current == StatusPending {
		return StatusReceiving
	}
	return current
}

func recomputeTotal(ctx context.Context, tx TxRepository, orderID int64) error {
	lines, err := tx.ListLines(ctx, orderID)
	if err != nil {
		return err
	}
	var total float64
	for _, line := range lines {
		total += float64(line.Ordered) * line.UnitPrice
	}
	return tx.UpdateOrderTotal(ctx, orderID, total)
}

func (s *Service) withOrderLock(ctx context.Context, orderID int64, fn func(context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}
	return s.locker.WithLock(ctx, locks.OrderLockKey(orderID), fn)
}
