package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Zhima-Mochi/minishop-store/internal/application/sales"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/customer"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/order"
)

// Printer renders store activity as human-readable lines.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Cart(lines []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.println("Products in Cart:")
	for _, l := range lines {
		p.println(l)
	}
}

// OrderProcessed has the shape of a store placement hook.
func (p *Printer) OrderProcessed(o *order.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("Order #%d has been processed.\n", o.ID)
}

// SaleRecorded implements sales.Sink.
func (p *Printer) SaleRecorded(_ context.Context, r sales.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("Order #%d has been paid. Total amount: $%s\n", r.OrderID, catalog.FormatAmount(r.TotalAmount))
	p.printf("Total Sales: %d\n", r.TotalSales)
}

func (p *Printer) Orders(orders []*order.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.println("Orders in the store:")
	for _, o := range orders {
		p.printf("Order #%d - Total Price: $%s\n", o.ID, catalog.FormatAmount(o.Total()))
	}
}

func (p *Printer) Customers(customers []customer.Customer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.println("Customers in the store:")
	for _, c := range customers {
		p.printf("Customer #%d - Name: %s, Email: %s\n", c.ID, c.Name, c.Email)
	}
}

func (p *Printer) println(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

func (p *Printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}
