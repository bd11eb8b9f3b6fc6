package cart

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vitalixplus/storefront/internal/catalog"
)

func product(id int64, price int64, stock int) catalog.Product {
	return catalog.Product{ID: id, Name: "p", Category: catalog.DefaultCategory, Price: decimal.NewFromInt(price), Stock: stock}
}

func TestAddRejectsBeyondStock(t *testing.T) {
	t.Parallel()

	var c Cart
	p := product(101, 5000, 3)
	if w := c.Add(p, 2); w != WarningNone {
		t.Fatalf("expected first add to succeed, got %q", w)
	}
	if w := c.Add(p, 2); w != WarningInsufficientStock {
		t.Fatalf("expected insufficient stock warning, got %q", w)
	}
	item, ok := c.Find(101)
	if !ok || item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %+v", item)
	}
	if !c.Total().Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected total 10000, got %s", c.Total())
	}
}

func TestAddOutOfStockAndDefaultQuantity(t *testing.T) {
	t.Parallel()

	var c Cart
	if w := c.Add(product(1, 100, 0), 1); w != WarningOutOfStock {
		t.Fatalf("expected out of stock, got %q", w)
	}
	if !c.IsEmpty() {
		t.Fatal("cart should stay empty")
	}
	if w := c.Add(product(2, 100, 5), 0); w != WarningNone || c.Count() != 1 {
		t.Fatalf("expected default quantity of one, got %q count %d", w, c.Count())
	}
}

func TestAddRefreshesSnapshot(t *testing.T) {
	t.Parallel()

	var c Cart
	c.Add(product(7, 1000, 2), 1)
	c.Add(product(7, 1200, 10), 1)
	item, _ := c.Find(7)
	if item.Product.Stock != 10 || !item.Product.Price.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected refreshed snapshot, got %+v", item.Product)
	}
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	var c Cart
	c.Add(product(1, 100, 3), 2)

	if w := c.UpdateQuantity(1, 2); w != WarningInsufficientStock {
		t.Fatalf("expected increase beyond stock to be rejected, got %q", w)
	}
	if w := c.UpdateQuantity(1, 1); w != WarningNone || c.Count() != 3 {
		t.Fatalf("expected quantity 3, got %q count %d", w, c.Count())
	}
	if w := c.UpdateQuantity(99, 1); w != WarningNotInCart {
		t.Fatalf("expected not in cart, got %q", w)
	}
	if w := c.UpdateQuantity(1, -10); w != WarningNone || !c.IsEmpty() {
		t.Fatalf("expected clamp to zero to remove the item, got %q %+v", w, c.Items)
	}
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	var c Cart
	c.Add(product(1, 100, 3), 1)
	c.Add(product(2, 200, 3), 1)
	c.Remove(99)
	c.Remove(1)
	if len(c.Items) != 1 || c.Items[0].Product.ID != 2 {
		t.Fatalf("unexpected items after remove %+v", c.Items)
	}
	c.Clear()
	if c.Count() != 0 || !c.Total().IsZero() {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}

func TestSubtractKeepsLaterAdditions(t *testing.T) {
	t.Parallel()

	var submitted Cart
	submitted.Add(product(1, 100, 10), 2)
	submitted.Add(product(2, 200, 10), 1)

	current := Cart{Items: append([]Item(nil), submitted.Items...)}
	current.UpdateQuantity(1, 1)
	current.Add(product(3, 300, 10), 4)

	current.Subtract(submitted)
	if len(current.Items) != 2 {
		t.Fatalf("expected two remaining items, got %+v", current.Items)
	}
	if item, ok := current.Find(1); !ok || item.Quantity != 1 {
		t.Fatalf("expected one unit of product 1 left, got %+v", item)
	}
	if item, ok := current.Find(3); !ok || item.Quantity != 4 {
		t.Fatalf("expected product 3 untouched, got %+v", item)
	}
	if _, ok := current.Find(2); ok {
		t.Fatal("expected product 2 to be dropped")
	}
}

func TestRandomMutationsKeepInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	catalogProducts := []catalog.Product{product(1, 1500, 4), product(2, 300, 1), product(3, 990, 0), product(4, 12000, 9)}
	var c Cart
	for step := 0; step < 2000; step++ {
		p := catalogProducts[rng.Intn(len(catalogProducts))]
		switch rng.Intn(3) {
		case 0:
			c.Add(p, rng.Intn(4))
		case 1:
			c.UpdateQuantity(p.ID, rng.Intn(7)-3)
		case 2:
			c.Remove(p.ID)
		}

		total := decimal.Zero
		seen := map[int64]bool{}
		for _, item := range c.Items {
			if item.Quantity < 1 || item.Quantity > item.Product.Stock {
				t.Fatalf("step %d: quantity %d outside [1,%d]", step, item.Quantity, item.Product.Stock)
			}
			if seen[item.Product.ID] {
				t.Fatalf("step %d: duplicate product %d", step, item.Product.ID)
			}
			seen[item.Product.ID] = true
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if !c.Total().Equal(total) {
			t.Fatalf("step %d: total %s, want %s", step, c.Total(), total)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	var c Cart
	c.Add(product(1, 2500, 5), 2)
	c.Add(product(2, 1000, 5), 1)
	sum := Summarize(c, WarningInsufficientStock)
	if sum.Count != 3 || !sum.Total.Equal(decimal.NewFromInt(6000)) || sum.Warning != WarningInsufficientStock {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if !sum.Items[0].LineTotal.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected line total %s", sum.Items[0].LineTotal)
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	ctx := context.Background()

	var c Cart
	c.Add(product(101, 5000, 3), 2)
	c.Add(product(7, 800, 9), 4)
	if err := repo.Save(ctx, "client-a", c); err != nil {
		t.Fatalf("save: %v", err)
	}
	restored, err := repo.Load(ctx, "client-a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(restored.Items) != 2 {
		t.Fatalf("expected two items, got %+v", restored.Items)
	}
	for i, item := range c.Items {
		got := restored.Items[i]
		if got.Product.ID != item.Product.ID || got.Quantity != item.Quantity {
			t.Fatalf("item %d mismatch: got %+v want %+v", i, got, item)
		}
	}

	empty, err := repo.Load(ctx, "client-b")
	if err != nil || !empty.IsEmpty() || empty.Items == nil {
		t.Fatalf("expected empty non-nil cart, got %+v %v", empty, err)
	}
}
