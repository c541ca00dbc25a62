package handlers

import (
	"testing"

	"github.com/google/uuid"

	"github.com/example/aviaclub/internal/models"
)

func sampleCart() []models.CartItem {
	return []models.CartItem{
		{ProductID: uuid.New(), ProductName: "Business lounge pass", UnitPrice: 2500, Quantity: 1, Position: 0},
		{ProductID: uuid.New(), ProductName: "Travel pillow", UnitPrice: 900, Quantity: 2, Position: 1},
	}
}

func TestCartTotal(t *testing.T) {
	if got := cartTotal(sampleCart()); got != 4300 {
		t.Fatalf("expected total 4300, got %v", got)
	}
	if got := cartTotal(nil); got != 0 {
		t.Fatalf("expected empty cart total 0, got %v", got)
	}
}

func TestBuildOrderItemsSnapshotsCart(t *testing.T) {
	cart := sampleCart()
	items := buildOrderItems(cart)

	if len(items) != len(cart) {
		t.Fatalf("expected %d order items, got %d", len(cart), len(items))
	}

	for i, item := range items {
		if item.ProductID != cart[i].ProductID {
			t.Fatalf("item %d: product id not carried over", i)
		}
		if item.ProductName != cart[i].ProductName {
			t.Fatalf("item %d: product name not carried over", i)
		}
		if item.UnitPrice != cart[i].UnitPrice {
			t.Fatalf("item %d: unit price not carried over", i)
		}
		want := cart[i].UnitPrice * float64(cart[i].Quantity)
		if item.LineTotal != want {
			t.Fatalf("item %d: expected line total %v, got %v", i, want, item.LineTotal)
		}
	}
}
