package components

import (
	"math"
	"testing"
)

func checkInvariant(t *testing.T, p *Pool) {
	t.Helper()
	if p.Amount < 0 {
		t.Fatalf("amount went negative: %v", p.Amount)
	}
	if p.Bounded() && p.Amount > p.Capacity {
		t.Fatalf("amount %v exceeds capacity %v", p.Amount, p.Capacity)
	}
}

func TestPoolWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		req     float64
		granted float64
	}{
		{"partial", 100, 30, 30},
		{"exact", 40, 40, 40},
		{"more than held", 25, 60, 25},
		{"empty pool", 0, 10, 0},
		{"zero request", 50, 0, 0},
		{"negative request", 50, -5, 0},
		{"NaN request", 50, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.amount, 100, 0)
			before := p.Amount
			got := p.Withdraw(tt.req)
			if got != tt.granted {
				t.Errorf("Withdraw(%v) = %v, want %v", tt.req, got, tt.granted)
			}
			if p.Amount != before-got {
				t.Errorf("amount = %v, want %v", p.Amount, before-got)
			}
			checkInvariant(t, &p)
		})
	}
}

func TestPoolDeposit(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		capacity float64
		req      float64
		accepted float64
	}{
		{"room available", 20, 100, 30, 30},
		{"clamped by capacity", 80, 100, 30, 20},
		{"full pool", 100, 100, 5, 0},
		{"unbounded accumulator", 1e6, 0, 250, 250},
		{"negative request", 10, 100, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.amount, tt.capacity, 0)
			got := p.Deposit(tt.req)
			if got != tt.accepted {
				t.Errorf("Deposit(%v) = %v, want %v", tt.req, got, tt.accepted)
			}
			checkInvariant(t, &p)
		})
	}
}

func TestPoolRegenerateClampsToCapacity(t *testing.T) {
	// Flower with 100 pollen regenerating at 0.1/s
	p := NewPool(100, 100, 0.1)
	if got := p.Withdraw(100); got != 100 {
		t.Fatalf("withdraw = %v, want 100", got)
	}

	p.Regenerate(50)
	if math.Abs(p.Amount-5.0) > 1e-9 {
		t.Errorf("after 50s pollen = %v, want 5.0", p.Amount)
	}

	p.Regenerate(10000)
	if p.Amount != 100 {
		t.Errorf("regen should clamp at capacity, got %v", p.Amount)
	}
	checkInvariant(t, &p)
}

func TestPoolSequenceKeepsInvariant(t *testing.T) {
	p := NewPool(10, 50, 2)
	ops := []func(){
		func() { p.Deposit(45) },
		func() { p.Withdraw(70) },
		func() { p.Regenerate(3) },
		func() { p.Withdraw(1) },
		func() { p.Regenerate(1000) },
		func() { p.SetCapacity(20) },
		func() { p.Deposit(1) },
	}
	for i, op := range ops {
		op()
		if p.Amount < 0 || p.Amount > p.Capacity {
			t.Fatalf("op %d broke invariant: amount=%v capacity=%v", i, p.Amount, p.Capacity)
		}
	}
	if p.Amount != 20 {
		t.Errorf("final amount = %v, want 20", p.Amount)
	}
}

func TestHiveConvert(t *testing.T) {
	h := Hive{Stored: NewPool(0, 0, 0.5)}

	if got := h.Receive(30); got != 30 {
		t.Fatalf("Receive(30) = %v", got)
	}

	// 10 seconds at 0.5/s converts 5 pollen
	produced := h.Convert(10)
	if math.Abs(produced-5) > 1e-9 {
		t.Errorf("produced = %v, want 5", produced)
	}
	if math.Abs(h.Stored.Amount-25) > 1e-9 {
		t.Errorf("stored = %v, want 25", h.Stored.Amount)
	}

	// Conversion never drives storage negative
	h.Convert(1000)
	if h.Stored.Amount != 0 {
		t.Errorf("stored = %v, want 0", h.Stored.Amount)
	}
	if math.Abs(h.Honey.Amount-30) > 1e-9 {
		t.Errorf("honey = %v, want 30", h.Honey.Amount)
	}
}
