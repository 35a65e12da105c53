package shop

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/beehive/components"
	"github.com/pthm-cable/beehive/config"
)

func testShop(t *testing.T) *Shop {
	t.Helper()
	s, err := New([]config.UpgradeConfig{
		{Kind: "speed", Name: "Faster Bees", BaseCost: 100, CostGrowth: 1.2, Effect: "mul", Step: 1.2},
		{Kind: "bee_count", Name: "More Bees", BaseCost: 500, CostGrowth: 2, MaxLevel: 1, Effect: "add", Step: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPurchaseExactFunds(t *testing.T) {
	s := testShop(t)
	honey := components.NewPool(100, 0, 0)

	u, err := s.Purchase(KindSpeed, &honey)
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if honey.Amount != 0 {
		t.Errorf("honey = %v, want 0", honey.Amount)
	}
	if u.Level != 1 {
		t.Errorf("level = %d, want 1", u.Level)
	}
	if u.Cost != 120 {
		t.Errorf("next cost = %v, want 120", u.Cost)
	}

	// Second purchase is a no-op
	_, err = s.Purchase(KindSpeed, &honey)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if honey.Amount != 0 || u.Level != 1 || u.Cost != 120 {
		t.Errorf("failed purchase changed state: honey=%v level=%d cost=%v", honey.Amount, u.Level, u.Cost)
	}
}

func TestPurchaseCostFloors(t *testing.T) {
	s := testShop(t)
	honey := components.NewPool(10000, 0, 0)

	want := []float64{120, 144, 172, 206}
	for i, w := range want {
		u, err := s.Purchase(KindSpeed, &honey)
		if err != nil {
			t.Fatal(err)
		}
		if u.Cost != w {
			t.Errorf("after purchase %d cost = %v, want %v", i+1, u.Cost, w)
		}
	}
	if honey.Amount != 10000-100-120-144-172 {
		t.Errorf("honey = %v", honey.Amount)
	}
}

func TestPurchaseMaxLevel(t *testing.T) {
	s := testShop(t)
	honey := components.NewPool(5000, 0, 0)

	if _, err := s.Purchase(KindBeeCount, &honey); err != nil {
		t.Fatal(err)
	}
	before := honey.Amount
	_, err := s.Purchase(KindBeeCount, &honey)
	if !errors.Is(err, ErrMaxLevel) {
		t.Errorf("err = %v, want ErrMaxLevel", err)
	}
	if honey.Amount != before {
		t.Errorf("maxed purchase debited honey")
	}
}

func TestPurchaseUnknown(t *testing.T) {
	s := testShop(t)
	honey := components.NewPool(5000, 0, 0)
	if _, err := s.Purchase("wings", &honey); !errors.Is(err, ErrUnknownUpgrade) {
		t.Errorf("err = %v, want ErrUnknownUpgrade", err)
	}
}

func TestEffectApply(t *testing.T) {
	tests := []struct {
		name   string
		effect Effect
		base   float64
		level  int
		want   float64
	}{
		{"add level 0", Effect{EffectAdd, 2}, 5, 0, 5},
		{"add level 3", Effect{EffectAdd, 2}, 5, 3, 11},
		{"mul level 0", Effect{EffectMul, 1.5}, 100, 0, 100},
		{"mul level 2", Effect{EffectMul, 1.5}, 100, 2, 225},
		{"negative level", Effect{EffectMul, 1.5}, 100, -1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.effect.Apply(tt.base, tt.level); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectBaseInvertsApply(t *testing.T) {
	tests := []struct {
		name   string
		effect Effect
		level  int
	}{
		{"add", Effect{EffectAdd, 2}, 3},
		{"mul", Effect{EffectMul, 1.5}, 4},
		{"level 0", Effect{EffectMul, 1.5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.effect.Apply(80, tt.level)
			if got := tt.effect.Base(v, tt.level); math.Abs(got-80) > 1e-9 {
				t.Errorf("Base(Apply(80)) = %v, want 80", got)
			}
		})
	}

	// A zero multiplier cannot be undone
	zero := Effect{EffectMul, 0}
	if got := zero.Base(7, 2); got != 7 {
		t.Errorf("zero-step Base = %v, want 7", got)
	}
}

func TestEffectIdempotent(t *testing.T) {
	e := Effect{EffectMul, 1.2}
	first := e.Apply(300, 4)
	second := e.Apply(300, 4)
	if first != second {
		t.Errorf("re-applying changed the value: %v vs %v", first, second)
	}
}

func TestSetStateAndReset(t *testing.T) {
	s := testShop(t)
	if err := s.SetState(KindSpeed, 3, 172); err != nil {
		t.Fatal(err)
	}
	if s.Level(KindSpeed) != 3 {
		t.Errorf("level = %d, want 3", s.Level(KindSpeed))
	}
	if err := s.SetState(KindBeeCount, 5, 100); err == nil {
		t.Error("level above max should be rejected")
	}
	if err := s.SetState("wings", 1, 1); err != nil {
		t.Errorf("unknown kinds should be ignored, got %v", err)
	}

	s.Reset()
	u, _ := s.Get(KindSpeed)
	if u.Level != 0 || u.Cost != 100 {
		t.Errorf("after reset level=%d cost=%v", u.Level, u.Cost)
	}
}

func TestUnlimitedLevelsStayFinite(t *testing.T) {
	s := testShop(t)
	if err := s.SetState(KindSpeed, 5000, 1); err == nil {
		t.Error("a level that overflows the multiplier should be rejected")
	}

	u, _ := s.Get(KindSpeed)
	if u.MaxLevel != 0 {
		t.Fatalf("speed max level = %d, test expects unlimited", u.MaxLevel)
	}
	for u.Effect.InRange(u.Level + 1) {
		u.Level++
	}
	if !u.Maxed() {
		t.Error("upgrade at the last finite level should read as maxed")
	}
	if v := u.Value(300); math.IsInf(v, 0) || v > 300*MaxFactor {
		t.Errorf("value at level %d = %v", u.Level, v)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New([]config.UpgradeConfig{{Kind: "speed", Effect: "pow"}}); err == nil {
		t.Error("unknown effect should fail")
	}
	dup := []config.UpgradeConfig{
		{Kind: "speed", Effect: "mul"},
		{Kind: "speed", Effect: "add"},
	}
	if _, err := New(dup); err == nil {
		t.Error("duplicate kind should fail")
	}
}

func TestDefaultUpgrades(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(cfg.Upgrades)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []Kind{KindSpeed, KindCapacity, KindHoneyRate, KindBeeCount} {
		if _, ok := s.Get(k); !ok {
			t.Errorf("default shop missing %s", k)
		}
	}
}
