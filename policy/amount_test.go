package policy_test

import (
	"testing"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

func TestAmount_NullVersusZero(t *testing.T) {
	null := policy.NullAmount()
	zero := policy.NewAmount(0)

	if !null.IsNull() || null.IsZero() {
		t.Error("NullAmount should be null, not zero")
	}
	if zero.IsNull() || !zero.IsZero() {
		t.Error("NewAmount(0) should be a real zero, not null")
	}
	if null.Equal(zero) {
		t.Error("null and zero are distinct values")
	}
	if !null.Equal(policy.NullAmount()) {
		t.Error("two nulls compare equal")
	}
}

func TestAmount_ArithmeticPropagatesNull(t *testing.T) {
	a, null := policy.NewAmount(10), policy.NullAmount()

	if !a.Add(null).IsNull() || !null.Sub(a).IsNull() || !a.Mul(null).IsNull() {
		t.Error("arithmetic with a null operand should be null")
	}
	got := policy.NewAmount(3).Add(policy.NewAmount(4))
	if got.IsNull() || got.Float64() != 7 {
		t.Errorf("expected 7, got %s", got.String())
	}
}

func TestAmount_OrZeroAndFloatPtr(t *testing.T) {
	if !policy.NullAmount().OrZero().IsZero() {
		t.Error("OrZero on null should be zero")
	}
	if policy.NullAmount().FloatPtr() != nil {
		t.Error("FloatPtr on null should be nil")
	}
	p := policy.NewAmount(2.5).FloatPtr()
	if p == nil || *p != 2.5 {
		t.Errorf("expected 2.5, got %v", p)
	}
}

func TestNewAmountFromString(t *testing.T) {
	if got := policy.NewAmountFromString("123.45"); got.IsNull() || got.Float64() != 123.45 {
		t.Errorf("expected 123.45, got %s", got.String())
	}
	if got := policy.NewAmountFromString("not-a-number"); !got.IsNull() {
		t.Errorf("unparseable input should be null, got %s", got.String())
	}
	if got := policy.NewAmountFromString(""); !got.IsNull() {
		t.Errorf("empty input should be null, got %s", got.String())
	}
}
