package domain

import "testing"

func TestPricePutRead_RoundTrip(t *testing.T) {
	for _, p := range []Price{PriceMinValue, -1, 0, 1, 15000, PriceMaxValue} {
		b := make([]byte, PriceSize)
		p.Put(b)
		if got := ReadPrice(b); got != p {
			t.Errorf("price %d round-tripped to %d", p, got)
		}
	}
}

func TestQuantityPutRead_RoundTrip(t *testing.T) {
	for _, q := range []Quantity{QuantityMinValue, -1, 0, 1, 500, QuantityMaxValue} {
		b := make([]byte, QuantitySize)
		q.Put(b)
		if got := ReadQuantity(b); got != q {
			t.Errorf("quantity %d round-tripped to %d", q, got)
		}
	}
}

func TestOrderIdPutRead_RoundTrip(t *testing.T) {
	for _, id := range []OrderId{OrderIdMinValue, 1, 42, OrderIdMaxValue} {
		b := make([]byte, OrderIdSize)
		id.Put(b)
		if got := ReadOrderId(b); got != id {
			t.Errorf("order id %d round-tripped to %d", id, got)
		}
	}
}

func TestUserIdPutRead_RoundTrip(t *testing.T) {
	for _, id := range []UserId{UserIdMinValue, 7, UserIdMaxValue} {
		b := make([]byte, UserIdSize)
		id.Put(b)
		if got := ReadUserId(b); got != id {
			t.Errorf("user id %d round-tripped to %d", id, got)
		}
	}
}

func TestAmountPutRead_RoundTrip(t *testing.T) {
	for _, a := range []Amount{AmountMinValue, -1, 0, 75000, AmountMaxValue} {
		b := make([]byte, AmountSize)
		a.Put(b)
		if got := ReadAmount(b); got != a {
			t.Errorf("amount %d round-tripped to %d", a, got)
		}
	}
}

func TestValueTypes_LittleEndianLayout(t *testing.T) {
	b := make([]byte, PriceSize)
	Price(0x0102030405060708).Put(b)
	want := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x", i, want[i], b[i])
		}
	}
}

func TestIsMultipleOf(t *testing.T) {
	tests := []struct {
		value Quantity
		step  Quantity
		want  bool
	}{
		{100, 10, true},
		{105, 10, false},
		{0, 10, true},
		{100, 1, true},
		{100, 0, false},
		{100, -5, false},
	}
	for _, tc := range tests {
		if got := tc.value.IsMultipleOf(tc.step); got != tc.want {
			t.Errorf("Quantity(%d).IsMultipleOf(%d) = %v, want %v", tc.value, tc.step, got, tc.want)
		}
	}
	if !Price(15000).IsMultipleOf(100) {
		t.Error("expected 15000 to be a multiple of 100")
	}
	if Price(15050).IsMultipleOf(100) {
		t.Error("expected 15050 not to be a multiple of 100")
	}
}

func TestCost(t *testing.T) {
	if got := Cost(15000, 5); got != 75000 {
		t.Errorf("expected cost 75000, got %d", got)
	}
	if got := Cost(100, 0); got != 0 {
		t.Errorf("expected zero cost, got %d", got)
	}
}
