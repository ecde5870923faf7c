package fixrec

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type orderFields struct {
	id, qty, price, active, side, symbol, seq, ref FieldID
}

// buildOrderSchema covers every supported kind and attribute.
func buildOrderSchema(t testing.TB) (*Schema, orderFields) {
	t.Helper()
	b := New("Order", 7, 2).Transactional()
	f := orderFields{
		id:     b.Int32("id").Key().ID(),
		qty:    b.Int64("qty").ID(),
		price:  b.Int32("price").Indexed().ID(),
		active: b.Bool("active").ID(),
		side:   b.Char16("side").ID(),
		symbol: b.FixedString("symbol", 9).Indexed().ID(),
		seq:    b.Int32("seq").Sequence().ID(),
		ref:    b.Int64("ref").Indexed().Unique().ID(),
	}
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return s, f
}

func deepEqual[T any](t testing.TB, a, e T) {
	t.Helper()
	if !reflect.DeepEqual(a, e) {
		t.Fatalf("got %v, wanted %v", a, e)
	}
}

func mustPanic(t testing.TB, substr string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("no panic, wanted panic containing %q", substr)
		}
		if substr != "" && !strings.Contains(fmt.Sprint(r), substr) {
			t.Fatalf("panic %q, wanted substring %q", fmt.Sprint(r), substr)
		}
	}()
	fn()
}
