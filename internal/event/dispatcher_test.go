package event

import (
	"errors"
	"reflect"
	"testing"
)

var testID = Register("test.dispatch")

// recorder collects the names of listeners in call order.
type recorder struct {
	calls []string
}

func (r *recorder) listener(name string) Listener {
	return func(Event) error {
		r.calls = append(r.calls, name)
		return nil
	}
}

// owner is a distinct comparable identity for tests.
type owner struct{ name string }

func TestDispatcher_DispatchOrder(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}

	for _, name := range []string{"a", "b", "c"} {
		if err := d.AddEventListener(testID, &owner{name}, rec.listener(name)); err != nil {
			t.Fatalf("AddEventListener(%s) error = %v", name, err)
		}
	}

	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestDispatcher_UnknownID(t *testing.T) {
	d := NewDispatcher()
	if err := d.Dispatch(New(Register("test.nobody"))); err != nil {
		t.Errorf("Dispatch() to empty route error = %v", err)
	}
}

func TestDispatcher_Duplicate(t *testing.T) {
	d := NewDispatcher()
	o := &owner{"x"}
	fn := func(Event) error { return nil }

	if err := d.AddEventListener(testID, o, fn); err != nil {
		t.Fatalf("first AddEventListener() error = %v", err)
	}
	if err := d.AddEventListener(testID, o, fn); !errors.Is(err, ErrDuplicateListener) {
		t.Errorf("second AddEventListener() error = %v, want ErrDuplicateListener", err)
	}

	// Same callback with another owner is a different registration.
	if err := d.AddEventListener(testID, &owner{"y"}, fn); err != nil {
		t.Errorf("AddEventListener() with other owner error = %v", err)
	}
	if got := d.ListenerCount(testID); got != 2 {
		t.Errorf("ListenerCount() = %d, want 2", got)
	}
}

type handlerObj struct {
	hits int
}

func (h *handlerObj) OnEvent(Event) error {
	h.hits++
	return nil
}

func TestDispatcher_MethodValues(t *testing.T) {
	d := NewDispatcher()
	h1, h2 := &handlerObj{}, &handlerObj{}

	if err := d.AddEventListener(testID, h1, h1.OnEvent); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEventListener(testID, h2, h2.OnEvent); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEventListener(testID, h1, h1.OnEvent); !errors.Is(err, ErrDuplicateListener) {
		t.Errorf("re-adding method value error = %v, want ErrDuplicateListener", err)
	}

	d.RemoveEventListener(testID, h1, h1.OnEvent)
	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}

	if h1.hits != 0 || h2.hits != 1 {
		t.Errorf("hits = (%d, %d), want (0, 1)", h1.hits, h2.hits)
	}
}

func TestDispatcher_ClosuresFromOneLiteral(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}

	// rec.listener builds every closure from the same literal.
	if err := d.AddEventListener(testID, nil, rec.listener("a")); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEventListener(testID, nil, rec.listener("b")); !errors.Is(err, ErrDuplicateListener) {
		t.Errorf("second closure with nil owner error = %v, want ErrDuplicateListener", err)
	}
	if err := d.AddEventListener(testID, &owner{"b"}, rec.listener("b")); err != nil {
		t.Errorf("second closure with own owner error = %v", err)
	}

	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestDispatcher_AddErrors(t *testing.T) {
	d := NewDispatcher()

	if err := d.AddEventListener(testID, nil, nil); !errors.Is(err, ErrNilListener) {
		t.Errorf("nil listener error = %v, want ErrNilListener", err)
	}

	notComparable := []int{1}
	err := d.AddEventListener(testID, notComparable, func(Event) error { return nil })
	if !errors.Is(err, ErrInvalidOwner) {
		t.Errorf("slice owner error = %v, want ErrInvalidOwner", err)
	}
}

func TestDispatcher_RemoveUnknownIsNoop(t *testing.T) {
	d := NewDispatcher()
	fn := func(Event) error { return nil }

	d.RemoveEventListener(testID, nil, fn)
	d.RemoveEventListener(testID, []int{1}, fn)
	d.RemoveEventListener(testID, nil, nil)

	if d.HasListeners(testID) {
		t.Error("HasListeners() = true after no-op removals")
	}
}

func TestDispatcher_SelfRemovalDuringDispatch(t *testing.T) {
	d := NewDispatcher()
	o := &owner{"self"}
	calls := 0

	var self Listener
	self = func(Event) error {
		calls++
		d.RemoveEventListener(testID, o, self)
		return nil
	}
	if err := d.AddEventListener(testID, o, self); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	if err := d.AddEventListener(testID, nil, rec.listener("after")); err != nil {
		t.Fatal(err)
	}

	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}
	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("self-removing listener called %d times, want 1", calls)
	}
	if len(rec.calls) != 2 {
		t.Errorf("following listener called %d times, want 2", len(rec.calls))
	}
}

func TestDispatcher_RemovalOfLaterListenerUsesSnapshot(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}
	victim := rec.listener("victim")
	victimOwner := &owner{"victim"}

	remover := func(Event) error {
		d.RemoveEventListener(testID, victimOwner, victim)
		return nil
	}
	if err := d.AddEventListener(testID, nil, remover); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEventListener(testID, victimOwner, victim); err != nil {
		t.Fatal(err)
	}

	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}
	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}

	// Registered when the first dispatch began, gone for the second.
	if len(rec.calls) != 1 {
		t.Errorf("victim called %d times, want 1", len(rec.calls))
	}
}

func TestDispatcher_AddDuringDispatch(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}
	added := rec.listener("added")
	addedOwner := &owner{"added"}

	adder := func(Event) error {
		err := d.AddEventListener(testID, addedOwner, added)
		if err != nil && !errors.Is(err, ErrDuplicateListener) {
			return err
		}
		return nil
	}
	if err := d.AddEventListener(testID, nil, adder); err != nil {
		t.Fatal(err)
	}

	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("listener added during dispatch ran in the same dispatch")
	}

	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("added listener called %d times on next dispatch, want 1", len(rec.calls))
	}
}

func TestDispatcher_RecursiveDispatch(t *testing.T) {
	d := NewDispatcher()
	inner := Register("test.inner")
	rec := &recorder{}

	outer := func(Event) error {
		rec.calls = append(rec.calls, "outer-start")
		if err := d.Dispatch(New(inner)); err != nil {
			return err
		}
		rec.calls = append(rec.calls, "outer-end")
		return nil
	}
	depth := 0
	again := func(Event) error {
		depth++
		if depth < 3 {
			return d.Dispatch(New(inner))
		}
		return nil
	}

	if err := d.AddEventListener(testID, nil, outer); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEventListener(inner, nil, rec.listener("inner")); err != nil {
		t.Fatal(err)
	}
	if err := d.AddEventListener(inner, nil, again); err != nil {
		t.Fatal(err)
	}

	if err := d.Dispatch(New(testID)); err != nil {
		t.Fatal(err)
	}

	want := []string{"outer-start", "inner", "inner", "inner", "outer-end"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestDispatcher_ErrorAbortsRemainder(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}
	boom := errors.New("boom")

	_ = d.AddEventListener(testID, &owner{"1"}, rec.listener("first"))
	_ = d.AddEventListener(testID, nil, func(Event) error { return boom })
	_ = d.AddEventListener(testID, &owner{"3"}, rec.listener("third"))

	err := d.Dispatch(New(testID))

	var lerr *ListenerError
	if !errors.As(err, &lerr) {
		t.Fatalf("Dispatch() error = %v, want *ListenerError", err)
	}
	if lerr.Index != 1 || lerr.ID != testID {
		t.Errorf("ListenerError = %+v, want index 1 for %s", lerr, testID)
	}
	if !errors.Is(err, boom) {
		t.Error("errors.Is(err, boom) = false")
	}
	if !reflect.DeepEqual(rec.calls, []string{"first"}) {
		t.Errorf("calls = %v, want [first]", rec.calls)
	}
}

func TestDispatcher_PanicRecovered(t *testing.T) {
	d := NewDispatcher()
	rec := &recorder{}

	_ = d.AddEventListener(testID, nil, func(Event) error { panic("kaboom") })
	_ = d.AddEventListener(testID, &owner{"next"}, rec.listener("next"))

	err := d.Dispatch(New(testID))
	if !errors.Is(err, ErrListenerPanic) {
		t.Fatalf("Dispatch() error = %v, want ErrListenerPanic", err)
	}
	var perr *PanicError
	if !errors.As(err, &perr) || perr.Value != "kaboom" || perr.Stack == "" {
		t.Errorf("PanicError = %+v", perr)
	}
	if len(rec.calls) != 0 {
		t.Error("listener after panic should be skipped")
	}

	stats := d.Stats()
	if stats.Panics != 1 || stats.Failures != 1 {
		t.Errorf("Stats() = %+v, want 1 panic and 1 failure", stats)
	}
}

func TestDispatcher_PayloadNotCloned(t *testing.T) {
	d := NewDispatcher()
	payload := &countData{n: 7}
	var seen []Data

	for i := 0; i < 3; i++ {
		_ = d.AddEventListener(testID, i, func(evt Event) error {
			seen = append(seen, evt.Data())
			return nil
		})
	}

	if err := d.Dispatch(Borrow(testID, payload)); err != nil {
		t.Fatal(err)
	}
	if payload.clones != 0 {
		t.Errorf("payload cloned %d times during dispatch", payload.clones)
	}
	for i, s := range seen {
		if s != Data(payload) {
			t.Errorf("listener %d saw %p, want %p", i, s, payload)
		}
	}
}

func TestDispatcher_RemoveOwner(t *testing.T) {
	d := NewDispatcher()
	o := &owner{"bulk"}
	other := Register("test.other")

	_ = d.AddEventListener(testID, o, func(Event) error { return nil })
	_ = d.AddEventListener(other, o, func(Event) error { return nil })
	_ = d.AddEventListener(testID, nil, func(Event) error { return nil })

	if got := d.RemoveOwner(o); got != 2 {
		t.Errorf("RemoveOwner() = %d, want 2", got)
	}
	if d.HasListeners(other) {
		t.Error("route for other should be gone")
	}
	if got := d.ListenerCount(testID); got != 1 {
		t.Errorf("ListenerCount() = %d, want 1", got)
	}
	if got := d.Stats().Routes; got != 1 {
		t.Errorf("Stats().Routes = %d, want 1", got)
	}
}
