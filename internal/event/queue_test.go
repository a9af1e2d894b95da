package event

import (
	"errors"
	"sync"
	"testing"
)

func TestQueue_PostClonesBorrowedPayload(t *testing.T) {
	q := NewQueue()
	data := &countData{n: 5}

	q.Post(Borrow(testID, data))
	data.n = 99 // the borrowed value changes after its dispatch

	d := NewDispatcher()
	var got int
	_ = d.AddEventListener(testID, nil, func(evt Event) error {
		if evt.Borrowed() {
			t.Error("flushed event is still borrowed")
		}
		cd, _ := DataAs[*countData](evt)
		got = cd.n
		return nil
	})

	if err := q.Flush(d); err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("flushed payload n = %d, want 5", got)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after flush", q.Len())
	}
}

func TestQueue_FlushOrderAndReposts(t *testing.T) {
	q := NewQueue()
	d := NewDispatcher()
	first, second := Register("test.q1"), Register("test.q2")
	var order []ID

	_ = d.AddEventListener(first, nil, func(evt Event) error {
		order = append(order, evt.ID())
		q.Post(New(first)) // waits for the next flush
		return nil
	})
	_ = d.AddEventListener(second, nil, func(evt Event) error {
		order = append(order, evt.ID())
		return nil
	})

	q.Post(New(first))
	q.Post(New(second))

	if err := q.Flush(d); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != first || order[1] != second {
		t.Errorf("order = %v, want [%v %v]", order, first, second)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1 reposted event", q.Len())
	}
}

func TestQueue_FlushReturnsFirstError(t *testing.T) {
	q := NewQueue()
	d := NewDispatcher()
	failing, ok := Register("test.qfail"), Register("test.qok")
	boom := errors.New("boom")
	delivered := false

	_ = d.AddEventListener(failing, nil, func(Event) error { return boom })
	_ = d.AddEventListener(ok, nil, func(Event) error { delivered = true; return nil })

	q.Post(New(failing))
	q.Post(New(ok))

	if err := q.Flush(d); !errors.Is(err, boom) {
		t.Errorf("Flush() error = %v, want boom", err)
	}
	if !delivered {
		t.Error("events after a failure should still be dispatched")
	}
}

func TestQueue_ConcurrentPost(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Post(New(testID))
			}
		}()
	}
	wg.Wait()

	if q.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", q.Len())
	}
}
