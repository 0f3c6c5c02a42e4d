package delegate

import "testing"

func TestDelegateOrderAndRemove(t *testing.T) {
	var d Delegate[int]
	var calls []string
	d.Add(func(v int) { calls = append(calls, "a") })
	h := d.Add(func(v int) { calls = append(calls, "b") })
	d.Add(func(v int) { calls = append(calls, "c") })

	d.Fire(1)
	if got := len(calls); got != 3 || calls[0] != "a" || calls[2] != "c" {
		t.Fatalf("calls = %v", calls)
	}

	if !d.Remove(h) {
		t.Fatal("Remove returned false")
	}
	if d.Remove(h) {
		t.Error("second Remove should return false")
	}
	calls = nil
	d.Fire(2)
	if len(calls) != 2 || calls[1] != "c" {
		t.Errorf("after remove calls = %v", calls)
	}

	d.Clear()
	if d.Len() != 0 {
		t.Errorf("Len after Clear = %d", d.Len())
	}
}

func TestDelegateAddDuringFire(t *testing.T) {
	var d Delegate[string]
	count := 0
	d.Add(func(string) {
		count++
		d.Add(func(string) { count++ })
	})
	d.Fire("x")
	if count != 1 {
		t.Errorf("count after first fire = %d, want 1", count)
	}
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
	if d.Add(nil) != 0 {
		t.Error("Add(nil) should return the zero handle")
	}
}
