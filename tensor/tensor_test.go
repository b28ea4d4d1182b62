package tensor

import "testing"

func TestNewShape(t *testing.T) {
	t1 := New(2, 3)
	if len(t1.Data) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(t1.Data))
	}
	if len(t1.Shape) != 2 || t1.Shape[0] != 2 || t1.Shape[1] != 3 {
		t.Fatalf("unexpected shape: %v", t1.Shape)
	}
}

func TestAdd(t *testing.T) {
	a := &Tensor{Data: []float64{1, 2, 3}, Shape: []int{3}}
	b := &Tensor{Data: []float64{4, 5, 6}, Shape: []int{3}}
	c, err := Add(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{5, 7, 9}
	for i := range want {
		if c.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c.Data[i], want[i])
		}
	}
}

func TestAddShapeMismatch(t *testing.T) {
	a := New(3)
	b := New(2, 2)
	if _, err := Add(a, b); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestMatMul(t *testing.T) {
	a := &Tensor{Data: []float64{1, 2, 3, 4}, Shape: []int{2, 2}}
	b := &Tensor{Data: []float64{5, 6, 7, 8}, Shape: []int{2, 2}}
	c, err := MatMul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{19, 22, 43, 50}
	for i := range want {
		if c.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, c.Data[i], want[i])
		}
	}
}

func TestReshapeRoundTrip(t *testing.T) {
	a := New(4, 4)
	for i := range a.Data {
		a.Data[i] = float64(i)
	}
	flat, err := a.Reshape(16)
	if err != nil {
		t.Fatal(err)
	}
	back, err := flat.Reshape(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Data {
		if back.Data[i] != a.Data[i] {
			t.Errorf("at %d, got %f, want %f", i, back.Data[i], a.Data[i])
		}
	}
	if _, err := a.Reshape(5, 3); err == nil {
		t.Fatal("expected error for incompatible reshape")
	}
}

func TestClamp(t *testing.T) {
	a := &Tensor{Data: []float64{-5, 100, 300}, Shape: []int{3}}
	a.Clamp(0, 255)
	want := []float64{0, 100, 255}
	for i := range want {
		if a.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, a.Data[i], want[i])
		}
	}
}

func TestScale(t *testing.T) {
	a := &Tensor{Data: []float64{0, 2, 5}, Shape: []int{3}}
	a.Scale(0.5)
	want := []float64{0, 1, 2.5}
	for i := range want {
		if a.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, a.Data[i], want[i])
		}
	}
}

func TestRowSetRow(t *testing.T) {
	m := New(2, 3)
	m.SetRow(1, NewWithData([]float64{7, 8, 9}))
	r := m.Row(1)
	want := []float64{7, 8, 9}
	for i := range want {
		if r.Data[i] != want[i] {
			t.Errorf("at %d, got %f, want %f", i, r.Data[i], want[i])
		}
	}
	if m.At(0, 0) != 0 {
		t.Errorf("row 0 should be untouched, got %f", m.At(0, 0))
	}
}
