package dto

import (
	"encoding/json"
	"testing"
)

func TestOptionalDistinguishesAbsentNullValue(t *testing.T) {
	type payload struct {
		Bio  Optional[string] `json:"bio"`
		City Optional[string] `json:"city"`
		Age  Optional[int]    `json:"age"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"bio": null, "city": "Berlin"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !p.Bio.Present || !p.Bio.Null {
		t.Errorf("bio: Present=%v Null=%v, want present explicit null", p.Bio.Present, p.Bio.Null)
	}
	if !p.City.Present || p.City.Null || p.City.Value != "Berlin" {
		t.Errorf("city: Present=%v Null=%v Value=%q, want present value", p.City.Present, p.City.Null, p.City.Value)
	}
	if p.Age.Present {
		t.Error("age was absent from the payload but decoded as present")
	}
}

func TestOptionalPtr(t *testing.T) {
	if Null[string]().Ptr() != nil {
		t.Error("explicit null should produce a nil pointer")
	}
	if (Optional[string]{}).Ptr() != nil {
		t.Error("absent field should produce a nil pointer")
	}

	p := Some("hello").Ptr()
	if p == nil || *p != "hello" {
		t.Errorf("Some(...).Ptr() = %v, want pointer to hello", p)
	}
}

func TestOptionalMarshal(t *testing.T) {
	raw, err := json.Marshal(Some(42))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "42" {
		t.Errorf("Some(42) marshals to %s", raw)
	}

	raw, err = json.Marshal(Null[int]())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "null" {
		t.Errorf("Null marshals to %s", raw)
	}
}
