package patch

import (
	"encoding/json"
	"testing"
)

type samplePayload struct {
	Slug     Field[string]  `json:"slug"`
	ImageURL Field[*string] `json:"imageUrl"`
	Order    Field[int]     `json:"order"`
}

func TestField_OmittedKeyIsNotSupplied(t *testing.T) {
	var p samplePayload
	if err := json.Unmarshal([]byte(`{"slug":"novo-slug"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Slug.Supplied() || p.Slug.Value() != "novo-slug" {
		t.Fatalf("slug should be supplied with value, got %+v", p.Slug)
	}
	if p.ImageURL.Supplied() || p.Order.Supplied() {
		t.Fatalf("omitted keys must not count as supplied")
	}
}

func TestField_ExplicitNullIsSuppliedZero(t *testing.T) {
	var p samplePayload
	if err := json.Unmarshal([]byte(`{"imageUrl":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.ImageURL.Supplied() {
		t.Fatalf("explicit null must count as supplied")
	}
	if p.ImageURL.Value() != nil {
		t.Fatalf("explicit null must clear to zero value, got %v", p.ImageURL.Value())
	}
}

func TestField_ZeroValueDistinctFromOmitted(t *testing.T) {
	var p samplePayload
	if err := json.Unmarshal([]byte(`{"order":0}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Order.Supplied() {
		t.Fatalf("explicit zero must count as supplied")
	}
	if p.Order.Value() != 0 {
		t.Fatalf("got %d, want 0", p.Order.Value())
	}
}

func TestField_SetConstructor(t *testing.T) {
	f := Set("valor")
	if !f.Supplied() || f.Value() != "valor" {
		t.Fatalf("Set should mark the field supplied, got %+v", f)
	}
}
