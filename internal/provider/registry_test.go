package provider

import (
	"errors"
	"testing"
)

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry("http://localhost:8080")

	p, err := r.Resolve(KindOpenAI)
	if err != nil {
		t.Fatalf("Resolve(openai) error = %v", err)
	}
	if p.Kind() != KindOpenAI {
		t.Errorf("Kind() = %s, want %s", p.Kind(), KindOpenAI)
	}

	again, err := r.Resolve(KindOpenAI)
	if err != nil {
		t.Fatalf("Resolve(openai) second call error = %v", err)
	}
	if again != p {
		t.Error("Resolve() should return the cached instance")
	}
}

func TestRegistry_Resolve_Local(t *testing.T) {
	r := NewRegistry("http://localhost:8080")
	if _, err := r.Resolve(KindLocal); err != nil {
		t.Fatalf("Resolve(local) error = %v", err)
	}

	bare := NewRegistry("")
	_, err := bare.Resolve(KindLocal)
	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Errorf("Resolve(local) without base URL error = %v, want ConfigurationError", err)
	}
}

func TestRegistry_Resolve_Unknown(t *testing.T) {
	r := NewRegistry("")
	_, err := r.Resolve(Kind("bogus"))
	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Errorf("Resolve(bogus) error = %v, want ConfigurationError", err)
	}
}
