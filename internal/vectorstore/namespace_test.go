package vectorstore

import "testing"

func TestNamespaceName(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		want     string
		wantErr  bool
	}{
		{name: "uuid tenant", tenantID: "5f1c9b2e-1a2b-4c3d-8e9f-001122334455", want: "tenant_5f1c9b2e-1a2b-4c3d-8e9f-001122334455"},
		{name: "alphanumeric tenant", tenantID: "bot42", want: "tenant_bot42"},
		{name: "underscores allowed", tenantID: "bot_42", want: "tenant_bot_42"},
		{name: "empty tenant", tenantID: "", wantErr: true},
		{name: "leading dash", tenantID: "-bot", wantErr: true},
		{name: "path traversal", tenantID: "../other", wantErr: true},
		{name: "spaces", tenantID: "bot 42", wantErr: true},
		{name: "wildcard", tenantID: "*", wantErr: true},
		{name: "too long", tenantID: "a123456789a123456789a123456789a123456789a123456789a123456789a1234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamespaceName(tt.tenantID)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NamespaceName(%q) expected error, got %q", tt.tenantID, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NamespaceName(%q) error = %v", tt.tenantID, err)
			}
			if got != tt.want {
				t.Errorf("NamespaceName(%q) = %q, want %q", tt.tenantID, got, tt.want)
			}
		})
	}
}

func TestNamespaceName_Deterministic(t *testing.T) {
	a, err := NamespaceName("bot-1")
	if err != nil {
		t.Fatalf("NamespaceName() error = %v", err)
	}
	b, err := NamespaceName("bot-1")
	if err != nil {
		t.Fatalf("NamespaceName() error = %v", err)
	}
	if a != b {
		t.Errorf("NamespaceName() not deterministic: %q vs %q", a, b)
	}
}
