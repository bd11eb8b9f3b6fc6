package enums

import "testing"

func TestMapBackendRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"administrador", RoleAdmin},
		{"Domiciliario", RoleDriver},
		{" repartidor ", RoleDriver},
		{"AUXILIAR", RoleAssistant},
		{"cliente", RoleUser},
		{"", RoleUser},
		{"SUPERVISOR", RoleUser},
	}
	for _, tt := range tests {
		if got := MapBackendRole(tt.in); got != tt.want {
			t.Fatalf("MapBackendRole(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole(" Driver "); err != nil || r != RoleDriver {
		t.Fatalf("unexpected role %s err %v", r, err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if RoleNone.Authenticated() || !RoleUser.Authenticated() {
		t.Fatalf("authenticated flag mismatch")
	}
}

func TestOrderStatus(t *testing.T) {
	if got := NormalizeOrderStatus(" enviado "); got != OrderStatusShipped {
		t.Fatalf("unexpected normalization %q", got)
	}
	if OrderStatus("EN_CAMINO").Bucket() != OrderStatusOther {
		t.Fatalf("unknown statuses belong to the OTRO bucket")
	}
	if OrderStatusAccepted.Bucket() != "ACEPTADO" {
		t.Fatalf("known statuses are their own bucket")
	}
	if OrderStatusDelivered.Active() || OrderStatusDeleted.Active() || !OrderStatusShipped.Active() {
		t.Fatalf("active flag mismatch")
	}
	if _, err := ParseOrderStatus("EN_CAMINO"); err == nil {
		t.Fatalf("expected parse error for unknown status")
	}
}
