package auth

import "testing"

func TestRole_Valid(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleAdmin, RoleModerator} {
		if !role.Valid() {
			t.Errorf("expected %q to be valid", role)
		}
	}
	for _, role := range []Role{"", "root", "Admin", "superadmin"} {
		if role.Valid() {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, status := range []Status{StatusActive, StatusInactive, StatusSuspended} {
		if !status.Valid() {
			t.Errorf("expected %q to be valid", status)
		}
	}
	for _, status := range []Status{"", "deleted", "Active"} {
		if status.Valid() {
			t.Errorf("expected %q to be invalid", status)
		}
	}
}

func TestAllCapabilities(t *testing.T) {
	caps := AllCapabilities()
	if len(caps) != 5 {
		t.Fatalf("expected 5 capabilities, got %d", len(caps))
	}
	seen := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		if seen[c] {
			t.Errorf("duplicate capability %q", c)
		}
		seen[c] = true
	}
	if !seen[CapManageAdmins] {
		t.Error("canManageAdmins missing from AllCapabilities")
	}
}
