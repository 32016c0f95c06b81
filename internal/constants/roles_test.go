package constants

import "testing"

func TestStudentDeveloperIsNeverOfferedAdminActions(t *testing.T) {
	if RoleStudentDeveloper.Can(CapCreateEvent) {
		t.Error("Student Developer must not hold CreateEvent")
	}
	if RoleStudentDeveloper.Can(CapApproveRegistration) {
		t.Error("Student Developer must not hold ApproveRegistration")
	}
	if RoleStudentDeveloper.Can(CapViewAdminPanel) {
		t.Error("Student Developer must not hold ViewAdminPanel")
	}
}

func TestPrivilegedRolesHoldAdminCapabilities(t *testing.T) {
	for _, role := range []Role{RoleProjectLeader, RoleMentor} {
		for _, cap := range []Capability{CapCreateEvent, CapApproveRegistration, CapViewAdminPanel} {
			if !role.Can(cap) {
				t.Errorf("Expected %s to hold %s", role, cap)
			}
		}
	}
}

func TestEveryRoleHoldsBaseCapabilities(t *testing.T) {
	for _, role := range []Role{RoleStudentDeveloper, RoleProjectLeader, RoleMentor} {
		for _, cap := range []Capability{CapRSVP, CapCreateTask, CapSendMessage, CapCreateProject} {
			if !role.Can(cap) {
				t.Errorf("Expected %s to hold %s", role, cap)
			}
		}
	}
}

func TestCapabilityTableIsTotal(t *testing.T) {
	for _, role := range []Role{RoleStudentDeveloper, RoleProjectLeader, RoleMentor} {
		if _, ok := roleCapabilities[role]; !ok {
			t.Errorf("Role %s has no capability row", role)
		}
	}
}

func TestUnknownRoleGetsNothing(t *testing.T) {
	unknown := Role("Treasurer")
	if unknown.IsValid() {
		t.Error("Expected unknown role to be invalid")
	}
	if unknown.Can(CapSendMessage) {
		t.Error("Unknown role must not hold any capability")
	}
	if len(unknown.Capabilities()) != 0 {
		t.Error("Unknown role must have an empty capability set")
	}
}
