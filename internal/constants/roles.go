package constants

// Role mirrors the role strings carried on member records
type Role string

const (
	RoleStudentDeveloper Role = "Student Developer"
	RoleProjectLeader    Role = "Project Leader"
	RoleMentor           Role = "Mentor"
)

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }

// IsValid reports whether r is one of the known club roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudentDeveloper, RoleProjectLeader, RoleMentor:
		return true
	}
	return false
}

// Capability is a named permission gating whether an action is offered.
type Capability string

const (
	CapCreateEvent         Capability = "create_event"
	CapApproveRegistration Capability = "approve_registration"
	CapViewAdminPanel      Capability = "view_admin_panel"
	CapCreateProject       Capability = "create_project"
	CapCreateTask          Capability = "create_task"
	CapRSVP                Capability = "rsvp"
	CapSendMessage         Capability = "send_message"
)

// roleCapabilities is the total capability table. Every role has an
// explicit row; adding a role without one is caught by the tests.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleStudentDeveloper: {
		CapCreateProject: true,
		CapCreateTask:    true,
		CapRSVP:          true,
		CapSendMessage:   true,
	},
	RoleProjectLeader: {
		CapCreateEvent:         true,
		CapApproveRegistration: true,
		CapViewAdminPanel:      true,
		CapCreateProject:       true,
		CapCreateTask:          true,
		CapRSVP:                true,
		CapSendMessage:         true,
	},
	RoleMentor: {
		CapCreateEvent:         true,
		CapApproveRegistration: true,
		CapViewAdminPanel:      true,
		CapCreateProject:       true,
		CapCreateTask:          true,
		CapRSVP:                true,
		CapSendMessage:         true,
	},
}

// Can reports whether the role grants the capability. Unknown roles get
// nothing. The check is advisory on the client; the backend enforces
// independently.
func (r Role) Can(c Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[c]
}

// Capabilities returns the capability set granted to a role.
func (r Role) Capabilities() []Capability {
	caps := roleCapabilities[r]
	out := make([]Capability, 0, len(caps))
	for c, granted := range caps {
		if granted {
			out = append(out, c)
		}
	}
	return out
}
