package domain

// Actor is the authenticated identity performing an operation. It is
// resolved upstream from the JWT and trusted as-is.
type Actor struct {
	ID      int64
	Email   string
	Role    Role
	SubType string
}

type Action string

const (
	ActionUpdateRoomState   Action = "update_room_state"
	ActionCreateReservation Action = "create_reservation"
	ActionDecideReservation Action = "approve_or_deny_reservation"
)

// CanPerform is the pure authorization gate: no side effects, no I/O.
// Facility and student-affairs admins maintain room state; any admin
// decides reservations; any authenticated actor may request one.
func CanPerform(actor Actor, action Action) bool {
	switch action {
	case ActionCreateReservation:
		return actor.ID != 0
	case ActionDecideReservation:
		return actor.Role == RoleAdmin
	case ActionUpdateRoomState:
		if actor.Role != RoleAdmin {
			return false
		}
		return actor.SubType == string(AdminFacility) || actor.SubType == string(AdminStudentAffairs)
	default:
		return false
	}
}
