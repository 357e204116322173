package types

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleSponsor   Role = "sponsor"
	RoleReviewer  Role = "reviewer"
)

// Actor is the verified identity performing a workflow operation. It is
// built server-side from the session token and passed explicitly into
// every service call; role data from the request body is never trusted.
type Actor struct {
	ID      string
	Contact string
	Role    Role
}

func (a Actor) IsReviewer() bool {
	return a.Role == RoleReviewer
}
