package types

import "time"

type Sponsor struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Contact   string    `db:"contact"`
	CreatedAt time.Time `db:"created_at"`
}

// AssignmentRecord binds a sponsor to an applicant. Rows only ever get
// appended; there is no unassign operation.
type AssignmentRecord struct {
	ID               string    `db:"id"`
	SponsorID        string    `db:"sponsor_id"`
	ApplicantID      string    `db:"applicant_id"`
	ApplicantContact string    `db:"applicant_contact"`
	CreatedAt        time.Time `db:"created_at"`
}

// AssignedApplicant is the sponsor dashboard view: the assignment joined
// with the applicant's current case and fee entries.
type AssignedApplicant struct {
	Assignment AssignmentRecord `json:"assignment"`
	Case       *Case            `json:"case,omitempty"`
	FeeEntries []*FeeEntry      `json:"feeEntries"`
}
