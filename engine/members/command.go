package members

import (
	"github.com/AntonStoeckl/library-lending-go/store"
)

const (
	createCommandType = "CreateMember"
	updateCommandType = "UpdateMember"
	deleteCommandType = "DeleteMember"
)

// CreateCommand represents the intent to register a new member.
type CreateCommand struct {
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Phone     *string     `json:"phone"`
	JoinDate  *store.Date `json:"join_date"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c CreateCommand) CommandType() string {
	return createCommandType
}

// UpdateCommand overwrites the attributes present in Patch.
type UpdateCommand struct {
	MemberID int64
	Patch    store.MemberPatch
}

// CommandType returns the type identifier for this command.
func (c UpdateCommand) CommandType() string {
	return updateCommandType
}

// DeleteCommand removes a member together with its returned loans.
type DeleteCommand struct {
	MemberID int64
}

// CommandType returns the type identifier for this command.
func (c DeleteCommand) CommandType() string {
	return deleteCommandType
}
