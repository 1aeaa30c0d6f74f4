// Package authors maintains authors. Deleting an author removes its links to books and leaves the books.
package authors

import "github.com/AntonStoeckl/library-lending-go/store"

const (
	createCommandType = "CreateAuthor"
	updateCommandType = "UpdateAuthor"
	deleteCommandType = "DeleteAuthor"
)

// CreateCommand represents the intent to add an author.
type CreateCommand struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CommandType returns the type identifier for this command.
func (c CreateCommand) CommandType() string {
	return createCommandType
}

// UpdateCommand overwrites the attributes present in Patch.
type UpdateCommand struct {
	AuthorID int64
	Patch    store.AuthorPatch
}

// CommandType returns the type identifier for this command.
func (c UpdateCommand) CommandType() string {
	return updateCommandType
}

// DeleteCommand removes an author and its book links.
type DeleteCommand struct {
	AuthorID int64
}

// CommandType returns the type identifier for this command.
func (c DeleteCommand) CommandType() string {
	return deleteCommandType
}
