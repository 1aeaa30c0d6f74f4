package books

import "github.com/AntonStoeckl/library-lending-go/store"

const (
	createCommandType       = "CreateBook"
	updateCommandType       = "UpdateBook"
	deleteCommandType       = "DeleteBook"
	linkAuthorCommandType   = "LinkAuthor"
	unlinkAuthorCommandType = "UnlinkAuthor"

	defaultCopies = 1
)

// CreateCommand represents the intent to add a title to the catalog.
// A nil CopiesAvailable puts one copy on the shelf.
type CreateCommand struct {
	Title           string `json:"title"`
	ISBN            string `json:"isbn"`
	PublishedYear   *int   `json:"published_year"`
	CategoryID      *int64 `json:"category_id"`
	CopiesAvailable *int   `json:"copies_available"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c CreateCommand) CommandType() string {
	return createCommandType
}

// UpdateCommand overwrites the attributes present in Patch.
type UpdateCommand struct {
	BookID int64
	Patch  store.BookPatch
}

// CommandType returns the type identifier for this command.
func (c UpdateCommand) CommandType() string {
	return updateCommandType
}

// DeleteCommand removes a book that is not on loan.
type DeleteCommand struct {
	BookID int64
}

// CommandType returns the type identifier for this command.
func (c DeleteCommand) CommandType() string {
	return deleteCommandType
}

// LinkAuthorCommand records that an author wrote a book.
type LinkAuthorCommand struct {
	BookID   int64
	AuthorID int64
}

// CommandType returns the type identifier for this command.
func (c LinkAuthorCommand) CommandType() string {
	return linkAuthorCommandType
}

// UnlinkAuthorCommand removes the link between a book and an author.
type UnlinkAuthorCommand struct {
	BookID   int64
	AuthorID int64
}

// CommandType returns the type identifier for this command.
func (c UnlinkAuthorCommand) CommandType() string {
	return unlinkAuthorCommandType
}
