// Package categories maintains the subject categories books are filed under.
//
// Category names are unique. Deleting a category is never blocked: its books stay in the catalog
// without a category.
package categories

import "github.com/AntonStoeckl/library-lending-go/store"

const (
	createCommandType = "CreateCategory"
	updateCommandType = "UpdateCategory"
	deleteCommandType = "DeleteCategory"
)

// CreateCommand represents the intent to add a category.
type CreateCommand struct {
	Name string `json:"category_name"`
}

// CommandType returns the type identifier for this command.
func (c CreateCommand) CommandType() string {
	return createCommandType
}

// UpdateCommand renames a category.
type UpdateCommand struct {
	CategoryID int64
	Patch      store.CategoryPatch
}

// CommandType returns the type identifier for this command.
func (c UpdateCommand) CommandType() string {
	return updateCommandType
}

// DeleteCommand removes a category.
type DeleteCommand struct {
	CategoryID int64
}

// CommandType returns the type identifier for this command.
func (c DeleteCommand) CommandType() string {
	return deleteCommandType
}
