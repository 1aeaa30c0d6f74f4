// Package books maintains the catalog and the links between books and their authors.
//
// Business Rules:
//
//	isbn is unique across all books (Conflict)
//	a category reference must name an existing category (InvalidReference)
//	copies_available defaults to 1 and never drops below 0 (InvalidInput)
//	a book with an active loan cannot be deleted (Conflict)
//	linking an existing link and unlinking a missing one change nothing and succeed
package books
