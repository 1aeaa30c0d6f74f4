// Package members registers, updates and removes library members.
//
// Business Rules:
//
//	email is unique across all members (Conflict)
//	join date defaults to the store's current date
//	a member with an active loan cannot be deleted (Conflict), returned loans do not block
package members
