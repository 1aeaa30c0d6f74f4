package engine_test

import "github.com/AntonStoeckl/library-lending-go/engine/authors"

func authorCommand(firstName, lastName string) authors.CreateCommand {
	return authors.CreateCommand{FirstName: firstName, LastName: lastName}
}
