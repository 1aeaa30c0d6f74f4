package gateway

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-lending-go/engine/authors"
	"github.com/AntonStoeckl/library-lending-go/engine/query"
)

func (s *server) createAuthor(c *fiber.Ctx) error {
	var command authors.CreateCommand
	if err := parseBody(c, &command); err != nil {
		return err
	}

	author, err := s.library.CreateAuthor(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(author)
}

func (s *server) listAuthors(c *fiber.Ctx) error {
	var params pageParams
	if err := parseQuery(c, &params); err != nil {
		return err
	}

	list, err := s.library.ListAuthors(c.UserContext(), query.ListAuthorsQuery{Page: params.page()})
	if err != nil {
		return err
	}

	return c.JSON(nonNil(list))
}

func (s *server) getAuthor(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	author, err := s.library.GetAuthor(c.UserContext(), query.GetAuthorQuery{AuthorID: id})
	if err != nil {
		return err
	}

	return c.JSON(author)
}

func (s *server) updateAuthor(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	command := authors.UpdateCommand{AuthorID: id}
	if err := parseBody(c, &command.Patch); err != nil {
		return err
	}

	author, err := s.library.UpdateAuthor(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(author)
}

func (s *server) deleteAuthor(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if _, err := s.library.DeleteAuthor(c.UserContext(), authors.DeleteCommand{AuthorID: id}); err != nil {
		return err
	}

	return deleted(c, "Author")
}

func (s *server) booksOfAuthor(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	list, err := s.library.BooksOfAuthor(c.UserContext(), query.BooksOfAuthorQuery{AuthorID: id})
	if err != nil {
		return err
	}

	return c.JSON(nonNil(list))
}
