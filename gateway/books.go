package gateway

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-lending-go/engine/books"
	"github.com/AntonStoeckl/library-lending-go/engine/query"
	"github.com/AntonStoeckl/library-lending-go/store"
)

func (s *server) createBook(c *fiber.Ctx) error {
	var command books.CreateCommand
	if err := parseBody(c, &command); err != nil {
		return err
	}

	book, err := s.library.CreateBook(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(book)
}

func (s *server) listBooks(c *fiber.Ctx) error {
	var params bookListParams
	if err := parseQuery(c, &params); err != nil {
		return err
	}

	list, err := s.library.ListBooks(c.UserContext(), query.ListBooksQuery{
		Page:       pageParams{Skip: params.Skip, Limit: params.Limit}.page(),
		CategoryID: params.CategoryID,
	})
	if err != nil {
		return err
	}

	return c.JSON(nonNil(list))
}

func (s *server) getBook(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	book, err := s.library.GetBook(c.UserContext(), query.GetBookQuery{BookID: id})
	if err != nil {
		return err
	}

	book.Authors = nonNil(book.Authors)

	return c.JSON(book)
}

func (s *server) updateBook(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	command := books.UpdateCommand{BookID: id}
	if err := parseBody(c, &command.Patch); err != nil {
		return err
	}

	book, err := s.library.UpdateBook(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(book)
}

func (s *server) deleteBook(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if _, err := s.library.DeleteBook(c.UserContext(), books.DeleteCommand{BookID: id}); err != nil {
		return err
	}

	return deleted(c, "Book")
}

func (s *server) authorsOfBook(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	list, err := s.library.AuthorsOfBook(c.UserContext(), query.AuthorsOfBookQuery{BookID: id})
	if err != nil {
		return err
	}

	return c.JSON(nonNil(list))
}

// linkAuthor answers 201 for a new link and 200 when the link already existed.
func (s *server) linkAuthor(c *fiber.Ctx) error {
	link, err := bookAuthorFromPath(c)
	if err != nil {
		return err
	}

	created, err := s.library.LinkAuthor(c.UserContext(), books.LinkAuthorCommand(link))
	if err != nil {
		return err
	}

	if created {
		c.Status(fiber.StatusCreated)
	}

	return c.JSON(link)
}

// unlinkAuthor answers 204 whether or not the link existed.
func (s *server) unlinkAuthor(c *fiber.Ctx) error {
	link, err := bookAuthorFromPath(c)
	if err != nil {
		return err
	}

	if _, err := s.library.UnlinkAuthor(c.UserContext(), books.UnlinkAuthorCommand(link)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func bookAuthorFromPath(c *fiber.Ctx) (store.BookAuthor, error) {
	bookID, err := pathID(c, "id")
	if err != nil {
		return store.BookAuthor{}, err
	}

	authorID, err := pathID(c, "authorID")
	if err != nil {
		return store.BookAuthor{}, err
	}

	return store.BookAuthor{BookID: bookID, AuthorID: authorID}, nil
}
