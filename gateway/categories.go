package gateway

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-lending-go/engine/categories"
	"github.com/AntonStoeckl/library-lending-go/engine/query"
)

func (s *server) createCategory(c *fiber.Ctx) error {
	var command categories.CreateCommand
	if err := parseBody(c, &command); err != nil {
		return err
	}

	category, err := s.library.CreateCategory(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(category)
}

func (s *server) listCategories(c *fiber.Ctx) error {
	var params pageParams
	if err := parseQuery(c, &params); err != nil {
		return err
	}

	list, err := s.library.ListCategories(c.UserContext(), query.ListCategoriesQuery{Page: params.page()})
	if err != nil {
		return err
	}

	return c.JSON(nonNil(list))
}

func (s *server) getCategory(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	category, err := s.library.GetCategory(c.UserContext(), query.GetCategoryQuery{CategoryID: id})
	if err != nil {
		return err
	}

	return c.JSON(category)
}

func (s *server) updateCategory(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	command := categories.UpdateCommand{CategoryID: id}
	if err := parseBody(c, &command.Patch); err != nil {
		return err
	}

	category, err := s.library.UpdateCategory(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(category)
}

func (s *server) deleteCategory(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if _, err := s.library.DeleteCategory(c.UserContext(), categories.DeleteCommand{CategoryID: id}); err != nil {
		return err
	}

	return deleted(c, "Category")
}
