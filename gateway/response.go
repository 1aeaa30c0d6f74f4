package gateway

import "github.com/gofiber/fiber/v2"

// nonNil makes empty lists render as [] instead of null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}

	return list
}

func deleted(c *fiber.Ctx, what string) error {
	return c.JSON(fiber.Map{"message": what + " deleted successfully"})
}
