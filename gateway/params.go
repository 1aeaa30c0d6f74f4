package gateway

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-lending-go/engine/query"
)

const defaultLimit = 100

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their query or json names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			if name, _, _ := strings.Cut(field.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}

		return field.Name
	})

	return v
}

type pageParams struct {
	Skip  *int `query:"skip" validate:"omitempty,gte=0"`
	Limit *int `query:"limit" validate:"omitempty,gte=1,lte=1000"`
}

func (p pageParams) page() query.Page {
	page := query.Page{Limit: defaultLimit}

	if p.Skip != nil {
		page.Skip = uint(*p.Skip)
	}

	if p.Limit != nil {
		page.Limit = uint(*p.Limit)
	}

	return page
}

type bookListParams struct {
	Skip       *int   `query:"skip" validate:"omitempty,gte=0"`
	Limit      *int   `query:"limit" validate:"omitempty,gte=1,lte=1000"`
	CategoryID *int64 `query:"category_id" validate:"omitempty,gt=0"`
}

type loanListParams struct {
	Skip       *int   `query:"skip" validate:"omitempty,gte=0"`
	Limit      *int   `query:"limit" validate:"omitempty,gte=1,lte=1000"`
	MemberID   *int64 `query:"member_id" validate:"omitempty,gt=0"`
	ActiveOnly bool   `query:"active_only"`
}

// validated runs the validate tags of a decoded request.
func validated(dest any, what string) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		if fe.Tag() == "required" {
			return invalidInput("%s %s is required", what, fe.Field())
		}

		return invalidInput("%s %s is out of range", what, fe.Field())
	}

	return invalidInput("%s", err.Error())
}

// parseQuery reads and validates the query string into dest.
func parseQuery(c *fiber.Ctx, dest any) error {
	if err := c.QueryParser(dest); err != nil {
		return invalidInput("malformed query string: %s", err.Error())
	}

	return validated(dest, "query parameter")
}

// parseBody decodes the JSON body into dest.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return invalidInput("malformed request body: %s", err.Error())
	}

	return nil
}

// pathID parses a positive integer path parameter.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusUnprocessableEntity, name+" must be a positive integer")
	}

	return id, nil
}
