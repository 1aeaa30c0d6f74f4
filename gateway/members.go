package gateway

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-lending-go/engine/members"
	"github.com/AntonStoeckl/library-lending-go/engine/query"
)

func (s *server) createMember(c *fiber.Ctx) error {
	var command members.CreateCommand
	if err := parseBody(c, &command); err != nil {
		return err
	}

	member, err := s.library.CreateMember(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(member)
}

func (s *server) listMembers(c *fiber.Ctx) error {
	var params pageParams
	if err := parseQuery(c, &params); err != nil {
		return err
	}

	list, err := s.library.ListMembers(c.UserContext(), query.ListMembersQuery{Page: params.page()})
	if err != nil {
		return err
	}

	return c.JSON(nonNil(list))
}

func (s *server) getMember(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	member, err := s.library.GetMember(c.UserContext(), query.GetMemberQuery{MemberID: id})
	if err != nil {
		return err
	}

	return c.JSON(member)
}

func (s *server) updateMember(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	command := members.UpdateCommand{MemberID: id}
	if err := parseBody(c, &command.Patch); err != nil {
		return err
	}

	member, err := s.library.UpdateMember(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(member)
}

func (s *server) deleteMember(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if _, err := s.library.DeleteMember(c.UserContext(), members.DeleteCommand{MemberID: id}); err != nil {
		return err
	}

	return deleted(c, "Member")
}
