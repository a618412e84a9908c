package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// HeaderUserEmail carries the signed-in user's email. Requests without it
// use the anonymous namespace.
const HeaderUserEmail = "X-User-Email"

func requestNamespace(c *fiber.Ctx) (domain.Namespace, error) {
	email := c.Get(HeaderUserEmail)
	if email == "" {
		return domain.Anonymous, nil
	}
	return domain.NamespaceFromEmail(email)
}
