package handlers

import (
	"encoding/json"
	"errors"

	"estimator/internal/models"
	"estimator/internal/querykeys"
	"estimator/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// QueryKeyHeader carries the JSON-encoded segments of the key a response is
// cached under, so clients store it under the same identity.
const QueryKeyHeader = "X-Query-Key"

func setQueryKey(c *fiber.Ctx, key querykeys.Key) {
	encoded, err := json.Marshal(key)
	if err != nil {
		return
	}
	c.Set(QueryKeyHeader, string(encoded))
}

// respondError maps validation, ownership and not-found errors to client errors
// and logs everything else as a server failure.
func respondError(c *fiber.Ctx, log logger.Logger, err error, failure string) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}

	_ = log.Err(failure, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": failure})
}

func parseID(c *fiber.Ctx, log logger.Logger) (uuid.UUID, bool, error) {
	idParam := c.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		log.Warn("Invalid ID", "id", idParam)
		return uuid.Nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ID",
		})
	}
	return id, true, nil
}

func handlerLog(c *fiber.Ctx, file, function string) logger.Logger {
	return logger.New("handlers").TraceFromContext(c.UserContext()).File(file).Function(function)
}
