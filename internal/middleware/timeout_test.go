package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreTimeout_SetsDeadlineOnUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(StoreTimeout(250 * time.Millisecond))

	var deadline time.Time
	var hasDeadline bool
	app.Get("/", func(c *fiber.Ctx) error {
		deadline, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(fiber.StatusOK)
	})

	before := time.Now()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.True(t, hasDeadline, "store calls must be bounded by a deadline")
	assert.WithinDuration(t, before.Add(250*time.Millisecond), deadline, 100*time.Millisecond)
}

func TestStoreTimeout_ExpiredDeadlineCancelsStoreCalls(t *testing.T) {
	app := fiber.New()
	app.Use(StoreTimeout(time.Nanosecond))

	var ctxErr error
	app.Get("/", func(c *fiber.Ctx) error {
		<-c.UserContext().Done()
		ctxErr = c.UserContext().Err()
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.ErrorIs(t, ctxErr, context.DeadlineExceeded)
}
