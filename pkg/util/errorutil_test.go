package util_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, apperrors.ToDomainError(nil))

	nf := apperrors.ToDomainError(fmt.Errorf("load: %w", apperrors.NewNotFound("complaint", map[string]any{"id": "x"})))
	assert.Equal(t, "NOT_FOUND", nf.Code)
	assert.Equal(t, http.StatusNotFound, nf.HTTPStatus)
	assert.Equal(t, "x", nf.Details["id"])

	rows := apperrors.ToDomainError(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", rows.Code)

	fe := apperrors.ToDomainError(fiber.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, fe.HTTPStatus)

	internal := apperrors.ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.ErrorContains(t, internal, "boom")
}

func TestIsCode(t *testing.T) {
	assert.True(t, apperrors.IsCode(apperrors.NewUnauthorized("no"), "UNAUTHORIZED"))
	assert.False(t, apperrors.IsCode(errors.New("plain"), "UNAUTHORIZED"))
	assert.Nil(t, apperrors.MapError(nil))
}
