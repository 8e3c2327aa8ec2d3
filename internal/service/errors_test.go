package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-lms-api/internal/models"
)

func TestKindOf(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validationErr := validate.Struct(struct {
		Name string `validate:"required"`
	}{})

	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{duplicate("department"), KindDuplicate},
		{&ScheduleConflictError{Conflicts: []models.Class{{}}}, KindScheduleConflict},
		{fmt.Errorf("create class: %w", ErrInvalidRange), KindInvalidRange},
		{notFound("course"), KindNotFound},
		{invalidInput("weight must be positive"), KindInvalidInput},
		{validationErr, KindInvalidInput},
		{errors.New("connection refused"), KindStoreFailure},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, KindOf(tc.err), "error %v", tc.err)
	}
}

func TestTranslateStoreError(t *testing.T) {
	err := translateStoreError("course", gorm.ErrRecordNotFound)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "course", nf.Entity)

	require.ErrorIs(t, translateStoreError("department", gorm.ErrDuplicatedKey), ErrDuplicate)

	raw := errors.New("disk full")
	wrapped := translateStoreError("class", raw)
	require.ErrorIs(t, wrapped, ErrStoreFailure)
	require.ErrorIs(t, wrapped, raw)
	require.Equal(t, wrapped, translateStoreError("enrollment", wrapped))

	passthrough := notFound("professor")
	require.Equal(t, passthrough, translateStoreError("class", passthrough))
}
