package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeNotFound, "due not found")

	assert.Equal(t, pkgerrors.CodeNotFound, err.Code())
	assert.Equal(t, "due not found", err.Message())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "ping redis")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, pkgerrors.CodeDependency, err.Code())
}

func TestAsUnwrapsNestedError(t *testing.T) {
	inner := pkgerrors.New(pkgerrors.CodeAlreadyExists, "user exists")
	outer := fmt.Errorf("register: %w", inner)

	typed := pkgerrors.As(outer)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeAlreadyExists, typed.Code())

	assert.Nil(t, pkgerrors.As(errors.New("plain")))
	assert.Nil(t, pkgerrors.As(nil))
}

func TestMetadataStatuses(t *testing.T) {
	assert.Equal(t, 400, pkgerrors.MetadataFor(pkgerrors.CodeValidation).HTTPStatus)
	assert.Equal(t, 400, pkgerrors.MetadataFor(pkgerrors.CodeSignatureInvalid).HTTPStatus)
	assert.Equal(t, 409, pkgerrors.MetadataFor(pkgerrors.CodeAlreadyExists).HTTPStatus)
	assert.Equal(t, 502, pkgerrors.MetadataFor(pkgerrors.CodeGateway).HTTPStatus)
}

func TestSignatureMetadataStaysGeneric(t *testing.T) {
	meta := pkgerrors.MetadataFor(pkgerrors.CodeSignatureInvalid)
	assert.Equal(t, "payment verification failed", meta.PublicMessage)
	assert.False(t, meta.DetailsAllowed)
	assert.False(t, meta.Retryable)
}

func TestWithDetails(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"email": "is required"})

	details, ok := err.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["email"])
}

func TestDumpCollectsChain(t *testing.T) {
	cause := errors.New("root cause")
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "outer")

	dump := pkgerrors.Dump(err)
	assert.Equal(t, pkgerrors.CodeInternal, dump.Code)
	require.NotEmpty(t, dump.Chain)
	assert.Contains(t, dump.Chain[len(dump.Chain)-1], "root cause")
}
