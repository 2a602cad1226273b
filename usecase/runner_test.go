package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alextanhongpin/clean-usecases/flow"
	"github.com/alextanhongpin/clean-usecases/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email             string
	Password          string
	EncryptedPassword string
	Output            flow.Result[string]
}

var errInvalidEmail = errors.New("invalid email")

func validateEmail(_ context.Context, s *signup) error {
	if s.Email == "" {
		return errInvalidEmail
	}
	return nil
}

func encryptPassword(_ context.Context, s *signup) error {
	s.EncryptedPassword = "enc:" + s.Password
	return nil
}

func TestRunner_HappyPath(t *testing.T) {
	r := usecase.New(
		usecase.Run(
			flow.Stateless("validate-email", validateEmail),
			flow.Stateless("encrypt-password", encryptPassword),
		),
	)
	assert.NotEmpty(t, r.ID())
	assert.Equal(t, []string{"validate-email", "encrypt-password"}, r.StepNames())

	state := &signup{Email: "a@b.com", Password: "x"}
	out, err := r.Run(state)

	require.NoError(t, err)
	assert.Equal(t, r.ID(), out.ID)
	assert.Equal(t, 2, out.Completed)
	assert.Equal(t, 2, out.Total)
	assert.Empty(t, out.FailedStep)
	assert.False(t, out.Halted)
	assert.NoError(t, out.Err)
	assert.Equal(t, "enc:x", state.EncryptedPassword)

	info, ok := r.Info("encrypt-password")
	require.True(t, ok)
	assert.Equal(t, flow.StateSuccess, info.State)
}

func TestRunner_FailedStep(t *testing.T) {
	r := usecase.New(
		usecase.Run(
			flow.Stateless("validate-email", validateEmail),
			flow.Stateless("encrypt-password", encryptPassword),
		),
	)

	state := &signup{Email: ""}
	out, err := r.Run(state)

	require.Error(t, err)
	assert.Same(t, errInvalidEmail, err)
	assert.Equal(t, 0, out.Completed)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, "validate-email", out.FailedStep)
	assert.False(t, out.Halted)

	info, ok := r.Info("validate-email")
	require.True(t, ok)
	assert.Equal(t, flow.StateFailed, info.State)
	assert.Same(t, errInvalidEmail, info.Reason)

	info, ok = r.Info("encrypt-password")
	require.True(t, ok)
	assert.Equal(t, flow.StateWaiting, info.State)
}

func TestRunner_NoopHaltsQuietly(t *testing.T) {
	r := usecase.New(
		usecase.Run(
			flow.Stateless("validate-email", validateEmail),
			flow.Stateless[signup]("already-registered", func(context.Context, *signup) error {
				return flow.ErrNoop
			}),
			flow.Stateless("encrypt-password", encryptPassword),
		),
	)

	state := &signup{Email: "a@b.com", Password: "x"}
	out, err := r.Run(state)

	require.NoError(t, err)
	assert.True(t, out.Halted)
	assert.Equal(t, 1, out.Completed)
	assert.Equal(t, "already-registered", out.FailedStep)
	assert.True(t, flow.IsNoop(out.Err))
	assert.Empty(t, state.EncryptedPassword)
}

func TestRunner_NestedStepNames(t *testing.T) {
	r := usecase.New(
		usecase.Run(
			flow.Stateless("validate-email", validateEmail),
			flow.Chain[signup]("persist",
				flow.Stateless("encrypt-password", encryptPassword),
				flow.Stateless[signup]("insert-user", nil),
			),
		),
	)

	assert.Equal(t, []string{
		"validate-email",
		"persist",
		"persist.encrypt-password",
		"persist.insert-user",
	}, r.StepNames())

	state := &signup{Email: "a@b.com", Password: "x"}
	out, err := r.Run(state)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Completed)

	infos := r.Infos("persist")
	require.Len(t, infos, 3)
	for _, info := range infos {
		assert.Equal(t, flow.StateSuccess, info.State, info.Path)
	}
}

func TestRunner_Defaults(t *testing.T) {
	r := usecase.New[signup]()
	out, err := r.Run(&signup{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Completed)
	assert.Equal(t, 1, out.Total)
}

func TestRunner_Should(t *testing.T) {
	r := usecase.New(
		usecase.Run(flow.Stateless[signup]("boom", func(context.Context, *signup) error {
			return assert.AnError
		})),
		usecase.Should[signup](func(error) bool { return false }),
	)

	out, err := r.Run(&signup{})
	require.NoError(t, err)
	assert.True(t, out.Halted)
	assert.Same(t, assert.AnError, out.Err)
}
