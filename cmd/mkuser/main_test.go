package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m-217/mkuser/logger"
	"github.com/m-217/mkuser/mkuser/provision"
	"github.com/m-217/mkuser/mkuser/validate"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{
			name: "environment error",
			err:  &validate.Error{Category: validate.CategoryEnv, Message: "no root"},
			code: exitUsage,
		},
		{
			name: "validation error",
			err:  &validate.Error{Category: validate.CategoryUser, Message: "bad username"},
			code: exitValidation,
		},
		{
			name: "execution error",
			err:  &provision.ExecError{Command: "useradd", ExitCode: 9},
			code: exitExec,
		},
		{
			name: "anything else",
			err:  errors.New("unexpected"),
			code: exitUsage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, exitCodeFor(tc.err))
		})
	}
}

func TestConfirmGateNonInteractiveAnswersDefault(t *testing.T) {
	// Test binaries never have a terminal on stdin, so the gate must
	// fall back to the supplied default without blocking.
	log := logger.New(logger.Options{Dir: t.TempDir()})
	gate := confirmGate(log)

	assert.False(t, gate("Use this shell anyway?", false))
	assert.True(t, gate("Proceed?", true))
}
