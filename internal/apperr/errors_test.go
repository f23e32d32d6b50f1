package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"orderdesk/internal/apperr"
)

func TestSentinels_Distinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		apperr.ErrInvalid,
		apperr.ErrInvalidTransition,
		apperr.ErrConflict,
		apperr.ErrNotFound,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				require.ErrorIs(t, a, b)
				continue
			}
			require.NotErrorIs(t, a, b)
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("update order abc: %w", apperr.ErrConflict)
	require.ErrorIs(t, wrapped, apperr.ErrConflict)
	require.False(t, errors.Is(wrapped, apperr.ErrNotFound))
}
