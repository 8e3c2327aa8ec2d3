package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGPAWithoutCountableGradesIsZero(t *testing.T) {
	require.Equal(t, 0.0, GPA(nil))
	require.Equal(t, 0.0, GPA([]string{"--", "--"}))
}

func TestGPAAveragesUnweighted(t *testing.T) {
	require.InDelta(t, (4.0+3.0+2.3)/3, GPA([]string{"A", "B", "C+"}), 1e-9)
}

func TestGPASkipsUnknownAndUngraded(t *testing.T) {
	require.InDelta(t, 3.7, GPA([]string{"A-", "--", "P", ""}), 1e-9)
}

func TestGPACountsFailingGrade(t *testing.T) {
	require.InDelta(t, 2.0, GPA([]string{"A", "E"}), 1e-9)
}
