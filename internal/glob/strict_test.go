package glob_test

import (
	"testing"

	"github.com/janos-ssg/janos/internal/glob"
	"github.com/stretchr/testify/require"
)

func TestValidatePattern_AcceptsWellFormed(t *testing.T) {
	require.NoError(t, glob.ValidatePattern("posts/**/*.md"))
	require.NoError(t, glob.ValidatePattern("*.html"))
}

func TestValidatePattern_RejectsUnterminatedClass(t *testing.T) {
	require.Error(t, glob.ValidatePattern("posts/[abc.md"))
}
