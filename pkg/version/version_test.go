package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/devlog/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "devlog dev (commit: none, built: unknown)", version.String())
}
