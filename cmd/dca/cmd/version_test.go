package cmd

import (
	"testing"

	"github.com/coreos/go-semver/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolVersion(t *testing.T) {
	v, err := toolVersion()
	require.NoError(t, err)
	assert.Equal(t, semanticVersion, v.String())

	original := semanticVersion
	defer func() { semanticVersion = original }()

	semanticVersion = "v1.4.0-rc.1"
	v, err = toolVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Major)
	assert.Equal(t, int64(4), v.Minor)
	assert.Equal(t, semver.PreRelease("rc.1"), v.PreRelease)
	assert.True(t, v.LessThan(*semver.New("1.4.0")))

	semanticVersion = "1.x"
	_, err = toolVersion()
	require.Error(t, err)
}
