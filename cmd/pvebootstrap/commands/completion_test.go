package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	cmd := Completion()

	require.NotNil(t, cmd)
	assert.Equal(t, "completion [bash|zsh|fish|powershell]", cmd.Use)
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	cmd := Root()
	cmd.SetArgs([]string{"completion", "tcsh"})

	err := cmd.Execute()
	require.Error(t, err)
}
