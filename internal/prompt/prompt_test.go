package prompt

import (
	"testing"

	"docchat/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestBuild_Local(t *testing.T) {
	system, user := Build(model.ModeLocal, "Alpha beta gamma.", "What is beta?")

	assert.Equal(t, "What is beta?", user)
	assert.Contains(t, system, "Alpha beta gamma.")
	assert.Contains(t, system, "Do not use any external knowledge")
	assert.Contains(t, system, LocalSourceMarker)
	assert.Contains(t, system, "respond with exactly: '"+LocalFallback+"'")
	assert.NotContains(t, system, GlobalSourceMarker)
}

func TestBuild_LocalEmptyContext(t *testing.T) {
	// No documents attached still yields a well formed instruction; the
	// fallback sentence carries the burden of saying nothing was found.
	system, _ := Build(model.ModeLocal, "", "Anything?")

	assert.Contains(t, system, LocalFallback)
}

func TestBuild_Global(t *testing.T) {
	system, user := Build(model.ModeGlobal, "This context must be ignored.", "Capital of France?")

	assert.Equal(t, "Capital of France?", user)
	assert.Contains(t, system, GlobalSourceMarker)
	assert.NotContains(t, system, "This context must be ignored.")
	assert.NotContains(t, system, LocalFallback)
}

func TestBuild_QuestionPassthrough(t *testing.T) {
	question := "  spaced   and 'quoted' question?  "
	for _, mode := range []model.Mode{model.ModeLocal, model.ModeGlobal} {
		_, user := Build(mode, "ctx", question)
		assert.Equal(t, question, user)
	}
}
