package solve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAcceptedShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bare array", `[{"expr":"2+2","result":4,"assign":false}]`},
		{"data envelope", `{"message":"ok","status":"success","data":[{"expr":"2+2","result":4,"assign":false}]}`},
		{"results envelope", `{"results":[{"expr":"2+2","result":4,"assign":false}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list, err := Normalize([]byte(tc.body))
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "2+2", list[0].Expr)
			assert.Equal(t, 4.0, list[0].Result)
			assert.False(t, list[0].Assign)
		})
	}
}

func TestNormalizeDataWinsOverResults(t *testing.T) {
	body := `{"data":[{"expr":"from-data"}],"results":[{"expr":"from-results"}]}`
	list, err := Normalize([]byte(body))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "from-data", list[0].Expr)
}

func TestNormalizeEmptyArraysAreValid(t *testing.T) {
	for _, body := range []string{`[]`, `{"data":[]}`, `{"results":[]}`} {
		list, err := Normalize([]byte(body))
		require.NoError(t, err, "body %s", body)
		assert.Empty(t, list)
	}
}

func TestNormalizeRejectsUnknownShapes(t *testing.T) {
	for _, body := range []string{
		`{"foo":[{"expr":"x"}]}`,
		`{"message":"ok"}`,
		`"just a string"`,
		`not json at all`,
		``,
	} {
		_, err := Normalize([]byte(body))
		require.Error(t, err, "body %q", body)
		assert.Equal(t, "Invalid response from server", err.Error())
	}
}

func TestNormalizeTrimsWhitespace(t *testing.T) {
	list, err := Normalize([]byte("  \n\t[{\"expr\":\"x\"}]\n"))
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestNormalizeCarriesSteps(t *testing.T) {
	body := `{"data":[{"expr":"x=4","result":4,"assign":true,"steps":[{"latex":"x^2=16","explanation":"take the root"}]}]}`
	list, err := Normalize([]byte(body))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Assign)
	require.Len(t, list[0].Steps, 1)
	assert.Equal(t, "x^2=16", list[0].Steps[0].Latex)
	assert.Equal(t, "take the root", list[0].Steps[0].Explanation)
}
