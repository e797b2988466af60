package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCode_Go(t *testing.T) {
	svc := NewCodeService()

	resp, apiErr := svc.FormatCode("go", "package main\nfunc   main(){println( 1 )}\n")
	require.Nil(t, apiErr)
	assert.True(t, resp.Changed)
	assert.Contains(t, resp.Formatted, "func main() {")

	// already formatted source comes back unchanged
	resp, apiErr = svc.FormatCode("go", resp.Formatted)
	require.Nil(t, apiErr)
	assert.False(t, resp.Changed)
}

func TestFormatCode_GoInvalidSource(t *testing.T) {
	svc := NewCodeService()
	_, apiErr := svc.FormatCode("go", "func {")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestFormatCode_JSON(t *testing.T) {
	svc := NewCodeService()

	resp, apiErr := svc.FormatCode("json", `{"b":1,"a":[2,3]}`)
	require.Nil(t, apiErr)
	assert.True(t, resp.Changed)
	assert.Contains(t, resp.Formatted, "  \"b\": 1")

	_, apiErr = svc.FormatCode("json", `{"a":`)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestFormatCode_YAML(t *testing.T) {
	svc := NewCodeService()

	resp, apiErr := svc.FormatCode("yaml", "a:   1\nb:\n-   x\n")
	require.Nil(t, apiErr)
	assert.Contains(t, resp.Formatted, "a: 1")

	_, apiErr = svc.FormatCode("yaml", "a: [unclosed")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestFormatCode_UnsupportedLanguage(t *testing.T) {
	svc := NewCodeService()
	_, apiErr := svc.FormatCode("brainfuck", "+")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestValidateCode_GoReportsPositions(t *testing.T) {
	svc := NewCodeService()

	resp, apiErr := svc.ValidateCode("go", "package main\n\nfunc main() {\n")
	require.Nil(t, apiErr)
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Issues)
	assert.Greater(t, resp.Issues[0].Line, 0)
	assert.Greater(t, resp.Issues[0].Column, 0)

	resp, apiErr = svc.ValidateCode("go", "package main\n\nfunc main() {}\n")
	require.Nil(t, apiErr)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Issues)
}

func TestValidateCode_JSONReportsLineAndColumn(t *testing.T) {
	svc := NewCodeService()

	resp, apiErr := svc.ValidateCode("json", "{\n  \"a\": 1,\n}")
	require.Nil(t, apiErr)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, 3, resp.Issues[0].Line)

	resp, apiErr = svc.ValidateCode("json", `{"a": 1}`)
	require.Nil(t, apiErr)
	assert.True(t, resp.Valid)
}

func TestValidateCode_YAML(t *testing.T) {
	svc := NewCodeService()

	resp, apiErr := svc.ValidateCode("yaml", "a: 1\nb: 2\n")
	require.Nil(t, apiErr)
	assert.True(t, resp.Valid)

	resp, apiErr = svc.ValidateCode("yaml", "a: [1, 2\n")
	require.Nil(t, apiErr)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Issues)
}

func TestValidateCode_UnsupportedLanguage(t *testing.T) {
	svc := NewCodeService()
	_, apiErr := svc.ValidateCode("cobol", "MOVE A TO B")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
