package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/partysync/partysync-cli/internal/onboarding"
)

func newReader(input string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(input))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSimpleText(newReader("hello\n"), "Say something", &out)
	require.NoError(t, err)
	require.Equal(t, "hello", got)
	require.Contains(t, out.String(), "Say something")
}

func TestGetSimpleTextTrimsWhitespace(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSimpleText(newReader("  padded \n"), "p", &out)
	require.NoError(t, err)
	require.Equal(t, "padded", got)
}

func TestGetSimpleTextEOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer

	// No trailing newline: EOF after partial input still yields the text.
	got, err := GetSimpleText(newReader("partial"), "p", &out)
	require.NoError(t, err)
	require.Equal(t, "partial", got)
}

func TestGetSimpleTextEOFWithoutInput(t *testing.T) {
	var out bytes.Buffer

	_, err := GetSimpleText(newReader(""), "p", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) { return []byte("hunter22"), nil }

	var out bytes.Buffer
	got, err := GetPassword("Password", &out)
	require.NoError(t, err)
	require.Equal(t, "hunter22", got)
	require.Contains(t, out.String(), "Password")
}

func TestGetPasswordError(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) { return nil, errors.New("no tty") }

	var out bytes.Buffer
	_, err := GetPassword("Password", &out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	var out bytes.Buffer

	got, err := GetMultiline(newReader("first\nsecond\n\nignored\n"), "Bio", &out)
	require.NoError(t, err)
	require.Equal(t, "first\nsecond", got)
}

func TestGetMultilineEmpty(t *testing.T) {
	var out bytes.Buffer

	got, err := GetMultiline(newReader("\n"), "Bio", &out)
	require.NoError(t, err)
	require.Equal(t, "", got)
}

var testChoices = []onboarding.Choice{
	{Label: "Alpha", Value: "a"},
	{Label: "Beta", Value: "b"},
	{Label: "Gamma", Value: "c"},
}

func TestParseSelection(t *testing.T) {
	got, err := parseSelection("1,3", testChoices)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, got)

	got, err = parseSelection(" 2 ", testChoices)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, got)

	got, err = parseSelection("", testChoices)
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = parseSelection("4", testChoices)
	require.Error(t, err)

	_, err = parseSelection("0", testChoices)
	require.Error(t, err)

	_, err = parseSelection("x", testChoices)
	require.Error(t, err)
}

func TestGetMultiSelect(t *testing.T) {
	var out bytes.Buffer

	got, err := GetMultiSelect(newReader("1,2\n"), "Pick some", testChoices, &out)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, got)

	printed := out.String()
	require.Contains(t, printed, "1) Alpha")
	require.Contains(t, printed, "3) Gamma")
}

func TestGetSingleSelect(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSingleSelect(newReader("2\n"), "Pick one", testChoices, &out)
	require.NoError(t, err)
	require.Equal(t, "b", got)
}

func TestGetSingleSelectEmptyPicksNothing(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSingleSelect(newReader("\n"), "Pick one", testChoices, &out)
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestGetSingleSelectRejectsMultiple(t *testing.T) {
	var out bytes.Buffer

	_, err := GetSingleSelect(newReader("1,2\n"), "Pick one", testChoices, &out)
	require.Error(t, err)
}
