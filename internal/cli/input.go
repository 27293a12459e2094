package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/partysync/partysync-cli/internal/onboarding"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input
// was read, the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password from the
// terminal without echo.
func GetPassword(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// GetMultiline prints a prompt to w and reads lines until an empty line is
// entered. The collected text is joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// printChoices lists choices one per line, 1-based.
func printChoices(w io.Writer, choices []onboarding.Choice) {
	for i, c := range choices {
		fmt.Fprintf(w, "  %d) %s\n", i+1, c.Label)
	}
}

// parseSelection maps a comma-separated list of 1-based indices onto the
// choice values, rejecting anything out of range.
func parseSelection(input string, choices []onboarding.Choice) ([]string, error) {
	parts := strings.Split(input, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > len(choices) {
			return nil, fmt.Errorf("invalid option %q", part)
		}
		values = append(values, choices[n-1].Value)
	}
	return values, nil
}

// GetMultiSelect shows the numbered choices and reads a comma-separated
// selection, e.g. "1,3,4". An empty line selects nothing.
func GetMultiSelect(reader *bufio.Reader, prompt string, choices []onboarding.Choice, w io.Writer) ([]string, error) {
	fmt.Fprintln(w, prompt)
	printChoices(w, choices)
	input, err := GetSimpleText(reader, "Numbers, comma-separated", w)
	if err != nil {
		return nil, err
	}
	return parseSelection(input, choices)
}

// GetSingleSelect shows the numbered choices and reads exactly one. An
// empty line selects nothing and returns "".
func GetSingleSelect(reader *bufio.Reader, prompt string, choices []onboarding.Choice, w io.Writer) (string, error) {
	fmt.Fprintln(w, prompt)
	printChoices(w, choices)
	input, err := GetSimpleText(reader, "Number", w)
	if err != nil {
		return "", err
	}
	if input == "" {
		return "", nil
	}
	values, err := parseSelection(input, choices)
	if err != nil {
		return "", err
	}
	if len(values) != 1 {
		return "", fmt.Errorf("pick exactly one option")
	}
	return values[0], nil
}
