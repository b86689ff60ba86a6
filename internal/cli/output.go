package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	apihttp "scan-dashboard/internal/common/http"
)

// backendError reports an unsuccessful envelope as a command failure.
type backendError struct {
	kind    apihttp.Kind
	message string
}

func (e *backendError) Error() string {
	if e.kind == apihttp.KindNone {
		return e.message
	}
	return fmt.Sprintf("%s (%s)", e.message, e.kind)
}

// report prints an envelope and turns a failure into an error.
// ok is printed when the backend sent no message of its own.
func (c *CLI) report(resp *apihttp.APIResponse, ok string) error {
	if c.jsonOutput {
		if err := c.outputJSON(resp); err != nil {
			return err
		}
	} else if resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = ok
		}
		fmt.Fprintf(c.stdout(), "✓ %s\n", msg)
	} else {
		c.printFieldErrors(resp.Errors)
	}

	if resp.Success {
		return nil
	}
	return &backendError{kind: resp.Kind, message: resp.Message}
}

func (c *CLI) printFieldErrors(fieldErrors map[string][]string) {
	if len(fieldErrors) == 0 {
		return
	}
	fields := make([]string, 0, len(fieldErrors))
	for f := range fieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	w := c.rootCmd.ErrOrStderr()
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, strings.Join(fieldErrors[f], "; "))
	}
}

func (c *CLI) outputJSON(v interface{}) error {
	enc := json.NewEncoder(c.stdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// secret returns the flag value, or reads one line from stdin when the flag
// was left empty.
func (c *CLI) secret(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	if c.in == nil {
		c.in = bufio.NewReader(cmd.InOrStdin())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
