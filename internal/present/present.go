// Package present renders stored paths for the terminal.
package present

import (
	"bufio"
	"fmt"
	"io"
)

// Plain writes path on its own line.
func Plain(w io.Writer, path string) error {
	_, err := fmt.Fprintln(w, path)
	return err
}

// Confirm writes prompt to out and reads one answer from in. Only an answer
// starting with 'y' or 'Y' confirms; anything else, including end of input,
// declines.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)

	reader := bufio.NewReader(in)
	answer, err := reader.ReadString('\n')
	if answer == "" && err != nil {
		return false
	}
	return answer[0] == 'y' || answer[0] == 'Y'
}
