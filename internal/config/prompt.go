package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompt asks for paths and column headers the way the batch script always
// did, keeping the current value when the answer is empty.
func Prompt(c *Config, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	ask := func(prompt string, v *string) error {
		if _, err := fmt.Fprintf(out, "%s(default: %s): ", prompt, *v); err != nil {
			return err
		}
		if !sc.Scan() {
			return sc.Err() // EOF keeps the rest of the defaults
		}
		if s := strings.TrimSpace(sc.Text()); s != "" {
			*v = s
		}
		return nil
	}

	steps := []struct {
		prompt string
		v      *string
	}{
		{"Enter the source file path", &c.SourcePath},
		{"Enter the lookup file path", &c.LookupPath},
		{"Enter the source file's product name column header", &c.Linkage.SourceNameColumn},
		{"Enter the lookup file's identifier column header", &c.Linkage.LookupIdentifierColumn},
		{"Enter the lookup file's product name column header", &c.Linkage.LookupNameColumn},
		{"Enter the output file path", &c.OutputPath},
	}
	for _, st := range steps {
		if err := ask(st.prompt, st.v); err != nil {
			return err
		}
	}
	return nil
}
