package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/turtacn/IPBooks-Bridge/internal/quickbooks"
)

// autoPrompter accepts every confirmation, for scripted runs under --yes.
type autoPrompter struct {
	out io.Writer
}

func (p autoPrompter) ConfirmUpdate(kind string, candidate any, old *quickbooks.Record) bool {
	fmt.Fprintf(p.out, "Updating %s to match %+v.\n", kind, candidate)
	return true
}

func (p autoPrompter) ConfirmCreate(kind string, pending int) bool {
	fmt.Fprintf(p.out, "Creating %d %s %s.\n", pending, kind, plural(pending, "entry", "entries"))
	return true
}

// consolePrompter asks y/n questions on the terminal.  Anything but an
// explicit yes declines.
type consolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsolePrompter(in io.Reader, out io.Writer) *consolePrompter {
	return &consolePrompter{in: bufio.NewReader(in), out: out}
}

func (p *consolePrompter) ConfirmUpdate(kind string, candidate any, old *quickbooks.Record) bool {
	fmt.Fprintf(p.out, "\nMismatch in %s.\nRecorded:\n%sShould be: %+v\n",
		kind, renderRecord(old), candidate)
	return p.ask(fmt.Sprintf("Update this %s?", kind))
}

func (p *consolePrompter) ConfirmCreate(kind string, pending int) bool {
	return p.ask(fmt.Sprintf("Create %d new %s %s?",
		pending, kind, plural(pending, "entry", "entries")))
}

func (p *consolePrompter) ask(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// renderRecord prints a record one field per line, children indented.
func renderRecord(rec *quickbooks.Record) string {
	var b strings.Builder
	writeRecordLines(&b, rec, "  ")
	return b.String()
}

func writeRecordLines(b *strings.Builder, rec *quickbooks.Record, indent string) {
	for _, key := range rec.Keys() {
		if text := rec.Text(key); text != "" || rec.Child(key) == nil {
			fmt.Fprintf(b, "%s%s: %s\n", indent, key, text)
			continue
		}
		for _, child := range rec.List(key) {
			fmt.Fprintf(b, "%s%s:\n", indent, key)
			writeRecordLines(b, child, indent+"  ")
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
