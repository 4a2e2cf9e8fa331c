package handlers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/BeameryHQ/async-callbacks/stream"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	DefaultThreshold = 50
	alertMessage     = "Alert!"
)

// Console is the output sink handlers print to.
type Console struct {
	out   io.Writer
	alert *color.Color
	value *color.Color
}

// NewConsole writes to out. Colours are only used when out is a terminal.
func NewConsole(out io.Writer) *Console {
	return newConsole(out, isTerminal(out))
}

func newConsole(out io.Writer, colored bool) *Console {
	c := &Console{
		out:   out,
		alert: color.New(color.FgRed, color.Bold),
		value: color.New(color.FgCyan),
	}
	if colored {
		c.alert.EnableColor()
		c.value.EnableColor()
	} else {
		c.alert.DisableColor()
		c.value.DisableColor()
	}
	return c
}

var (
	stdoutOnce    sync.Once
	stdoutConsole *Console
)

// Stdout is the console bound to the process stdout.
func Stdout() *Console {
	stdoutOnce.Do(func() {
		stdoutConsole = newConsole(colorable.NewColorableStdout(), isTerminal(os.Stdout))
	})
	return stdoutConsole
}

// Alert prints an alert when value is over DefaultThreshold.
func (c *Console) Alert(value int) {
	c.AlertAbove(DefaultThreshold)(value)
}

// AlertAbove is Alert with a configured threshold.
func (c *Console) AlertAbove(threshold int) stream.HandlerFunc {
	return func(value int) {
		if value > threshold {
			c.RaiseAlert()
		}
	}
}

// Print echoes every value.
func (c *Console) Print(value int) {
	c.value.Fprintf(c.out, "New value: %d\n", value)
}

func (c *Console) RaiseAlert() {
	c.alert.Fprintln(c.out, alertMessage)
}

// Println writes a plain line, for demo narration.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Alert and Print are the stateless handlers, bound to stdout.
func Alert(value int) {
	Stdout().Alert(value)
}

func Print(value int) {
	Stdout().Print(value)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
