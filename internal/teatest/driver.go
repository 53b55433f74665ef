// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and returned commands are run to completion in
// place of tea.Program. Commands that block, such as cursor blinking, are
// abandoned after a short timeout.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds command chains so a model that keeps re-arming itself
// cannot hang a test.
const maxDepth = 50

// cmdTimeout sits well above a store round trip and well below the
// cursor blink interval.
const cmdTimeout = 200 * time.Millisecond

// Driver feeds messages to a tea.Model and drains the commands it returns.
type Driver struct {
	t     *testing.T
	model tea.Model

	// Quitting is set once tea.Quit has been returned.
	Quitting bool
}

func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	return &Driver{t: t, model: model}
}

// Model returns the current model, after every Update so far.
func (d *Driver) Model() tea.Model {
	return d.model
}

func (d *Driver) View() string {
	return d.model.View()
}

// Init runs the model's Init command.
func (d *Driver) Init() {
	d.t.Helper()
	d.drain(d.model.Init(), 0)
}

// Send dispatches msg and drains whatever it triggers.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.Quitting {
		return
	}
	next, cmd := d.model.Update(msg)
	d.model = next
	d.drain(cmd, 0)
}

// Press sends named keys in order. Names follow tea.KeyMsg.String, so
// "enter", "esc", "up", "ctrl+c" and " " work; anything else is sent as runes.
func (d *Driver) Press(keys ...string) {
	d.t.Helper()
	for _, k := range keys {
		d.Send(KeyMsg(k))
	}
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.t.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"tab":    tea.KeyTab,
	"ctrl+c": tea.KeyCtrlC,
}

// KeyMsg builds the tea.KeyMsg bubbletea would deliver for a key name.
func KeyMsg(name string) tea.KeyMsg {
	if name == " " || name == "space" {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if kt, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Logf("teatest: command chain deeper than %d, stopping", maxDepth)
		return
	}

	msg, ok := run(cmd)
	if !ok || msg == nil || isBlink(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		next, nextCmd := d.model.Update(msg)
		d.model = next
		d.drain(nextCmd, depth+1)
	}
}

// run executes cmd, giving up after cmdTimeout.
func run(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// isBlink matches the unexported blink messages of bubbles/cursor.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
