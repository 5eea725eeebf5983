package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// Prompter pide los valores que faltan en los flags.
type Prompter interface {
	Interactive() bool
	Input(title string, value *string) error
	Password(title string, value *string) error
	Select(title string, options []string, value *string) error
}

type huhPrompter struct{}

func newHuhPrompter() Prompter { return huhPrompter{} }

// Interactive es true si stdin es una terminal.
func (huhPrompter) Interactive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (huhPrompter) Input(title string, value *string) error {
	return run(huh.NewInput().Title(title).Value(value))
}

func (huhPrompter) Password(title string, value *string) error {
	return run(huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(value))
}

func (huhPrompter) Select(title string, options []string, value *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	return run(huh.NewSelect[string]().Title(title).Options(opts...).Value(value))
}

func run(field huh.Field) error {
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// ask completa value con un prompt si está vacío; sin terminal devuelve un error con el flag.
func (rt *runtime) ask(flag, title string, value *string) error {
	if strings.TrimSpace(*value) != "" {
		return nil
	}
	if !rt.prompter.Interactive() {
		return fmt.Errorf("missing --%s", flag)
	}
	return rt.prompter.Input(title, value)
}

func (rt *runtime) askSecret(flag, title string, value *string) error {
	if *value != "" {
		return nil
	}
	if !rt.prompter.Interactive() {
		return fmt.Errorf("missing --%s", flag)
	}
	return rt.prompter.Password(title, value)
}

func (rt *runtime) choose(flag, title string, options []string, value *string) error {
	if strings.TrimSpace(*value) != "" {
		return nil
	}
	if !rt.prompter.Interactive() {
		return fmt.Errorf("missing --%s", flag)
	}
	return rt.prompter.Select(title, options, value)
}
