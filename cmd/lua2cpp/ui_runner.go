package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"lua2cpp/internal/driver"
	"lua2cpp/internal/source"
	"lua2cpp/internal/ui"
)

// uiMode управляет bubbletea-прогрессом батча; auto смотрит на tty.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch uiMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", uiModeAuto:
		return uiModeAuto, nil
	case uiModeOn:
		return uiModeOn, nil
	case uiModeOff:
		return uiModeOff, nil
	}
	return "", fmt.Errorf("--ui: %q is not auto, on or off", value)
}

// Явный выбор уважается; в auto интерфейс включается только на живом
// терминале, чтобы пайпы получали обычный построчный вывод.
func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout)
}

type batchOutcome struct {
	fileSet *source.FileSet
	units   []*driver.Unit
	err     error
}

// runBatchWithUI переводит каталог, рисуя прогресс через bubbletea.
// Сам перевод идёт в горутине; события закрываются после g.Wait.
func runBatchWithUI(ctx context.Context, title string, files []string, dir string, opts driver.Options, jobs int, cache *driver.DiskCache) (*source.FileSet, []*driver.Unit, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		fileSet, units, err := driver.TranslateDir(ctx, dir, opts, jobs, cache, func(ev driver.Event) {
			events <- ev
		})
		outcomeCh <- batchOutcome{fileSet: fileSet, units: units, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.units, uiErr
	}
	return outcome.fileSet, outcome.units, outcome.err
}
