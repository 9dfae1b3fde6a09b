package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/catalog"
	"storefront/logx"
	"storefront/state"
)

// Run starts the browser and blocks until the user quits or ctx ends.
// Store and fetcher notifications are forwarded into the program; fetches
// only run inside commands, so their notifications may Send synchronously.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	m := NewModel(ctx, cfg)
	defer m.Close()

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	p := tea.NewProgram(m, opts...)

	// store mutations mostly happen inside Update, so Send must not block the
	// event loop that would receive it
	unsubStore := cfg.Store.Subscribe(func(c state.Change) { go p.Send(stateMsg(c)) })
	defer unsubStore()
	unsubFetch := cfg.Fetcher.Subscribe(func(s catalog.Snapshot) { p.Send(catalogMsg(s)) })
	defer unsubFetch()

	logx.Info().Msg("browser started")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	logx.Info().Msg("browser closed")
	return nil
}
