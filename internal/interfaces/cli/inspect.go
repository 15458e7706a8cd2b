package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [descriptor]",
		Short: "Browse a build descriptor interactively",
		Long: `Open a terminal view of the resolved build descriptor.

Controls: up/down (or k/j) to move, r to reload from disk, q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, container, descriptorArg(args))
		},
	}
}

func runInspect(cmd *cobra.Command, container *CLIContainer, path string) error {
	load := func(ctx context.Context) (*buildconfig.BuildConfig, error) {
		return container.Loader.LoadFile(ctx, path)
	}
	model := newInspectModel(cmd.Context(), path, load)

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}
	return nil
}

type loadFunc func(ctx context.Context) (*buildconfig.BuildConfig, error)

type configLoadedMsg struct {
	cfg *buildconfig.BuildConfig
}

type loadFailedMsg struct {
	err error
}

// inspectModel holds the state for the Bubble Tea field browser
type inspectModel struct {
	ctx         context.Context
	path        string
	load        loadFunc
	rows        []fieldRow
	selectedRow int
	loading     bool
	windowWidth int
	err         error
}

func newInspectModel(ctx context.Context, path string, load loadFunc) inspectModel {
	return inspectModel{ctx: ctx, path: path, load: load, loading: true}
}

func (m inspectModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m inspectModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		cfg, err := m.load(m.ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return configLoadedMsg{cfg: cfg}
	}
}

// Update implements the Bubble Tea update method
func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
			return m, nil

		case "down", "j":
			if m.selectedRow < len(m.rows)-1 {
				m.selectedRow++
			}
			return m, nil

		case "r":
			m.loading = true
			return m, m.loadCmd()
		}

	case configLoadedMsg:
		m.loading = false
		m.err = nil
		m.rows = summaryRows(msg.cfg)
		if m.selectedRow >= len(m.rows) {
			m.selectedRow = len(m.rows) - 1
		}
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.err = msg.err
		m.rows = nil
		m.selectedRow = 0
		return m, nil
	}

	return m, nil
}

// View implements the Bubble Tea view method
func (m inspectModel) View() string {
	header := titleStyle.Render(m.path)
	footer := mutedStyle.Render("↑/↓ move • r reload • q quit")

	switch {
	case m.loading && m.rows == nil && m.err == nil:
		return lipgloss.JoinVertical(lipgloss.Left, header, "Loading...", footer)
	case m.err != nil:
		return lipgloss.JoinVertical(lipgloss.Left, header, renderFailure(m.err), "", footer)
	}

	selected := lipgloss.NewStyle().Background(lipgloss.Color("240"))
	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		line := lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r.Label), valueStyle.Render(r.Value))
		if i == m.selectedRow {
			line = selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	detail := ""
	if m.selectedRow >= 0 && m.selectedRow < len(m.rows) {
		detail = mutedStyle.Render(m.rows[m.selectedRow].Help)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n"), "", detail, footer)
}
