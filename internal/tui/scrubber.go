// Package tui is an interactive time scrubber over a consolidated dense
// output: the cursor can sit at any time in the output's span, not only on
// integrator steps.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/dynout/internal/dynamo"
	"github.com/san-kum/dynout/internal/export"
	"github.com/san-kum/dynout/internal/scalar"
	"github.com/san-kum/dynout/internal/viz"
)

const (
	sparkWidth = 48
	// Cursor moves by 1/fineSteps of the span, or 1/coarseSteps with shift.
	fineSteps   = 500
	coarseSteps = 50
)

type Scrubber struct {
	title string
	out   *dynamo.Output
	grid  export.Grid
	ends  []float64

	start, end float64
	t          float64
	state      []float64
	err        error
	theme      viz.Theme
	width      int
}

// NewScrubber places the cursor at the start of out. grid supplies the
// sparklines and should be a resample of out.
func NewScrubber(title string, out *dynamo.Output, grid export.Grid) (*Scrubber, error) {
	start, err := out.StartTime()
	if err != nil {
		return nil, err
	}
	end, err := out.EndTime()
	if err != nil {
		return nil, err
	}
	s := &Scrubber{
		title: title,
		out:   out,
		grid:  grid,
		start: start.Float(),
		end:   end.Float(),
		theme: viz.Themes[0],
		width: 80,
	}
	for _, step := range out.Steps() {
		s.ends = append(s.ends, step.EndTime().Float())
	}
	s.seek(s.start)
	return s, nil
}

// Time returns the cursor position.
func (s *Scrubber) Time() float64 { return s.t }

// State returns the output evaluated at the cursor.
func (s *Scrubber) State() []float64 { return s.state }

func (s *Scrubber) seek(t float64) {
	s.t = min(max(t, s.start), s.end)
	x, err := s.out.Evaluate(scalar.Real(s.t))
	if err != nil {
		s.err = err
		return
	}
	s.err = nil
	s.state = x.Floats()
}

func (s *Scrubber) move(n float64) {
	s.seek(s.t + (s.end-s.start)/n)
}

// nextBoundary jumps to the first step end after the cursor.
func (s *Scrubber) nextBoundary() {
	for _, e := range s.ends {
		if e > s.t {
			s.seek(e)
			return
		}
	}
}

func (s *Scrubber) prevBoundary() {
	target := s.start
	for _, e := range s.ends {
		if e >= s.t {
			break
		}
		target = e
	}
	s.seek(target)
}

func (s *Scrubber) Init() tea.Cmd { return nil }

func (s *Scrubber) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return s, tea.Quit
		case "right", "l":
			s.move(fineSteps)
		case "left", "h":
			s.move(-fineSteps)
		case "shift+right", "L":
			s.move(coarseSteps)
		case "shift+left", "H":
			s.move(-coarseSteps)
		case "n":
			s.nextBoundary()
		case "p":
			s.prevBoundary()
		case "home", "g":
			s.seek(s.start)
		case "end", "G":
			s.seek(s.end)
		case "t":
			s.theme = s.theme.Next()
		}
	}
	return s, nil
}

func (s *Scrubber) View() string {
	var b strings.Builder
	b.WriteString(viz.Title.Render(s.title))
	b.WriteString("\n\n")

	frac := 0.0
	if s.end > s.start {
		frac = (s.t - s.start) / (s.end - s.start)
	}
	fmt.Fprintf(&b, "%s %s\n", s.theme.Label().Render(fmt.Sprintf("t = %-12.6g", s.t)), viz.ProgressBar(frac, sparkWidth))
	fmt.Fprintf(&b, "%s\n\n", viz.Subtle.Render(fmt.Sprintf("steps: %d  span: [%g, %g]", len(s.ends), s.start, s.end)))

	cursor := int(frac*float64(sparkWidth-1) + 0.5)
	for i, v := range s.state {
		label := s.theme.Label().Render(fmt.Sprintf("x%-3d", i))
		line := []rune(viz.Sparkline(s.grid.Column(i), sparkWidth))
		spark := string(line)
		if cursor < len(line) {
			spark = string(line[:cursor]) + s.theme.Cursor().Render(string(line[cursor])) + string(line[cursor+1:])
		}
		fmt.Fprintf(&b, "%s %s %s\n", label, spark, viz.MetricValue.Render(fmt.Sprintf("% .6e", v)))
	}
	if s.err != nil {
		b.WriteString("\n" + viz.StatusError.Render(s.err.Error()) + "\n")
	}

	b.WriteString("\n" + viz.KeyHint.Render("←/→ move  shift+←/→ jump  n/p step  g/G ends  t theme  q quit"))
	return lipgloss.NewStyle().MaxWidth(max(s.width, 20)).Render(b.String())
}

// Run starts the scrubber full screen and blocks until the user quits.
func Run(s *Scrubber) error {
	_, err := tea.NewProgram(s, tea.WithAltScreen()).Run()
	return err
}
