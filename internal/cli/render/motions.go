package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/usecase"
)

var (
	idStyle      = color.New(color.FgCyan, color.Bold)
	headerStyle  = color.New(color.Bold, color.FgHiWhite)
	leaderStyle  = color.New(color.FgGreen, color.Bold)
	expiryStyle  = color.New(color.Faint)
	summaryStyle = color.New(color.FgYellow)
)

// MotionsRenderer renders motions and their tallies
type MotionsRenderer struct {
	out   io.Writer
	color bool
}

// NewMotionsRenderer creates a new motions renderer
func NewMotionsRenderer(out io.Writer, color bool) *MotionsRenderer {
	return &MotionsRenderer{
		out:   out,
		color: color,
	}
}

// RenderMotionList renders the running motions as a table
func (r *MotionsRenderer) RenderMotionList(motions []*domain.Motion) error {
	if len(motions) == 0 {
		fmt.Fprintln(r.out, "No currently running motions")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{r.paint(headerStyle, "ID"), r.paint(headerStyle, "MOTION"),
		r.paint(headerStyle, "OPTIONS"), r.paint(headerStyle, "VOTING ENDS")})
	for _, m := range motions {
		t.AppendRow(table.Row{
			r.paint(idStyle, fmt.Sprintf("#%d", m.ID)),
			m.Description,
			len(m.Options),
			r.paint(expiryStyle, m.Expires.UTC().Format(usecase.TimeLayout)),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderTally renders the effective vote count of a motion
func (r *MotionsRenderer) RenderTally(result *usecase.TallyResult, now time.Time) error {
	m := result.Motion
	tally := result.Tally

	status := "voting ends " + m.Expires.UTC().Format(usecase.TimeLayout)
	if m.IsExpired(now) {
		status = "voting ended " + m.Expires.UTC().Format(usecase.TimeLayout)
	}
	fmt.Fprintf(r.out, "%s %s\n%s\n\n", r.paint(idStyle, fmt.Sprintf("#%d", m.ID)), m.Description, r.paint(expiryStyle, status))

	t := newTable()
	t.AppendHeader(table.Row{r.paint(headerStyle, "OPTION"), r.paint(headerStyle, "DESCRIPTION"), r.paint(headerStyle, "VOTES")})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})

	leading := !tally.Tied()
	for _, opt := range m.Options {
		desc := opt.Description
		if leading && lo.Contains(tally.Leaders, opt.Number) {
			desc = r.paint(leaderStyle, desc)
		}
		t.AppendRow(table.Row{fmt.Sprintf("[%d]", opt.Number), desc, tally.Counts[opt.Number]})
	}
	fmt.Fprintln(r.out, t.Render())

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.paint(summaryStyle, fmt.Sprintf("%d direct, %d delegated, %d abstained",
		tally.Direct, tally.Delegated, tally.Abstentions)))
	if tally.Tied() {
		names := lo.Map(tally.Leaders, func(n int, _ int) string { return fmt.Sprintf("[%d]", n) })
		fmt.Fprintf(r.out, "Tied between %s\n", strings.Join(names, ", "))
	}
	return nil
}

func (r *MotionsRenderer) paint(c *color.Color, s string) string {
	if !r.color {
		return s
	}
	return c.Sprint(s)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
	}
	return t
}
