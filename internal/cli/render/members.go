package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pithos-gov/pithos/internal/domain"
)

// MemberRow is one member with its constituent count
type MemberRow struct {
	Member       domain.Member
	Constituents int
}

// MembersRenderer renders the delegation graph as a table
type MembersRenderer struct {
	out   io.Writer
	color bool
}

// NewMembersRenderer creates a new members renderer
func NewMembersRenderer(out io.Writer, color bool) *MembersRenderer {
	return &MembersRenderer{
		out:   out,
		color: color,
	}
}

// Render renders one row per member
func (r *MembersRenderer) Render(rows []MemberRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(r.out, "No members yet")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{r.paint("MEMBER"), r.paint("DELEGATES TO"), r.paint("TYPE"),
		r.paint("ACCEPTS"), r.paint("CONSTITUENTS")})
	for _, row := range rows {
		m := row.Member
		delegate, kind := "-", "-"
		if m.Delegate != nil {
			delegate, kind = string(*m.Delegate), m.DelegationType.String()
		}
		accepts := "no"
		if m.AcceptsDelegates {
			accepts = "yes"
		}
		t.AppendRow(table.Row{string(m.ID), delegate, kind, accepts, row.Constituents})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func (r *MembersRenderer) paint(s string) string {
	if !r.color {
		return s
	}
	return headerStyle.Sprint(s)
}

var _ Renderer[[]MemberRow] = (*MembersRenderer)(nil)
