package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows the counting session timers and the number of
// finished sessions.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetCompleted(n int)
}

type sessionStats struct {
	sessionLbl   *LabelWidget
	totalLbl     *LabelWidget
	completedLbl *LabelWidget
}

// NewSessionStats creates the labels in a row of parent starting at startCol.
// If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{sessionLbl: Label(Width(14)), totalLbl: Label(Width(14)), completedLbl: Label(Width(12))}
	for i, lbl := range []*LabelWidget{s.sessionLbl, s.totalLbl, s.completedLbl} {
		if parent != nil {
			Grid(lbl, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(lbl, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.sessionLbl.Configure(Txt("Session: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	s.completedLbl.Configure(Txt("Stacks: 0"))
	return s
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SetSession updates the session duration display.
func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Session: " + clock(d)))
}

// SetTotal updates the total duration display.
func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + clock(d)))
}

// SetCompleted updates the finished session counter.
func (s *sessionStats) SetCompleted(n int) {
	if s == nil || s.completedLbl == nil {
		return
	}
	s.completedLbl.Configure(Txt(fmt.Sprintf("Stacks: %d", n)))
}
