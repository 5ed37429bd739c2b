package screen

import (
	"github.com/aalvaropc/testdeck/internal/domain"
	"github.com/aalvaropc/testdeck/internal/route"
)

const (
	NoSuiteSelectedMessage = "No test suite selected"
	NoResultsMessage       = "No Results"
	RunningMessage         = "Running tests…"
)

type PaneOneKind int

const (
	PaneNoSuite PaneOneKind = iota
	PaneSuiteDetail
)

type PaneOne struct {
	Kind    PaneOneKind
	Suite   domain.TestSuite
	Message string
}

type PaneTwoKind int

const (
	PaneNoResults PaneTwoKind = iota
	PaneRunning
	PaneResult
)

type PaneTwo struct {
	Kind     PaneTwoKind
	ResultID string
	Message  string
}

// RoutePaneOne shows the selected suite when the path names a known one.
func RoutePaneOne(path string, suites []domain.TestSuite) PaneOne {
	p, ok := route.Match(route.SuitePattern, path)
	if ok {
		if s, found := domain.FindSuite(suites, p["testSuiteId"]); found {
			return PaneOne{Kind: PaneSuiteDetail, Suite: s}
		}
	}
	return PaneOne{Kind: PaneNoSuite, Message: NoSuiteSelectedMessage}
}

// RoutePaneTwo applies the results pane precedence. An active run always
// wins over a result named by the path.
func RoutePaneTwo(path string, runActive bool) PaneTwo {
	if runActive {
		return PaneTwo{Kind: PaneRunning, Message: RunningMessage}
	}
	if p, ok := route.Match(route.ResultPattern, path); ok {
		return PaneTwo{Kind: PaneResult, ResultID: p["testResultId"]}
	}
	return PaneTwo{Kind: PaneNoResults, Message: NoResultsMessage}
}
