package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/gbasm/tools"
)

// Inspector is a static terminal browser over one assembly source file's
// lint issues and cross-reference table. It carries no execution state:
// there is no CPU, no registers, no stepping — only the view layer over
// tools.Linter/tools.XRefGenerator output.
type Inspector struct {
	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	SourceView *tview.TextView
	LintView   *tview.List
	XRefView   *tview.TreeView
	StatusView *tview.TextView

	SourceFile  string
	SourceLines []string
	Issues      []*tools.LintIssue
	Symbols     map[string]*tools.Symbol
}

// NewInspector reads path, runs the linter and cross-referencer over it,
// and builds the terminal layout.
func NewInspector(path string) (*Inspector, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path given on the command line
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	source := string(raw)

	ins := &Inspector{
		App:         tview.NewApplication(),
		SourceFile:  path,
		SourceLines: strings.Split(source, "\n"),
		Issues:      tools.NewLinter(tools.DefaultLintOptions()).Lint(source, path),
	}

	if symbols, err := tools.NewXRefGenerator().Generate(source, path); err == nil {
		ins.Symbols = symbols
	} else {
		ins.Symbols = map[string]*tools.Symbol{}
	}

	ins.initializeViews()
	ins.buildLayout()
	ins.setupKeyBindings()

	return ins, nil
}

func (ins *Inspector) initializeViews() {
	ins.SourceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	ins.SourceView.SetBorder(true).SetTitle(" " + ins.SourceFile + " ")
	ins.SourceView.SetText(strings.Join(ins.SourceLines, "\n"))

	ins.LintView = tview.NewList().ShowSecondaryText(false)
	ins.LintView.SetBorder(true).SetTitle(fmt.Sprintf(" Lint (%d) ", len(ins.Issues)))
	for _, issue := range ins.Issues {
		text := issue.String()
		line := issue.Line
		ins.LintView.AddItem(text, "", 0, func() {
			ins.jumpToLine(line)
		})
	}

	ins.XRefView = tview.NewTreeView()
	ins.XRefView.SetBorder(true).SetTitle(" Cross-reference ")
	root := tview.NewTreeNode(ins.SourceFile).SetSelectable(false)
	ins.XRefView.SetRoot(root).SetCurrentNode(root)
	for name, sym := range ins.Symbols {
		kind := "label"
		if sym.IsConstant {
			kind = "constant"
		}
		symNode := tview.NewTreeNode(fmt.Sprintf("%s (%s)", name, kind))
		line := 0
		if sym.Definition != nil {
			line = sym.Definition.Line
			symNode.SetText(fmt.Sprintf("%s (%s) @%d", name, kind, line))
		}
		symNode.SetReference(line)
		for _, ref := range sym.References {
			refLine := ref.Line
			refNode := tview.NewTreeNode(fmt.Sprintf("%s @%d", ref.Type, refLine)).SetReference(refLine)
			symNode.AddChild(refNode)
		}
		root.AddChild(symNode)
	}
	ins.XRefView.SetSelectedFunc(func(node *tview.TreeNode) {
		if line, ok := node.GetReference().(int); ok && line > 0 {
			ins.jumpToLine(line)
		}
	})

	ins.StatusView = tview.NewTextView().SetDynamicColors(true)
	ins.StatusView.SetText("[yellow]Tab[white]: switch panel   [yellow]Enter[white]: jump to line   [yellow]Ctrl-C[white]: quit")
}

func (ins *Inspector) buildLayout() {
	ins.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ins.SourceView, 0, 1, false)

	ins.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ins.LintView, 0, 1, true).
		AddItem(ins.XRefView, 0, 1, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ins.LeftPanel, 0, 2, false).
		AddItem(ins.RightPanel, 0, 1, true)

	ins.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, true).
		AddItem(ins.StatusView, 1, 0, false)

	ins.Pages = tview.NewPages().AddPage("main", ins.MainLayout, true, true)
	ins.App.SetRoot(ins.Pages, true)
}

func (ins *Inspector) setupKeyBindings() {
	panels := []tview.Primitive{ins.LintView, ins.XRefView, ins.SourceView}
	focused := 0

	ins.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			focused = (focused + 1) % len(panels)
			ins.App.SetFocus(panels[focused])
			return nil
		case tcell.KeyCtrlC:
			ins.App.Stop()
			return nil
		}
		return event
	})
}

// jumpToLine scrolls the source view to line (1-indexed) and highlights it.
func (ins *Inspector) jumpToLine(line int) {
	if line < 1 || line > len(ins.SourceLines) {
		return
	}
	ins.SourceView.SetText(ins.highlightedSource(line))
	ins.SourceView.ScrollTo(line-1, 0)
}

func (ins *Inspector) highlightedSource(line int) string {
	var out strings.Builder
	for i, l := range ins.SourceLines {
		if i+1 == line {
			fmt.Fprintf(&out, "[black:yellow]%s[-:-]\n", l)
		} else {
			out.WriteString(l + "\n")
		}
	}
	return out.String()
}
