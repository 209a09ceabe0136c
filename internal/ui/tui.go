package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/commitware/commitgen/internal/models"
)

// TUI components
var (
	App                *tview.Application
	MainFlex           *tview.Flex
	MessagePreview     *tview.TextView
	RationaleView      *tview.TextView
	LogView            *tview.TextView
	StatusBar          *tview.TextView
	ConfirmationResult bool
	ConfirmationDone   bool
)

// SetupTUI initializes the terminal UI components for the review screen.
func SetupTUI() {
	App = tview.NewApplication()
	MainFlex = tview.NewFlex().SetDirection(tview.FlexRow)

	header := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("commitgen").
		SetTextColor(tcell.ColorYellow)

	MessagePreview = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true).
		SetChangedFunc(func() {
			App.Draw()
		})
	MessagePreview.SetBorder(true)
	MessagePreview.SetTitle("Commit Message")
	MessagePreview.SetTitleColor(tcell.ColorGreen)

	RationaleView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true).
		SetChangedFunc(func() {
			App.Draw()
		})
	RationaleView.SetBorder(true)
	RationaleView.SetTitle("Classification")
	RationaleView.SetTitleColor(tcell.ColorBlue)

	// Configure log view with auto-scrolling
	LogView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true).
		SetChangedFunc(func() {
			App.QueueUpdateDraw(func() {
				LogView.ScrollToEnd()
			})
		})
	LogView.SetBorder(true)
	LogView.SetTitle("Log")
	LogView.SetTitleColor(tcell.ColorPurple)

	StatusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]Press Ctrl+C to exit[white]")

	reviewFlex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(MessagePreview, 0, 1, false).
		AddItem(RationaleView, 0, 1, false)

	MainFlex.AddItem(header, 1, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(reviewFlex, 0, 3, false).
			AddItem(LogView, 0, 2, false),
			0, 10, false).
		AddItem(StatusBar, 1, 1, false)

	// Add keyboard controls for scrolling logs
	App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			App.Stop()
			os.Exit(0)
			return nil
		}
		if event.Key() == tcell.KeyPgUp {
			_, _, _, height := LogView.GetInnerRect()
			row, _ := LogView.GetScrollOffset()
			LogView.ScrollTo(row-height+1, 0)
			return nil
		} else if event.Key() == tcell.KeyPgDn {
			_, _, _, height := LogView.GetInnerRect()
			row, _ := LogView.GetScrollOffset()
			LogView.ScrollTo(row+height-1, 0)
			return nil
		} else if event.Key() == tcell.KeyEnd {
			LogView.ScrollToEnd()
			return nil
		} else if event.Key() == tcell.KeyHome {
			LogView.ScrollTo(0, 0)
			return nil
		}
		return event
	})
}

// ShowReview fills the review panes with the generated message and the
// classification evidence behind it.
func ShowReview(message models.CommitMessage, result models.ClassificationResult, snapshot models.StatusSnapshot) {
	MessagePreview.Clear()
	fmt.Fprintf(MessagePreview, "[green]%s[white]\n", message.Header)
	if message.Body != "" {
		fmt.Fprintf(MessagePreview, "\n%s\n", message.Body)
	}
	for _, warning := range message.Warnings {
		fmt.Fprintf(MessagePreview, "\n[red]warning:[white] %s\n", warning)
	}

	RationaleView.Clear()
	fmt.Fprintf(RationaleView, "[yellow]Type:[white] %s\n", result.Type)
	scope := result.Scope
	if scope == "" {
		scope = "(none)"
	}
	fmt.Fprintf(RationaleView, "[yellow]Scope:[white] %s\n", scope)
	fmt.Fprintf(RationaleView, "[yellow]Confidence:[white] %s\n", result.Confidence)
	fmt.Fprintf(RationaleView, "[yellow]Branch:[white] %s (%d staged, %d unstaged, %d untracked)\n\n",
		snapshot.Branch, snapshot.Staged, snapshot.Unstaged, snapshot.Untracked)
	fmt.Fprintf(RationaleView, "[yellow]Evidence:[white]\n")
	for _, reason := range result.Rationale {
		fmt.Fprintf(RationaleView, "  - %s\n", reason)
	}
}

// ShowConfirmationDialog displays a confirmation dialog and waits for user input
func ShowConfirmationDialog(message string) bool {
	// Reset confirmation variables
	ConfirmationResult = false
	ConfirmationDone = false

	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"Yes", "No"}).
		SetFocus(1). // "No" is the safe default
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			ConfirmationResult = (buttonLabel == "Yes")
			ConfirmationDone = true
			App.SetRoot(MainFlex, true)
		}).
		SetBackgroundColor(tcell.ColorDefault).
		SetTextColor(tcell.ColorRed)

	App.SetRoot(modal, true)
	App.Draw()

	// Wait for the user's response
	for !ConfirmationDone {
		time.Sleep(100 * time.Millisecond)
	}

	return ConfirmationResult
}

// LogInfo logs an informational message
func LogInfo(format string, args ...interface{}) {
	logLine("yellow", "INFO", format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logLine("red", "ERROR", format, args...)
}

// LogSuccess logs a success message
func LogSuccess(format string, args ...interface{}) {
	logLine("green", "SUCCESS", format, args...)
}

func logLine(color, level, format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(LogView, "[blue]%s[white] [%s]%s[white]: %s\n", timestamp, color, level, strings.TrimSpace(msg))
}

// UpdateStatus updates the status bar text
func UpdateStatus(text string) {
	StatusBar.SetText(fmt.Sprintf("[yellow]%s[white]", text))
	App.Draw()
}
