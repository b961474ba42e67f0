package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/bz888/dualchat/internal/api"
	serverClient "github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/chat"
	"github.com/bz888/dualchat/internal/logger"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	keyPage  = "key"
	chatPage = "chat"

	defaultLang1 = "English"
	defaultLang2 = "Spanish"
)

var (
	app          *tview.Application
	pages        *tview.Pages
	debugConsole *tview.TextView
	localLogger  *logger.Logger
)

func Init() {
	app = tview.NewApplication()
	app.EnablePaste(true)
	app.EnableMouse(true)

	debugConsole = initDebugConsole()
}

func initDebugConsole() *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

func GetDebugConsole() (*tview.TextView, error) {
	if debugConsole == nil {
		return nil, errors.New("debug console not initialized")
	}
	return debugConsole, nil
}

// Run shows the key page, then the chat page once the key is confirmed. It
// returns when the user quits or ctx ends.
func Run(ctx context.Context, c *api.Client, dev bool) error {
	localLogger = logger.NewLogger("views")

	opts, err := c.Options(ctx)
	if err != nil {
		return fmt.Errorf("load options: %w", err)
	}
	var languages []string
	for _, l := range opts.Languages {
		languages = append(languages, l.Name)
	}

	v := &views{client: c, ctx: ctx, draw: func(f func()) { app.QueueUpdateDraw(f) }}
	pages = tview.NewPages().
		AddPage(keyPage, v.keyPage(), true, true).
		AddPage(chatPage, v.chatPage(opts.Models, languages), true, false)

	root := tview.NewFlex().AddItem(pages, 0, 2, true)
	showDebug := dev
	if showDebug {
		root.AddItem(debugConsole, 0, 1, false)
	}
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlD {
			showDebug = !showDebug
			if showDebug {
				root.AddItem(debugConsole, 0, 1, false)
			} else {
				root.RemoveItem(debugConsole)
			}
			return nil
		}
		return event
	})

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	return app.SetRoot(root, true).SetFocus(v.keyForm).Run()
}

type views struct {
	client *api.Client
	ctx    context.Context
	draw   func(func())

	keyForm   *tview.Form
	keyStatus *tview.TextView

	chatForm   *tview.Form
	prompt     *tview.InputField
	model      *tview.DropDown
	lang1      *tview.DropDown
	lang2      *tview.DropDown
	panels     [2]*tview.TextView
	chatStatus *tview.TextView
	sending    atomic.Bool
}

func newStatusLine() *tview.TextView {
	return tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
}

func (v *views) keyPage() tview.Primitive {
	v.keyStatus = newStatusLine()
	v.keyForm = tview.NewForm().
		AddPasswordField("API key", "", 60, '*', nil).
		AddButton("Confirm", v.confirmKey).
		AddButton("Quit", func() { app.Stop() })
	v.keyForm.SetTitle("Enter your OpenAI API key").SetBorder(true)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.keyForm, 7, 0, true).
		AddItem(v.keyStatus, 2, 0, false).
		AddItem(tview.NewTextView().SetText("Keys: https://platform.openai.com/account/api-keys"), 1, 0, false)
	return createModal(layout, 80, 10)
}

func (v *views) confirmKey() {
	key := v.keyForm.GetFormItemByLabel("API key").(*tview.InputField).GetText()
	setStatus(v.keyStatus, "", "Checking key...")

	go func() {
		err := v.client.ConfirmKey(v.ctx, key)
		v.draw(func() {
			if err != nil {
				localLogger.Warn("Key not confirmed")
				showError(v.keyStatus, err)
				return
			}
			setStatus(v.keyStatus, "", "")
			v.keyForm.GetFormItemByLabel("API key").(*tview.InputField).SetText("")
			pages.SwitchToPage(chatPage)
			app.SetFocus(v.prompt)
		})
	}()
}

func (v *views) chatPage(models, languages []string) tview.Primitive {
	v.chatStatus = newStatusLine()

	v.chatForm = tview.NewForm().SetHorizontal(true).
		AddButton("Reset API Key", v.resetKey).
		AddDropDown("Model", models, 0, nil).
		AddInputField("Request", "", 40, nil, nil).
		AddDropDown("Language 1", languages, indexOf(languages, defaultLang1), nil).
		AddDropDown("Language 2", languages, indexOf(languages, defaultLang2), nil).
		AddButton("Send", v.send)
	v.chatForm.SetBorder(true)

	v.model = v.chatForm.GetFormItemByLabel("Model").(*tview.DropDown)
	v.prompt = v.chatForm.GetFormItemByLabel("Request").(*tview.InputField)
	v.lang1 = v.chatForm.GetFormItemByLabel("Language 1").(*tview.DropDown)
	v.lang2 = v.chatForm.GetFormItemByLabel("Language 2").(*tview.DropDown)
	v.prompt.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			v.send()
		}
	})

	panels := tview.NewFlex()
	for i := range v.panels {
		v.panels[i] = tview.NewTextView().SetDynamicColors(false).SetWordWrap(true).SetScrollable(true)
		v.panels[i].SetBorder(true)
		panels.AddItem(v.panels[i], 0, 1, false)
	}

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.chatForm, 5, 0, true).
		AddItem(v.chatStatus, 2, 0, false).
		AddItem(panels, 0, 1, false)
}

func (v *views) resetKey() {
	go func() {
		if err := v.client.ResetKey(v.ctx); err != nil {
			localLogger.Error("Failed to reset key:", err)
		}
		v.draw(v.showKeyPage)
	}()
}

// showKeyPage clears the chat page and returns to the key step.
func (v *views) showKeyPage() {
	for _, p := range v.panels {
		p.Clear().SetTitle("")
	}
	setStatus(v.chatStatus, "", "")
	pages.SwitchToPage(keyPage)
	app.SetFocus(v.keyForm)
}

func (v *views) send() {
	if !v.sending.CompareAndSwap(false, true) {
		return
	}

	_, model := v.model.GetCurrentOption()
	_, lang1 := v.lang1.GetCurrentOption()
	_, lang2 := v.lang2.GetCurrentOption()
	req := serverClient.ChatRequest{Model: model, Prompt: v.prompt.GetText(), Lang1: lang1, Lang2: lang2}

	setStatus(v.chatStatus, "", "Sending...")
	display := &panelDisplay{views: v, langs: [2]string{lang1, lang2}}

	go func() {
		defer v.sending.Store(false)
		err := v.client.Chat(v.ctx, req, display)
		if err == nil || display.failed {
			return
		}
		v.draw(func() { v.submitRejected(err) })
	}()
}

// submitRejected reports a submit the server refused. A session that is no
// longer confirmed, e.g. expired while idle, goes back to the key step.
func (v *views) submitRejected(err error) {
	var respErr *api.ResponseError
	if errors.As(err, &respErr) && respErr.Status == http.StatusUnauthorized {
		localLogger.Warn("Session no longer confirmed")
		v.showKeyPage()
		showError(v.keyStatus, err)
		return
	}
	showError(v.chatStatus, err)
}

// panelDisplay draws renderer output into the two panels. It is driven from
// the submit goroutine, so every widget change goes through views.draw.
type panelDisplay struct {
	views   *views
	langs   [2]string
	started bool
	failed  bool
}

func (d *panelDisplay) start() {
	if d.started {
		return
	}
	d.started = true
	d.views.draw(func() {
		for i, p := range d.views.panels {
			p.Clear().SetTitle(d.langs[i] + " response")
		}
	})
}

func (d *panelDisplay) Update(side chat.Side, text string) {
	d.start()
	panel := d.views.panels[side.Index()]
	d.views.draw(func() {
		panel.SetText(text)
		panel.ScrollToEnd()
	})
}

// Fail leaves whatever text already arrived in the panels; they just stop
// updating.
func (d *panelDisplay) Fail(err error) {
	d.failed = true
	d.views.draw(func() {
		showError(d.views.chatStatus, err)
	})
}

func (d *panelDisplay) Done() {
	d.start()
	d.views.draw(func() {
		setStatus(d.views.chatStatus, "", "")
	})
}

func setStatus(status *tview.TextView, color, text string) {
	text = tview.Escape(text)
	if color != "" {
		text = "[" + color + "]" + text + "[-]"
	}
	status.SetText(text)
}

func showError(status *tview.TextView, err error) {
	var respErr *api.ResponseError
	switch {
	case errors.As(err, &respErr) && respErr.Warning:
		setStatus(status, "yellow", respErr.Message)
	case errors.As(err, &respErr) && respErr.Hint != "":
		setStatus(status, "red", respErr.Message+" "+respErr.Hint)
	default:
		setStatus(status, "red", err.Error())
	}
}

func createModal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

func indexOf(options []string, want string) int {
	for i, o := range options {
		if o == want {
			return i
		}
	}
	return 0
}
