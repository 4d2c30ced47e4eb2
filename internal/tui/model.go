package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/shadowscribe/internal/book"
	"github.com/csheth/shadowscribe/internal/diary"
	"github.com/csheth/shadowscribe/internal/editor"
	"github.com/csheth/shadowscribe/internal/llm"
	"github.com/csheth/shadowscribe/internal/lock"
	"github.com/csheth/shadowscribe/internal/logging"
	"github.com/csheth/shadowscribe/internal/promptctx"
	"github.com/csheth/shadowscribe/internal/store/jsonfile"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Diary      *diary.Diary
	Controller *book.Controller
	// LLM may be nil; whispers and analysis are then unavailable.
	LLM llm.Client
	// Changes reports edits made to the store by other processes.
	Changes <-chan jsonfile.ChangeEvent

	Pause         time.Duration
	FrameInterval time.Duration
	LLMTimeout    time.Duration
	DateLayout    string
	// MarkdownStyle is a glamour standard style; empty picks one from the terminal.
	MarkdownStyle string
	// LockCode, when set, puts a combination lock in front of the cover.
	LockCode      string
	Now           func() time.Time
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

func newModel(config Config) *model {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.FrameInterval <= 0 {
		config.FrameInterval = 50 * time.Millisecond
	}
	if config.DateLayout == "" {
		config.DateLayout = book.DefaultDateLayout
	}

	dateInput := textinput.New()
	dateInput.Placeholder = "e.g. The night of the storm"
	dateInput.CharLimit = 60
	dateInput.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &model{
		config:    config,
		diary:     config.Diary,
		ctrl:      config.Controller,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spin,
		dateInput: dateInput,
		layout:    newBookLayout(),
		prompts:   promptctx.NewBuilder(nil),
		jobs:      newJobBus(config.LLMTimeout),
		running:   map[string]jobSnapshot{},
		markdown:  newMarkdownCache(config.MarkdownStyle),
		log:       logging.Component("tui"),
	}
	if config.LockCode != "" {
		m.dial = lock.NewDial(config.LockCode)
		m.mode = modeLocked
	}
	return m
}

type model struct {
	config Config
	diary  *diary.Diary
	ctrl   *book.Controller

	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	dateInput textinput.Model
	layout    bookLayout
	prompts   *promptctx.Builder
	jobs      *jobBus
	markdown  *markdownCache
	log       zerolog.Logger

	mode    interactionMode
	overlay overlay

	dial        *lock.Dial
	editor      *editor.Editor
	editingPage int
	editingSide side
	datingPage  int

	tocCursor int
	frameSeq  uint64
	running   map[string]jobSnapshot
	// staleSpread marks an outside change that arrived mid-turn.
	staleSpread bool

	infoMessage  string
	errorMessage string

	// pending collects commands raised by editor callbacks during Update.
	pending []tea.Cmd
}

func (m *model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, m.flush(cmd)
}

func (m *model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return nil
	case spinner.TickMsg:
		if len(m.running) == 0 {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.stopWriting()
			return tea.Quit
		}
		switch m.mode {
		case modeWriting:
			return m.handleWritingKey(msg)
		case modeDating:
			return m.handleDatingKey(msg)
		case modeLocked:
			return m.handleLockedKey(msg)
		default:
			return m.handleReadingKey(msg)
		}
	case flipDoneMsg:
		if !m.ctrl.Finish(msg.seq) {
			return nil
		}
		if m.staleSpread && m.mode != modeWriting {
			m.staleSpread = false
			m.ctrl.Refresh(context.Background())
			m.setInfo("The diary changed on disk.")
		}
		m.clampTOCCursor()
		return nil
	case frameMsg:
		if msg.seq != m.frameSeq || !m.ctrl.Animating() {
			return nil
		}
		return m.frameTick(msg.seq)
	case pauseMsg:
		if m.editor != nil && msg.page == m.editingPage {
			m.editor.Pause(msg.seq)
		}
		return nil
	case whisperResultMsg:
		if m.mode != modeWriting || m.editor == nil || msg.page != m.editingPage {
			m.log.Debug().Int("page", msg.page).Msg("dropping whisper for page no longer being written")
			return nil
		}
		m.editor.ShowSuggestion(msg.text)
		return nil
	case analysisResultMsg:
		return m.applyAnalysis(msg)
	case jobSignalMsg:
		m.running[msg.Snapshot.ID] = msg.Snapshot
		if len(m.running) == 1 {
			return m.spinner.Tick
		}
		return nil
	case jobResultEnvelope:
		delete(m.running, msg.Snapshot.ID)
		if msg.Snapshot.Status == jobStatusFailed {
			if msg.Snapshot.Kind == jobKindAnalysis {
				m.setError("The shadow is silent: " + msg.Snapshot.Err)
			}
			return nil
		}
		if msg.Payload != nil {
			return m.update(msg.Payload)
		}
		return nil
	case storeChangedMsg:
		switch {
		case m.ctrl.Animating():
			m.staleSpread = true
		case m.mode != modeWriting:
			m.ctrl.Refresh(context.Background())
			m.clampTOCCursor()
			m.setInfo("The diary changed on disk.")
		}
		return m.waitForChange()
	case storeClosedMsg:
		return nil
	}

	if m.mode == modeDating {
		var cmd tea.Cmd
		m.dateInput, cmd = m.dateInput.Update(msg)
		return cmd
	}
	return nil
}

func (m *model) flush(cmd tea.Cmd) tea.Cmd {
	if len(m.pending) == 0 {
		return cmd
	}
	cmds := append(m.pending, cmd)
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

func (m *model) handleReadingKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()
	m.errorMessage = ""

	switch {
	case key.Matches(msg, m.keys.Back):
		m.overlay = overlayNone
		return nil
	case key.Matches(msg, m.keys.Next):
		return m.startTurn(m.ctrl.HandleKey(ctx, "right", false))
	case key.Matches(msg, m.keys.Prev):
		return m.startTurn(m.ctrl.HandleKey(ctx, "left", false))
	case key.Matches(msg, m.keys.Close):
		return m.startTurn(m.ctrl.CloseBook(ctx))
	case key.Matches(msg, m.keys.Help):
		m.toggleOverlay(overlayHelp)
		return nil
	case key.Matches(msg, m.keys.LooseLeaf):
		m.toggleOverlay(overlayLooseLeaf)
		return nil
	case key.Matches(msg, m.keys.Analyze):
		return m.requestAnalysis(m.focusedPage())
	case key.Matches(msg, m.keys.WriteR):
		return m.startWriting(sideRight)
	case key.Matches(msg, m.keys.WriteL):
		return m.startWriting(sideLeft)
	case key.Matches(msg, m.keys.Date):
		return m.startDating()
	}

	if m.ctrl.Animating() || m.ctrl.Spread().Left.Kind != book.SlotTOC {
		return nil
	}
	entries := m.ctrl.Spread().Left.TOC
	switch {
	case key.Matches(msg, m.keys.Up):
		m.tocCursor = max(m.tocCursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.tocCursor = min(m.tocCursor+1, max(len(entries)-1, 0))
	case key.Matches(msg, m.keys.Open):
		if m.tocCursor < len(entries) {
			return m.startTurn(m.ctrl.JumpTo(ctx, entries[m.tocCursor].PageNumber))
		}
	}
	return nil
}

func (m *model) handleWritingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Stop):
		m.stopWriting()
		return nil
	case key.Matches(msg, m.keys.AnalyzeWrite):
		return m.requestAnalysis(m.editingPage)
	}

	k := editor.ParseKey(msg.String(), msg.Runes)
	res := m.editor.HandleKey(k)
	if res.Timer == nil {
		return nil
	}
	return m.pauseTick(m.editingPage, *res.Timer)
}

func (m *model) handleDatingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.finishDating()
		return nil
	case tea.KeyEnter:
		label := strings.TrimSpace(m.dateInput.Value())
		if _, err := m.diary.SetCustomDate(context.Background(), m.datingPage, label); err != nil {
			m.log.Warn().Err(err).Int("page", m.datingPage).Msg("set custom date failed")
			m.setError(fmt.Sprintf("Could not date page %d.", m.datingPage))
		} else {
			m.setInfo(fmt.Sprintf("Page %d dated.", m.datingPage))
		}
		m.finishDating()
		m.ctrl.Refresh(context.Background())
		return nil
	}
	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return cmd
}

// handleLockedKey works the rollers: ←/→ pick a roller, ↑/↓ turn it and a
// digit sets it and moves on.
func (m *model) handleLockedKey(msg tea.KeyMsg) tea.Cmd {
	var open bool
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.dial.Select(-1)
	case key.Matches(msg, m.keys.Next):
		m.dial.Select(1)
	case key.Matches(msg, m.keys.Up):
		open = m.dial.Roll(1)
	case key.Matches(msg, m.keys.Down):
		open = m.dial.Roll(-1)
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9':
		open = m.dial.Set(int(msg.Runes[0] - '0'))
	}
	if open {
		m.dial = nil
		m.mode = modeReading
		m.log.Info().Msg("diary unlocked")
		m.setInfo(unlockedText)
	}
	return nil
}

func (m *model) startTurn(t book.Transition, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	m.frameSeq = t.Seq
	return tea.Batch(flipDone(t), m.frameTick(t.Seq))
}

func (m *model) startWriting(s side) tea.Cmd {
	if m.ctrl.Animating() {
		return nil
	}
	spread := m.ctrl.Spread()
	slot := spread.Right
	if s == sideLeft {
		slot = spread.Left
	}
	if slot.Kind != book.SlotPage {
		m.setInfo("There is no page to write on here.")
		return nil
	}

	m.editingPage = slot.Page.PageNumber
	m.editingSide = s
	m.editor = editor.New(m.config.Pause, editor.Callbacks{
		OnChange:  m.saveContent,
		OnPause:   m.requestWhisper,
		OnAccept:  func(text string) { m.log.Debug().Int("page", m.editingPage).Str("text", text).Msg("whisper accepted") },
		OnDiscard: func() { m.log.Debug().Int("page", m.editingPage).Msg("whisper discarded") },
	})
	m.editor.SetContent(slot.Page.Content)
	m.editor.Focus()
	m.mode = modeWriting
	m.overlay = overlayNone
	m.setInfo(fmt.Sprintf("Writing on page %d. Esc to stop.", m.editingPage))
	return nil
}

func (m *model) stopWriting() {
	if m.editor == nil {
		return
	}
	m.editor.Blur()
	m.editor.Close()
	m.editor = nil
	m.editingPage = 0
	m.mode = modeReading
	m.staleSpread = false
	m.ctrl.Refresh(context.Background())
	m.infoMessage = ""
}

func (m *model) startDating() tea.Cmd {
	page := m.focusedPage()
	if page < 1 {
		m.setInfo("There is no page to date here.")
		return nil
	}
	current, err := m.diary.Page(context.Background(), page)
	if err != nil {
		m.setError(fmt.Sprintf("Could not load page %d.", page))
		return nil
	}
	m.datingPage = page
	m.dateInput.SetValue(current.CustomDate)
	m.dateInput.CursorEnd()
	m.mode = modeDating
	return m.dateInput.Focus()
}

func (m *model) finishDating() {
	m.dateInput.Blur()
	m.dateInput.SetValue("")
	m.datingPage = 0
	m.mode = modeReading
}

func (m *model) saveContent(content string) {
	page := m.editingPage
	if _, err := m.diary.SetContent(context.Background(), page, content); err != nil {
		m.log.Warn().Err(err).Int("page", page).Msg("save page failed")
		m.setError(fmt.Sprintf("Could not save page %d.", page))
	}
}

func (m *model) requestWhisper() {
	if m.config.LLM == nil || m.editor == nil {
		return
	}
	page := m.editingPage
	promptContext := m.prompts.For(promptctx.PurposeWhisper, m.editor.Value())
	if strings.TrimSpace(promptContext) == "" {
		return
	}
	client := m.config.LLM
	m.queue(m.jobs.Start(jobKindWhisper, func(ctx context.Context) (tea.Msg, error) {
		text, err := client.Complete(ctx, promptContext)
		if err != nil {
			return nil, err
		}
		return whisperResultMsg{page: page, text: text}, nil
	}))
}

func (m *model) requestAnalysis(page int) tea.Cmd {
	if m.config.LLM == nil {
		m.setInfo("No shadow is listening; configure llm.provider.")
		return nil
	}
	if page < 1 {
		m.setInfo("There is no page to analyze here.")
		return nil
	}
	content := m.pageContent(page)
	pkg := m.prompts.Build(content)
	sourceText := pkg.Sections[promptctx.PurposeAnalysis]
	tagsText := pkg.Sections[promptctx.PurposeTags]
	if strings.TrimSpace(sourceText) == "" {
		m.setInfo(fmt.Sprintf("Page %d is empty; the shadow has nothing to read.", page))
		return nil
	}

	client := m.config.LLM
	log := m.log
	m.setInfo(fmt.Sprintf("The shadow is reading page %d…", page))
	return m.jobs.Start(jobKindAnalysis, func(ctx context.Context) (tea.Msg, error) {
		analysis, err := client.Analyze(ctx, sourceText)
		if err != nil {
			return nil, err
		}
		tags, err := client.Tags(ctx, tagsText)
		if err != nil {
			log.Warn().Err(err).Int("page", page).Msg("tagging failed; keeping analysis")
			tags = nil
		}
		return analysisResultMsg{page: page, analysis: analysis, tags: tags}, nil
	})
}

func (m *model) applyAnalysis(msg analysisResultMsg) tea.Cmd {
	if _, err := m.diary.SetShadow(context.Background(), msg.page, msg.analysis, msg.tags); err != nil {
		m.log.Warn().Err(err).Int("page", msg.page).Msg("store analysis failed")
		m.setError(fmt.Sprintf("Could not keep the analysis of page %d.", msg.page))
		return nil
	}
	if m.mode != modeWriting && !m.ctrl.Animating() {
		m.ctrl.Refresh(context.Background())
	}
	m.overlay = overlayLooseLeaf
	m.setInfo(fmt.Sprintf("A loose leaf slipped out beside page %d.", msg.page))
	return nil
}

// pageContent prefers the live editor for the page being written.
func (m *model) pageContent(page int) string {
	if m.editor != nil && page == m.editingPage {
		return m.editor.Value()
	}
	p, err := m.diary.Page(context.Background(), page)
	if err != nil {
		m.log.Warn().Err(err).Int("page", page).Msg("load page failed")
		return ""
	}
	return p.Content
}

// focusedPage is the diary page the reader is looking at: the page being
// written, else the right page, else the left page. 0 means none.
func (m *model) focusedPage() int {
	if m.editor != nil {
		return m.editingPage
	}
	spread := m.ctrl.Spread()
	if n := spread.Right.PageNumber(); n > 0 {
		return n
	}
	return spread.Left.PageNumber()
}

func (m *model) toggleOverlay(o overlay) {
	if m.overlay == o {
		m.overlay = overlayNone
		return
	}
	m.overlay = o
}

func (m *model) clampTOCCursor() {
	entries := m.ctrl.Spread().Left.TOC
	if m.tocCursor >= len(entries) {
		m.tocCursor = max(len(entries)-1, 0)
	}
}

func (m *model) setInfo(msg string) {
	m.infoMessage = msg
	m.errorMessage = ""
}

func (m *model) setError(msg string) {
	m.errorMessage = msg
}

func (m *model) now() time.Time {
	return m.config.Now()
}
