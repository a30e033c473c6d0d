// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/inkwell-dev/sync-core/internal/store"
	"github.com/inkwell-dev/sync-core/internal/syncmanager"
	"github.com/inkwell-dev/sync-core/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type addStage int

const (
	addStageNone addStage = iota
	addStageType
	addStageMeta
	addStageBody
)

const bodyBlockType = "text"

type mainLoopModel struct {
	ctx     context.Context
	entries store.ClientEntryRepository
	mgr     syncmanager.Manager
	userID  int64
	debug   bool

	items                 []models.Entry
	idx                   int
	loading               bool
	syncing               bool
	status                string
	errMsg                string
	detail                bool
	editing               bool

	editTitleInput textinput.Model
	editTagsInput  textinput.Model
	editBodyArea   textarea.Model
	editFocus      int
	editSubmitting bool
	editEntry      models.Entry

	addStage      addStage
	addTypeOpts   []models.EntryType
	addTypeIdx    int
	addErr        string
	addFields     models.SyncableFields
	addTitleInput textinput.Model
	addTagsInput  textinput.Model
	addMetaFocus  int
	addBodyArea   textarea.Model
	addSaving     bool

	logout bool
}

type listLoadedMsg struct {
	items []models.Entry
	err   error
}

type syncDoneMsg struct {
	err error
}

type deleteDoneMsg struct {
	err error
}

type updateDoneMsg struct {
	err error
}

type createDoneMsg struct {
	err error
}

var errUserIDNotSet = errors.New("user id не установлен")
var errEntryUUIDNotSet = errors.New("uuid записи не установлен")

func newMainLoopModel(ctx context.Context, entries store.ClientEntryRepository, mgr syncmanager.Manager, userID int64, buildInfo models.AppBuildInfo) mainLoopModel {
	_ = buildInfo

	effectiveUserID := userID
	if effectiveUserID == 0 {
		effectiveUserID = getSessionUserID()
	}
	if effectiveUserID > 0 {
		setSessionUserID(effectiveUserID)
	}

	return mainLoopModel{
		ctx:      ctx,
		entries:  entries,
		mgr:      mgr,
		userID:   effectiveUserID,
		debug:    isTUIDebugEnabled(),
		loading:  true,
		addTypeOpts: []models.EntryType{
			models.EntryTypeJournal,
			models.EntryTypeChat,
			models.EntryTypeCountdown,
		},
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return m.cmdLoadItems()
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.items = msg.items
		if m.idx >= len(m.items) {
			m.idx = len(m.items) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil
	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.errMsg = syncErrorMessage(msg.err)
			return m, nil
		}
		m.status = "Синхронизация завершена"
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadItems()
	case deleteDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Ошибка удаления: %v", msg.err)
			return m, nil
		}
		m.status = "Запись удалена"
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadItems()
	case updateDoneMsg:
		m.editSubmitting = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Ошибка изменения: %v", msg.err)
			return m, nil
		}
		m.editing = false
		m.status = "Запись обновлена"
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadItems()
	case createDoneMsg:
		m.addSaving = false
		if msg.err != nil {
			m.status = "Возникла ошибка"
			m.errMsg = msg.err.Error()
			m.resetAddFlow()
			return m, nil
		}
		m.status = "Запись добавлена!"
		m.errMsg = ""
		m.resetAddFlow()
		m.loading = true
		return m, m.cmdLoadItems()
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.addStage != addStageNone {
			return m.updateAddFlow(msg)
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	if m.addStage != addStageNone {
		return m.updateAddFlow(msg)
	}

	if m.editing {
		return m.updateEditing(msg)
	}

	if m.detail {
		item, ok := m.current()
		if !ok {
			m.detail = false
			return m, nil
		}

		switch keyMsg.String() {
		case "esc":
			m.detail = false
		case "e":
			m.detail = false
			m.startEdit(item)
			return m, nil
		case "ctrl+d":
			if strings.TrimSpace(item.UUID) == "" {
				m.errMsg = fmt.Sprintf("Ошибка удаления: %v", errEntryUUIDNotSet)
				return m, nil
			}
			m.detail = false
			return m, m.cmdDelete(item.UUID)
		case "c":
			text, ok := entryBody(item)
			if !ok {
				m.status = "Нечего копировать"
				return m, nil
			}
			if err := clipboard.WriteAll(text); err != nil {
				m.errMsg = fmt.Sprintf("Ошибка копирования: %v", err)
				return m, nil
			}
			m.status = "Скопировано"
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "up":
		if m.idx > 0 {
			m.idx--
		}
	case "down":
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case "a":
		m.startAddFlow()
		return m, nil
	case "s":
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status = "Синхронизация..."
		m.errMsg = ""
		return m, m.cmdSync()
	case "enter":
		if _, ok := m.current(); !ok {
			m.status = "Нет записей"
			return m, nil
		}
		m.detail = true
	case "e":
		item, ok := m.current()
		if !ok {
			m.status = "Нет записей"
			return m, nil
		}
		m.startEdit(item)
		return m, nil
	case "ctrl+d":
		item, ok := m.current()
		if !ok {
			m.status = "Нет записей"
			return m, nil
		}
		if strings.TrimSpace(item.UUID) == "" {
			m.errMsg = fmt.Sprintf("Ошибка удаления: %v", errEntryUUIDNotSet)
			return m, nil
		}
		return m, m.cmdDelete(item.UUID)
	case "l":
		m.logout = true
		return m, tea.Quit
	}

	return m, nil
}

func (m mainLoopModel) updateAddFlow(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.addStage {
	case addStageType:
		return m.updateAddType(msg)
	case addStageMeta:
		return m.updateAddMeta(msg)
	case addStageBody:
		return m.updateAddBody(msg)
	default:
		return m, nil
	}
}

func (m mainLoopModel) updateAddType(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.resetAddFlow()
		return m, nil
	case "up":
		if m.addTypeIdx > 0 {
			m.addTypeIdx--
		}
	case "down":
		if m.addTypeIdx < len(m.addTypeOpts)-1 {
			m.addTypeIdx++
		}
	case "1", "2", "3":
		m.addTypeIdx = int(keyMsg.String()[0] - '1')
		m.selectAddType()
		return m, nil
	case "enter":
		m.selectAddType()
		return m, nil
	}

	return m, nil
}

func (m *mainLoopModel) selectAddType() {
	now := time.Now().UnixMilli()
	m.addFields = models.SyncableFields{
		Type:      m.addTypeOpts[m.addTypeIdx],
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.addErr = ""
	m.addStage = addStageMeta
	m.initAddMetaInputs()
}

func (m *mainLoopModel) initAddMetaInputs() {
	title := textinput.New()
	title.Placeholder = "Заголовок"
	title.Width = 40
	title.Focus()

	tags := textinput.New()
	tags.Placeholder = "Теги через запятую (можно пусто)"
	tags.Width = 40

	m.addTitleInput = title
	m.addTagsInput = tags
	m.addMetaFocus = 0
}

func (m mainLoopModel) updateAddMeta(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.resetAddFlow()
			return m, nil
		case "tab", "shift+tab":
			m.addMetaFocus = 1 - m.addMetaFocus
			m.applyAddMetaFocus()
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.addTitleInput.Value())
			if title == "" {
				m.addErr = "нужен заголовок."
				return m, nil
			}

			m.addFields.Title = title
			m.addFields.Tags = splitTags(m.addTagsInput.Value())

			m.addErr = ""
			m.addStage = addStageBody
			m.initAddBodyArea()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.addMetaFocus == 0 {
		m.addTitleInput, cmd = m.addTitleInput.Update(msg)
	} else {
		m.addTagsInput, cmd = m.addTagsInput.Update(msg)
	}
	return m, cmd
}

func (m *mainLoopModel) applyAddMetaFocus() {
	if m.addMetaFocus == 0 {
		m.addTitleInput.Focus()
		m.addTagsInput.Blur()
	} else {
		m.addTitleInput.Blur()
		m.addTagsInput.Focus()
	}
}

func (m *mainLoopModel) initAddBodyArea() {
	ta := textarea.New()
	ta.Placeholder = bodyPlaceholder(m.addFields.Type)
	ta.SetWidth(54)
	ta.SetHeight(8)
	ta.Focus()
	m.addBodyArea = ta
}

func (m mainLoopModel) updateAddBody(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.resetAddFlow()
			return m, nil
		case "ctrl+s":
			if m.addSaving {
				return m, nil
			}

			body := strings.TrimSpace(m.addBodyArea.Value())
			block, err := newTextBlock(body)
			if err != nil {
				m.addErr = err.Error()
				return m, nil
			}
			m.addFields.Blocks = []models.Block{block}

			m.addErr = ""
			m.addSaving = true
			return m, m.cmdCreate(m.addFields)
		}
	}

	var cmd tea.Cmd
	m.addBodyArea, cmd = m.addBodyArea.Update(msg)
	return m, cmd
}

func (m *mainLoopModel) startAddFlow() {
	m.addStage = addStageType
	m.addTypeIdx = 0
	m.addErr = ""
	m.addSaving = false
	m.addFields = models.SyncableFields{}
}

func (m *mainLoopModel) resetAddFlow() {
	m.addStage = addStageNone
	m.addErr = ""
	m.addSaving = false
	m.addFields = models.SyncableFields{}
}

func (m mainLoopModel) View() string {
	switch m.addStage {
	case addStageType:
		return m.viewAddType()
	case addStageMeta:
		return m.viewAddMeta()
	case addStageBody:
		return m.viewAddBody()
	}

	if m.editing {
		return m.viewEditing()
	}

	if m.detail {
		item, ok := m.current()
		if !ok {
			return renderPage("ПРОСМОТР ЗАПИСИ", "Запись не найдена", "esc: назад")
		}

		title, out, hotKeys := m.viewDetail(item)
		return renderPage(title, strings.TrimRight(out, "\n"), hotKeys)
	}

	out := ""

	if m.loading {
		out += "Загрузка списка...\n"
		return renderPage("ЖУРНАЛ", strings.TrimRight(out, "\n"), "a: добавить │ s: синхр. │ enter: открыть │ e: изм. │ ctrl+d: уд. │ ↑/↓: нав. │ l: выход из сессии")
	}

	if m.errMsg != "" {
		out += "Ошибка: " + m.errMsg + "\n"
	}

	if m.status != "" {
		out += "Статус: " + m.status + "\n"
	}
	if m.debug {
		out += fmt.Sprintf("DEBUG: user_id=%d session_user_id=%d\n", m.userID, getSessionUserID())
	}

	if len(m.items) == 0 {
		if out != "" {
			out += "\n"
		}
		out += "Записей нет\n"
	} else {
		if out != "" {
			out += "\n"
		}
		out += "ID   │ Заголовок                │ Тип             │ Теги\n"
		out += "─────┼──────────────────────────┼─────────────────┼────────────────\n"
		for i, item := range m.items {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}

			out += fmt.Sprintf(
				"%s %-3d│ %-24s │ %-15s │ %s\n",
				cursor,
				i+1,
				fitText(item.Title, 24),
				fitText(entryTypeLabel(item.Type), 15),
				fitText(strings.Join(item.Tags, ", "), 16),
			)
		}
	}

	return renderPage(
		"ЖУРНАЛ",
		strings.TrimRight(out, "\n"),
		"a: добавить │ s: синхр. │ enter: открыть │ e: изм. │ ctrl+d: уд. │ ↑/↓: нав. │ l: выход из сессии",
	)
}

func (m mainLoopModel) viewAddType() string {
	out := ""
	for i, t := range m.addTypeOpts {
		cursor := " "
		if i == m.addTypeIdx {
			cursor = ">"
		}
		out += fmt.Sprintf("%s %d. %s\n", cursor, i+1, entryTypeLabel(t))
	}
	if m.addErr != "" {
		out += "\nОшибка: " + m.addErr + "\n"
	}

	return renderPage("ДОБАВИТЬ: ВЫБОР ТИПА", strings.TrimRight(out, "\n"), "1-3/enter: выбрать │ ↑/↓: навигация │ esc: отмена")
}

func (m mainLoopModel) viewAddMeta() string {
	out := "[ ОСНОВНОЕ ]\n"
	out += "Заголовок : [ " + m.addTitleInput.View() + " ]\n"
	out += "Теги      : [ " + m.addTagsInput.View() + " ]\n"
	if m.addErr != "" {
		out += "\nОшибка: " + m.addErr + "\n"
	}

	return renderPage("ДОБАВИТЬ: МЕТАДАННЫЕ", strings.TrimRight(out, "\n"), "tab: след. поле │ enter: далее │ esc: отмена")
}

func (m mainLoopModel) viewAddBody() string {
	meta := "[ ОСНОВНОЕ ]\n"
	meta += "Заголовок : " + m.addFields.Title + "\n"
	meta += "Теги      : " + strings.Join(m.addFields.Tags, ", ") + "\n\n"

	out := meta
	out += "[ " + entryTypeLabel(m.addFields.Type) + " ]\n"
	out += m.addBodyArea.View()
	if m.addErr != "" {
		out += "\nОшибка: " + m.addErr + "\n"
	}

	return renderPage("НОВАЯ ЗАПИСЬ: "+entryTypeLabel(m.addFields.Type), strings.TrimRight(out, "\n"), "enter: новая строка │ ctrl+s: сохранить │ esc: отмена")
}

func (m mainLoopModel) current() (models.Entry, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.Entry{}, false
	}
	return m.items[m.idx], true
}

func (m mainLoopModel) cmdLoadItems() tea.Cmd {
	ctx := m.ctx
	repo := m.entries

	return func() tea.Msg {
		if m.activeUserID() <= 0 {
			return listLoadedMsg{err: errUserIDNotSet}
		}
		items, err := repo.ListAll(ctx)
		return listLoadedMsg{items: items, err: err}
	}
}

func (m mainLoopModel) cmdSync() tea.Cmd {
	ctx := m.ctx
	mgr := m.mgr

	return func() tea.Msg {
		if m.activeUserID() <= 0 {
			return syncDoneMsg{err: errUserIDNotSet}
		}
		err := mgr.PerformReconciliation(ctx)
		return syncDoneMsg{err: err}
	}
}

func (m mainLoopModel) cmdDelete(uuid string) tea.Cmd {
	ctx := m.ctx
	repo := m.entries
	mgr := m.mgr

	return func() tea.Msg {
		if strings.TrimSpace(uuid) == "" {
			return deleteDoneMsg{err: errEntryUUIDNotSet}
		}
		if m.activeUserID() <= 0 {
			return deleteDoneMsg{err: errUserIDNotSet}
		}
		if _, err := repo.SoftDelete(ctx, uuid, time.Now().UnixMilli()); err != nil {
			return deleteDoneMsg{err: err}
		}
		if err := mgr.EntryDeleted(ctx, uuid); err != nil {
			return deleteDoneMsg{err: err}
		}
		return deleteDoneMsg{}
	}
}

func (m mainLoopModel) cmdUpdate(uuid string, fields models.SyncableFields, changedFields map[string]any) tea.Cmd {
	ctx := m.ctx
	repo := m.entries
	mgr := m.mgr

	return func() tea.Msg {
		if m.activeUserID() <= 0 {
			return updateDoneMsg{err: errUserIDNotSet}
		}
		fields.UpdatedAt = time.Now().UnixMilli()
		entry, err := repo.Update(ctx, uuid, fields)
		if err != nil {
			return updateDoneMsg{err: err}
		}
		if err := mgr.EntryUpdated(ctx, entry, changedFields); err != nil {
			return updateDoneMsg{err: err}
		}
		return updateDoneMsg{}
	}
}

func (m mainLoopModel) cmdCreate(fields models.SyncableFields) tea.Cmd {
	ctx := m.ctx
	repo := m.entries
	mgr := m.mgr

	return func() tea.Msg {
		if m.activeUserID() <= 0 {
			return createDoneMsg{err: errUserIDNotSet}
		}
		entry, err := repo.Create(ctx, fields)
		if err != nil {
			return createDoneMsg{err: err}
		}
		if err := mgr.EntryCreated(ctx, entry); err != nil {
			return createDoneMsg{err: err}
		}
		return createDoneMsg{}
	}
}

func (m *mainLoopModel) startEdit(item models.Entry) {
	title := textinput.New()
	title.Placeholder = "title"
	title.SetValue(item.Title)
	title.Width = 40
	title.Focus()

	tags := textinput.New()
	tags.Placeholder = "tags"
	tags.SetValue(strings.Join(item.Tags, ", "))
	tags.Width = 40

	body := textarea.New()
	body.SetWidth(54)
	body.SetHeight(8)
	if text, ok := entryBody(item); ok {
		body.SetValue(text)
	}

	m.editTitleInput = title
	m.editTagsInput = tags
	m.editBodyArea = body
	m.editFocus = 0
	m.editSubmitting = false
	m.editEntry = item
	m.editing = true
	m.errMsg = ""
}

func (m mainLoopModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.editing = false
			m.editSubmitting = false
			m.errMsg = ""
			return m, nil
		case "tab":
			m.editFocus = (m.editFocus + 1) % 3
			m.applyEditFocus()
			return m, nil
		case "shift+tab":
			m.editFocus = (m.editFocus + 2) % 3
			m.applyEditFocus()
			return m, nil
		case "ctrl+s":
			if m.editSubmitting {
				return m, nil
			}

			title := strings.TrimSpace(m.editTitleInput.Value())
			if title == "" {
				m.errMsg = "Заголовок обязателен"
				return m, nil
			}

			block, err := newTextBlock(strings.TrimSpace(m.editBodyArea.Value()))
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}

			fields := models.FromEntry(m.editEntry)
			changed := map[string]any{}
			if fields.Title != title {
				changed["title"] = title
			}
			tags := splitTags(m.editTagsInput.Value())
			changed["tags"] = tags
			changed["blocks"] = []models.Block{block}

			fields.Title = title
			fields.Tags = tags
			fields.Blocks = []models.Block{block}

			m.errMsg = ""
			m.editSubmitting = true
			return m, m.cmdUpdate(m.editEntry.UUID, fields, changed)
		}
	}

	var cmd tea.Cmd
	switch m.editFocus {
	case 0:
		m.editTitleInput, cmd = m.editTitleInput.Update(msg)
	case 1:
		m.editTagsInput, cmd = m.editTagsInput.Update(msg)
	default:
		m.editBodyArea, cmd = m.editBodyArea.Update(msg)
	}
	return m, cmd
}

func (m *mainLoopModel) applyEditFocus() {
	m.editTitleInput.Blur()
	m.editTagsInput.Blur()
	m.editBodyArea.Blur()

	switch m.editFocus {
	case 0:
		m.editTitleInput.Focus()
	case 1:
		m.editTagsInput.Focus()
	default:
		m.editBodyArea.Focus()
	}
}

func (m mainLoopModel) viewEditing() string {
	out := "Поле      │ Значение\n"
	out += "──────────┼──────────────────────────────────────────\n"
	out += "Заголовок │ [" + m.editTitleInput.View() + "]\n"
	out += "Теги      │ [" + m.editTagsInput.View() + "]\n"
	out += "Текст     │\n" + m.editBodyArea.View() + "\n"
	if m.editSubmitting {
		out += "Действие  │ [Сохранение...]\n"
	} else {
		out += "Действие  │ [ctrl+s: Сохранить]\n"
	}
	if m.errMsg != "" {
		out += "Ошибка    │ " + m.errMsg + "\n"
	}
	return renderPage("ИЗМЕНЕНИЕ ЗАПИСИ", strings.TrimRight(out, "\n"), "esc: назад │ tab: след. поле │ ctrl+s: сохранить")
}

func (m mainLoopModel) viewDetail(item models.Entry) (title, body, hotKeys string) {
	var b strings.Builder

	flags := ""
	if item.IsFavorite {
		flags += "★"
	}
	if item.IsPinned {
		flags += "📌"
	}

	b.WriteString("[ ОСНОВНОЕ ]\n")
	b.WriteString("Заголовок : " + item.Title + " " + flags + "\n")
	b.WriteString("Теги      : " + valueOrDashString(strings.Join(item.Tags, ", ")) + "\n")
	b.WriteString("Статус    : " + string(item.SyncStatus) + "\n\n")

	title = entryTypeLabel(item.Type) + ": " + item.Title
	b.WriteString("[ СОДЕРЖИМОЕ ]\n")
	if text, ok := entryBody(item); ok && text != "" {
		b.WriteString(text + "\n")
	} else {
		b.WriteString("(пусто)\n")
	}

	hotKeys = "e: изменить │ c: копировать │ ctrl+d: удалить │ esc: назад"

	return title, b.String(), hotKeys
}

func (m mainLoopModel) activeUserID() int64 {
	if sid := getSessionUserID(); sid > 0 {
		return sid
	}
	if m.userID > 0 {
		return m.userID
	}
	return 0
}

func syncErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "синхронизация не выполнена. Отсутствует сеть или Сервер недоступен"
	}

	return fmt.Sprintf("Ошибка синхронизации: %v", err)
}

func entryTypeLabel(t models.EntryType) string {
	switch t {
	case models.EntryTypeJournal:
		return "Дневник"
	case models.EntryTypeChat:
		return "Чат"
	case models.EntryTypeCountdown:
		return "Обратный отсчёт"
	default:
		return "Неизвестно"
	}
}

func bodyPlaceholder(t models.EntryType) string {
	switch t {
	case models.EntryTypeChat:
		return "Введите первое сообщение"
	case models.EntryTypeCountdown:
		return "Введите дату или событие обратного отсчёта"
	default:
		return "Введите текст записи"
	}
}

func isTUIDebugEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("JOURNAL_TUI_DEBUG"))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func valueOrDashString(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	var tags []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// newTextBlock wraps text as the single content block of a simple entry. The
// block id is derived from the current time so drag-reordering (owned by the
// editor layer, out of scope here) has something stable to key on.
func newTextBlock(text string) (models.Block, error) {
	content, err := json.Marshal(text)
	if err != nil {
		return models.Block{}, fmt.Errorf("marshal block content: %w", err)
	}
	return models.Block{
		ID:      "b-" + strconv.FormatInt(time.Now().UnixNano(), 36),
		Type:    bodyBlockType,
		Content: content,
	}, nil
}

// entryBody extracts the plaintext of an entry's first block, assuming the
// simple single-text-block shape produced by [newTextBlock].
func entryBody(item models.Entry) (string, bool) {
	if len(item.Blocks) == 0 {
		return "", false
	}
	var text string
	if err := json.Unmarshal(item.Blocks[0].Content, &text); err != nil {
		return "", false
	}
	return text, true
}
