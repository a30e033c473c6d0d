// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/inkwell-dev/sync-core/internal/adapter"
	"github.com/inkwell-dev/sync-core/internal/keymanager"
	"github.com/inkwell-dev/sync-core/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RegisterModel is the Bubble Tea model for the registration screen. It
// collects an email, a password, and a confirmation, generates the user's
// UEK locally, and submits the wrapped UEK alongside the registration
// request so the cleartext key never leaves the device.
type RegisterModel struct {
	ctx    context.Context
	server adapter.ServerAdapter
	keys   keymanager.KeyManager

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

const (
	registerFieldEmail = iota
	registerFieldPassword
	registerFieldRepeat
)

// NewRegisterModel creates a [RegisterModel] with pre-configured email,
// password, and repeat-password inputs.
func NewRegisterModel(ctx context.Context, server adapter.ServerAdapter, keys keymanager.KeyManager) *RegisterModel {
	fields := make([]textinput.Model, 3)

	fields[registerFieldEmail] = textinput.New()
	fields[registerFieldEmail].Placeholder = "email"
	fields[registerFieldEmail].CharLimit = 254
	fields[registerFieldEmail].Width = 40
	fields[registerFieldEmail].Focus()

	fields[registerFieldPassword] = textinput.New()
	fields[registerFieldPassword].Placeholder = "password"
	fields[registerFieldPassword].CharLimit = 256
	fields[registerFieldPassword].Width = 40
	fields[registerFieldPassword].EchoMode = textinput.EchoPassword
	fields[registerFieldPassword].EchoCharacter = '*'

	fields[registerFieldRepeat] = textinput.New()
	fields[registerFieldRepeat].Placeholder = "repeat password"
	fields[registerFieldRepeat].CharLimit = 256
	fields[registerFieldRepeat].Width = 40
	fields[registerFieldRepeat].EchoMode = textinput.EchoPassword
	fields[registerFieldRepeat].EchoCharacter = '*'

	return &RegisterModel{ctx: ctx, server: server, keys: keys, inputs: fields}
}

// Init implements [tea.Model].
func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [RegisterResult] — clears submitting state; on success navigates back
//     to the menu with a confirmation notice, on error populates errMsg.
//   - esc            — cancels and navigates back to the menu.
//   - tab/shift+tab  — moves focus between inputs.
//   - enter          — validates inputs and dispatches the async register command.
func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(RegisterResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = humanizeServerUnavailableError(result.Err)
			return m, nil
		}
		return m, func() tea.Msg {
			return NavigateTo{Page: "menu", Payload: RegisterSuccessNotice{Username: result.Username}}
		}
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		case "tab":
			m.focusNext()
			return m, nil
		case "shift+tab":
			m.focusPrev()
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}

			email := strings.TrimSpace(m.inputs[registerFieldEmail].Value())
			pass := m.inputs[registerFieldPassword].Value()
			repeat := m.inputs[registerFieldRepeat].Value()

			if email == "" || pass == "" {
				m.errMsg = "Email и пароль обязательны"
				return m, nil
			}
			if pass != repeat {
				m.errMsg = "Пароли не совпадают"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(email, pass)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString("Поле            │ Значение\n")
	b.WriteString("────────────────┼────────────────────────────────────────────\n")
	b.WriteString("Email           │ [")
	b.WriteString(m.inputs[registerFieldEmail].View())
	b.WriteString("]\n")
	b.WriteString("Пароль          │ [")
	b.WriteString(m.inputs[registerFieldPassword].View())
	b.WriteString("]\n")
	b.WriteString("Повтор пароля   │ [")
	b.WriteString(m.inputs[registerFieldRepeat].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Зарегистрироваться...]\n")
	} else {
		b.WriteString("\n[Зарегистрироваться]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\nОшибка: ")
		b.WriteString(m.errMsg)
		b.WriteString("\n")
	}

	return renderPage("РЕГИСТРАЦИЯ", strings.TrimRight(b.String(), "\n"), "esc: назад │ tab: след. поле │ enter: подтвердить")
}

func (m *RegisterModel) cmdRegister(email, pass string) tea.Cmd {
	ctx := m.ctx
	server := m.server
	keys := m.keys

	return func() tea.Msg {
		registrationBlob, clientUEK, err := keys.CreateUEKForRegistration(pass)
		if err != nil {
			return RegisterResult{Err: err, Username: email}
		}

		resp, err := server.Register(ctx, models.RegisterRequest{
			Email:    email,
			Password: pass,
			UEK: &models.UEKUploadDTO{
				WrappedUEK: registrationBlob.WrappedUEK,
				Salt:       registrationBlob.Salt,
				Nonce:      registrationBlob.Nonce,
				AuthTag:    registrationBlob.AuthTag,
			},
		})
		if err != nil {
			return RegisterResult{Err: err, Username: email}
		}

		if err := keys.StoreUEK(clientUEK); err != nil {
			return RegisterResult{Err: err, Username: email}
		}

		return RegisterResult{
			Username:      email,
			UserID:        resp.User.UserID,
			EncryptionKey: clientUEK.UEK,
		}
	}
}

func (m *RegisterModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *RegisterModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
