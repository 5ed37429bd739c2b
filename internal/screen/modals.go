package screen

// Modal names one of the screen's dialogs.
type Modal int

const (
	ModalEnvironments Modal = iota + 1
	ModalCookies
	ModalSettings
)

// Modals holds the open/closed flag of each dialog. At most one is open:
// opening a dialog closes the others.
type Modals struct {
	Environments bool
	Cookies      bool
	Settings     bool
}

func (m Modals) Open(which Modal) Modals {
	next := Modals{}
	switch which {
	case ModalEnvironments:
		next.Environments = true
	case ModalCookies:
		next.Cookies = true
	case ModalSettings:
		next.Settings = true
	default:
		return m
	}
	return next
}

func (m Modals) Close(which Modal) Modals {
	switch which {
	case ModalEnvironments:
		m.Environments = false
	case ModalCookies:
		m.Cookies = false
	case ModalSettings:
		m.Settings = false
	}
	return m
}

// Toggle opens a closed dialog and closes an open one.
func (m Modals) Toggle(which Modal) Modals {
	if m.IsOpen(which) {
		return m.Close(which)
	}
	return m.Open(which)
}

func (m Modals) IsOpen(which Modal) bool {
	switch which {
	case ModalEnvironments:
		return m.Environments
	case ModalCookies:
		return m.Cookies
	case ModalSettings:
		return m.Settings
	}
	return false
}

// Any reports whether a dialog is open.
func (m Modals) Any() bool {
	return m.Environments || m.Cookies || m.Settings
}
