package console

import tea "github.com/charmbracelet/bubbletea"

func isKey(msg tea.KeyMsg, keys ...string) bool {
	value := msg.String()
	for _, key := range keys {
		if value == key {
			return true
		}
	}
	return false
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter")
}

func isBack(msg tea.KeyMsg) bool {
	return isKey(msg, "esc")
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}
