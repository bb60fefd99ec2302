//go:build !darwin && !linux
// +build !darwin,!linux

package logger

import (
	"os"

	"golang.org/x/term"
)

const SupportsColorEscapes = true

func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	fd := int(file.Fd())

	if term.IsTerminal(fd) {
		info.IsTTY = true
		info.UseColorEscapes = !hasNoColorEnvironmentVariable()
		if width, _, err := term.GetSize(fd); err == nil {
			info.Width = width
		}
	}

	return
}

func writeStringWithColor(file *os.File, text string) {
	file.WriteString(text)
}
