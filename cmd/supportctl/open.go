package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// startCommand launches a detached process; replaced in tests
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// pipeCommand runs a process with input on its stdin; replaced in tests
var pipeCommand = func(input, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(input)
	return cmd.Run()
}

// openerCommand returns the system URL handler for goos
func openerCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

// openURL hands url to the system handler. Launch failures are reported as
// transport errors and never retried.
func openURL(url string) error {
	name, args := openerCommand(runtime.GOOS, url)
	if err := startCommand(name, args...); err != nil {
		return models.ErrTransportWithMsg(fmt.Sprintf("failed to open link with %s", name), err)
	}
	return nil
}

// clipboardCommand returns the system clipboard writer for goos
func clipboardCommand(goos string) (string, []string) {
	switch goos {
	case "windows":
		return "clip", nil
	case "darwin":
		return "pbcopy", nil
	default:
		return "xclip", []string{"-selection", "clipboard"}
	}
}

// copyText puts text on the system clipboard. Failures are transport errors.
func copyText(text string) error {
	name, args := clipboardCommand(runtime.GOOS)
	if err := pipeCommand(text, name, args...); err != nil {
		return models.ErrTransportWithMsg(fmt.Sprintf("failed to copy message with %s", name), err)
	}
	return nil
}
