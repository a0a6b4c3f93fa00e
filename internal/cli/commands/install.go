package commands

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"uiHarness/internal/browser"
	"uiHarness/internal/cli/ui"
)

// InstallHandler downloads the driver and browser builds.
type InstallHandler struct {
	install func(kinds ...browser.Kind) error
	log     *zap.Logger
	out     io.Writer
}

func NewInstallHandler(log *zap.Logger, out io.Writer) *InstallHandler {
	return &InstallHandler{
		install: browser.Install,
		log:     log,
		out:     out,
	}
}

// Install installs the named browsers, or all three when none are given.
func (h *InstallHandler) Install(names []string) error {
	kinds := make([]browser.Kind, 0, len(names))
	for _, name := range names {
		k, err := browser.ParseKind(name)
		if err != nil {
			fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" "+err.Error()+ui.ColorReset)
			return err
		}
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		kinds = []browser.Kind{browser.Chromium, browser.Firefox, browser.WebKit}
	}

	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconGlobe+" Installing %v..."+ui.ColorReset+"\n", kinds)
	if err := h.install(kinds...); err != nil {
		h.log.Error("install browsers", zap.Error(err))
		fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" Install failed:"+ui.ColorReset+" %v\n", err)
		return err
	}
	fmt.Fprintln(h.out, ui.ColorGreen+ui.IconCheckmark+" Browsers installed"+ui.ColorReset)
	return nil
}
