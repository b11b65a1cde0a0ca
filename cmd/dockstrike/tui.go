package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/dockstrike/audio"
	"github.com/lixenwraith/dockstrike/render"
	"github.com/lixenwraith/dockstrike/sim"
)

const frameInterval = 50 * time.Millisecond

// runTUI drives the session in the background and draws until quit
// Keys: q/Esc quit, l launch idle, d destroy the first living cell, m mute
func runTUI(ctx context.Context, s *sim.Session, player *audio.Player) (err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "dockstrike crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
		screen.Fini()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Run(ctx)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	term := render.NewTerminal(screen)
	frame := time.NewTicker(frameInterval)
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				term.Resize()
			case *tcell.EventKey:
				if !handleKey(ev, s, player) {
					return nil
				}
			}

		case <-frame.C:
			term.Draw(s.Snapshot(), s.Status(), player != nil && player.Muted())
		}
	}
}

// handleKey applies one key press; false means quit
func handleKey(ev *tcell.EventKey, s *sim.Session, player *audio.Player) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'l':
		n := s.LaunchIdle()
		s.Logger().Debug("manual launch", "carriers", n)
	case 'd':
		for _, c := range s.Snapshot().Cells {
			if c.Stage != "alive" {
				continue
			}
			if err := s.DestroyCell(c.ID); err != nil {
				s.Logger().Debug("manual destroy refused", "cell", c.ID, "err", err)
			}
			break
		}
	case 'm':
		if player != nil {
			player.SetMuted(!player.Muted())
		}
	}
	return true
}
