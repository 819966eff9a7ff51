//go:build linux

package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/shlex"

	"buttoncode-go/bus"
	"buttoncode-go/services/buttons"
)

// simPanel is a PortSampler driven from the console instead of hardware.
type simPanel struct {
	mu   sync.Mutex
	word uint32
	bits map[string]int
}

func newSimPanel(names []string) *simPanel {
	bits := make(map[string]int, len(names))
	for i, n := range names {
		if n != "" {
			bits[n] = i
		}
	}
	return &simPanel{bits: bits}
}

func (s *simPanel) Sample() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.word
}

func (s *simPanel) set(name string, pressed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bit, ok := s.bits[name]
	if !ok {
		return false
	}
	if pressed {
		s.word |= 1 << uint(bit)
	} else {
		s.word &^= 1 << uint(bit)
	}
	return true
}

const consoleHelp = `commands:
  press <name>      hold a simulated button down
  release <name>    let it go
  tap <name> [ms]   press and release (default 100 ms)
  read              ask the service to re-emit all current states
  help              this text
  quit              exit`

// runConsole parses stdin lines into simulated panel actions. Quoting
// works the usual shell way, so button names with spaces are fine.
func runConsole(ctx context.Context, cancel context.CancelFunc, panel *simPanel, conn *bus.Connection) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		args, err := shlex.Split(sc.Text())
		if err != nil {
			log.Printf("console: %v", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "press", "release":
			if len(args) != 2 {
				log.Printf("usage: %s <name>", args[0])
				continue
			}
			if !panel.set(args[1], args[0] == "press") {
				log.Printf("unknown button %q", args[1])
			}
		case "tap":
			if len(args) < 2 || len(args) > 3 {
				log.Printf("usage: tap <name> [ms]")
				continue
			}
			ms := 100
			if len(args) == 3 {
				if ms, err = strconv.Atoi(args[2]); err != nil || ms <= 0 {
					log.Printf("bad duration %q", args[2])
					continue
				}
			}
			if !panel.set(args[1], true) {
				log.Printf("unknown button %q", args[1])
				continue
			}
			go func(name string, d time.Duration) {
				time.Sleep(d)
				panel.set(name, false)
			}(args[1], time.Duration(ms)*time.Millisecond)
		case "read":
			conn.Publish(&bus.Message{Topic: buttons.TopicControl(buttons.CtrlReadNow)})
		case "help":
			log.Print(consoleHelp)
		case "quit", "exit":
			cancel()
			return
		default:
			log.Printf("unknown command %q (try 'help')", args[0])
		}
	}
}
