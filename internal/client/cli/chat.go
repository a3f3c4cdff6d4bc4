package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lumenfest/lumen/internal/protocol"
)

// Send posts one chat message. Prefixing the text with "anon:" sends it
// under the anonymous display name.
func (a *App) Send(ctx context.Context) error {
	text, err := GetSimpleText(a.reader, "Message (prefix with anon: to post anonymously)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	anonymous := false
	if rest, found := strings.CutPrefix(text, "anon:"); found {
		anonymous = true
		text = strings.TrimSpace(rest)
	}

	if err := a.client.SendMessage(ctx, text, anonymous); err != nil {
		log.Printf("Send unsuccessful: %s", err.Error())
		return err
	}
	return nil
}

// Watch streams the chat until Ctrl-C: the replay batch first, then live
// messages as they arrive.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		cancel()
	}()

	events, err := a.client.Subscribe(ctx)
	if err != nil {
		log.Printf("Subscribe unsuccessful: %s", err.Error())
		return err
	}

	printlnFn("Watching chat, Ctrl-C to stop")
	for ev := range events {
		switch ev.Kind {
		case protocol.ChatEventSubscribe:
			for _, m := range ev.Messages {
				printMessage(m)
			}
		case protocol.ChatEventMessage:
			if ev.Message != nil {
				printMessage(*ev.Message)
			}
		}
	}
	return nil
}

func printMessage(m protocol.ChatMessage) {
	printlnFn(m.Timestamp.Format("15:04:05"), "<"+m.DisplayName+">", m.Text)
}
