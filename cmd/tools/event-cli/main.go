package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/annel0/funnyblocks/internal/eventbus"
	"github.com/annel0/funnyblocks/internal/vec"
)

const (
	defaultNatsURL = "nats://127.0.0.1:4222"
	timeFormat     = "15:04:05.000"
)

func main() {
	var (
		natsURL    = flag.String("nats", defaultNatsURL, "NATS server URL")
		stream     = flag.String("stream", "FUNNYBLOCKS", "JetStream stream name")
		command    = flag.String("cmd", "tail", "Command: tail, types")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		sources    = flag.String("sources", "", "Sources filter (comma-separated world names)")
		limit      = flag.Int("limit", 0, "Stop after N events (0 = follow)")
		raw        = flag.Bool("raw", false, "Print raw JSON payload")
	)
	flag.Parse()

	switch *command {
	case "types":
		showTypes()
	case "tail":
		opts := &TailOptions{
			EventTypes: parseStringList(*eventTypes),
			Sources:    parseStringList(*sources),
			Limit:      *limit,
			Raw:        *raw,
		}
		if err := tailEvents(*natsURL, *stream, opts); err != nil {
			log.Fatalf("❌ Tail failed: %v", err)
		}
	default:
		log.Fatalf("❌ Unknown command: %s", *command)
	}
}

// TailOptions - параметры команды tail
type TailOptions struct {
	EventTypes []string
	Sources    []string
	Limit      int
	Raw        bool
}

func tailEvents(url, stream string, opts *TailOptions) error {
	bus, err := eventbus.NewJetStreamBus(url, stream, 0)
	if err != nil {
		return err
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Printf("🎬 Tailing %s on %s (types: %s)\n", stream, url, describe(opts.EventTypes))

	var (
		mu    sync.Mutex
		count int
	)
	sub, err := bus.Subscribe(ctx, eventbus.Filter{Types: opts.EventTypes, Sources: opts.Sources}, func(_ context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		if opts.Limit > 0 && count >= opts.Limit {
			return
		}
		printEvent(ev, opts.Raw)
		count++
		if opts.Limit > 0 && count >= opts.Limit {
			cancel()
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	mu.Lock()
	fmt.Printf("\n📊 Total events: %d\n", count)
	mu.Unlock()
	return nil
}

func printEvent(ev *eventbus.Envelope, raw bool) {
	ts := ev.Timestamp.Local().Format(timeFormat)
	if raw {
		fmt.Printf("[%s] %-15s %-10s %s\n", ts, ev.EventType, ev.Source, string(ev.Payload))
		return
	}
	fmt.Printf("[%s] %s %-15s %-10s %s\n", ts, icon(ev.EventType), ev.EventType, ev.Source, summarize(ev))
}

func icon(eventType string) string {
	switch eventType {
	case eventbus.TypeNotification:
		return "💬"
	case eventbus.TypeTeleported, eventbus.TypePortalChanged:
		return "🌀"
	case eventbus.TypeBlockTriggered:
		return "⚡"
	case eventbus.TypeBlockDestroyed:
		return "💥"
	case eventbus.TypeAdminAction:
		return "🛠"
	default:
		return "•"
	}
}

// summarize возвращает человекочитаемое описание полезной нагрузки
func summarize(ev *eventbus.Envelope) string {
	switch ev.EventType {
	case eventbus.TypeNotification:
		var p eventbus.NotificationPayload
		if eventbus.DecodePayload(ev, &p) == nil {
			return fmt.Sprintf("to %d: %s", p.Recipient, p.Message)
		}
	case eventbus.TypeTeleported:
		var p eventbus.TeleportedPayload
		if eventbus.DecodePayload(ev, &p) == nil {
			return fmt.Sprintf("entity %d %s -> %s", p.EntityID, p.From, p.To)
		}
	case eventbus.TypePortalChanged:
		var p eventbus.PortalChangedPayload
		if eventbus.DecodePayload(ev, &p) == nil {
			return fmt.Sprintf("phase %s blue=%s orange=%s", p.Phase, optional(p.Blue), optional(p.Orange))
		}
	case eventbus.TypeBlockTriggered:
		var p eventbus.BlockTriggeredPayload
		if eventbus.DecodePayload(ev, &p) == nil {
			return fmt.Sprintf("%s at %s: %s", p.Marker, p.Pos, p.Detail)
		}
	case eventbus.TypeBlockDestroyed:
		var p eventbus.BlockDestroyedPayload
		if eventbus.DecodePayload(ev, &p) == nil {
			return fmt.Sprintf("%s at %s (%s)", p.Block, p.Pos, p.Reason)
		}
	case eventbus.TypeAdminAction:
		var p eventbus.AdminActionPayload
		if eventbus.DecodePayload(ev, &p) == nil {
			return fmt.Sprintf("%s: %s %s", p.Operator, p.Action, p.Target)
		}
	}
	var generic map[string]interface{}
	if json.Unmarshal(ev.Payload, &generic) == nil {
		return fmt.Sprintf("%v", generic)
	}
	return string(ev.Payload)
}

func optional(p *vec.Vec3) string {
	if p == nil {
		return "-"
	}
	return p.String()
}

func showTypes() {
	fmt.Println("📋 Event types:")
	for _, t := range []string{
		eventbus.TypeNotification,
		eventbus.TypeBlockTriggered,
		eventbus.TypeTeleported,
		eventbus.TypePortalChanged,
		eventbus.TypeBlockDestroyed,
		eventbus.TypeAdminAction,
	} {
		fmt.Printf("  %s %-15s subject %s\n", icon(t), t, eventbus.Subject(t))
	}
}

func describe(list []string) string {
	if len(list) == 0 {
		return "all"
	}
	return strings.Join(list, ",")
}

func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
