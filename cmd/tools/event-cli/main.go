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
	"syscall"
	"time"

	"github.com/annel0/blockfall/internal/eventbus"
)

// event-cli — консольный хвост событий симуляции из NATS JetStream.
// Команды: tail (поток событий), stats (метрики шины).

const defaultNATSURL = "nats://127.0.0.1:4222"

func main() {
	var (
		natsURL = flag.String("nats", defaultNATSURL, "Адрес NATS сервера")
		stream  = flag.String("stream", "EVENTS", "Имя JetStream стрима")
		command = flag.String("cmd", "tail", "Команда: tail, stats")
		types   = flag.String("types", "", "Фильтр типов событий через запятую")
		raw     = flag.Bool("raw", false, "Печатать полезную нагрузку как JSON")
	)
	flag.Parse()

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Подключение к NATS не удалось: %v", err)
	}
	defer bus.Close()

	switch *command {
	case "tail":
		if err := tailEvents(bus, parseStringList(*types), *raw); err != nil {
			log.Fatalf("❌ Tail завершился с ошибкой: %v", err)
		}
	case "stats":
		showStats(bus)
	default:
		fmt.Printf("❌ Неизвестная команда: %s\n", *command)
		fmt.Println("Доступные команды: tail, stats")
		os.Exit(1)
	}
}

// tailEvents печатает события по мере поступления до сигнала завершения
func tailEvents(bus eventbus.EventBus, types []string, raw bool) error {
	fmt.Printf("🎬 Поток событий (фильтр: %v)\n", types)

	sub, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: types},
		func(ctx context.Context, ev *eventbus.Envelope) {
			printEvent(ev, raw)
		})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}

// showStats печатает агрегированные метрики шины
func showStats(bus eventbus.EventBus) {
	stats := bus.Metrics()
	fmt.Println("📊 Метрики шины событий")
	fmt.Printf("  Published: %d\n", stats.Published)
	fmt.Printf("  Consumed:  %d\n", stats.Consumed)
	fmt.Printf("  Dropped:   %d\n", stats.Dropped)
	fmt.Printf("  InFlight:  %d\n", stats.InFlight)
}

// printEvent выводит событие в читаемом формате
func printEvent(ev *eventbus.Envelope, raw bool) {
	timestamp := ev.Timestamp.Local().Format("15:04:05")
	fmt.Printf("[%s] %-16s src=%s prio=%d id=%s\n",
		timestamp, ev.EventType, ev.Source, ev.Priority, ev.ID)

	if !raw || len(ev.Payload) == 0 {
		return
	}
	var pretty map[string]interface{}
	if err := json.Unmarshal(ev.Payload, &pretty); err == nil {
		data, _ := json.MarshalIndent(pretty, "  ", "  ")
		fmt.Printf("  %s\n", data)
	}
}

// parseStringList парсит строку с разделителями-запятыми
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
