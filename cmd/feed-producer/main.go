// feed-producer publishes order-entry records to the orders topic, for
// exercising the engine's Kafka feed without a real upstream gateway.
// Records come from a file of CSV lines or are generated around a base
// price.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// generateEntries produces CSV order records around basePrice. Roughly
// half buy, half sell, with one order in ten an iceberg disclosing a
// fifth of its size.
func generateEntries(count int, basePrice, priceSpread int64) []string {
	entries := make([]string, count)

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("gen%06d", i+1)

		side := "B"
		price := basePrice - rand.Int63n(priceSpread+1)
		if rand.Intn(2) == 1 {
			side = "S"
			price = basePrice + rand.Int63n(priceSpread+1)
		}
		if price <= 0 {
			price = basePrice
		}

		qty := (rand.Int63n(100) + 1) * 100

		if rand.Intn(10) == 0 {
			disclosed := qty / 5
			if disclosed == 0 {
				disclosed = qty
			}
			entries[i] = fmt.Sprintf("%s,%s,%d,%d,%d", id, side, price, qty, disclosed)
			continue
		}
		entries[i] = fmt.Sprintf("%s,%s,%d,%d", id, side, price, qty)
	}

	return entries
}

func loadEntries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	return entries, scanner.Err()
}

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic       = flag.String("topic", "orders", "Kafka topic name")
		file        = flag.String("file", "", "file of CSV order records (optional, generates records if not provided)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending records")
		count       = flag.Int("count", 1000, "Number of records to generate")
		basePrice   = flag.Int64("base-price", 100, "Base price for generated records")
		priceSpread = flag.Int64("price-spread", 10, "Price spread range for generated records")
	)
	flag.Parse()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	var entries []string
	if *file != "" {
		loaded, err := loadEntries(*file)
		if err != nil {
			log.Fatalf("Failed to load records from %s: %v", *file, err)
		}
		entries = loaded
		log.Printf("Loaded %d records from file: %s", len(entries), *file)
	} else {
		log.Printf("Generating %d records...", *count)
		entries = generateEntries(*count, *basePrice, *priceSpread)
	}

	log.Printf("Sending records to Kafka broker: %s, topic: %s", *brokers, *topic)
	log.Printf("Delay between records: %v", *delay)

	for i, entry := range entries {
		key := entry
		if idx := strings.Index(entry, ","); idx > 0 {
			key = entry[:idx]
		}

		msg := kafka.Message{
			Key:   []byte(key),
			Value: []byte(entry),
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send record %d (%s): %v", i+1, key, err)
			continue
		}

		if (i+1)%100 == 0 || i == len(entries)-1 {
			log.Printf("Sent record %d/%d: %s", i+1, len(entries), entry)
		}

		if i < len(entries)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Successfully sent all %d records!", len(entries))
}
