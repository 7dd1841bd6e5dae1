//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker for the lifetime of the test and
// returns its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, kafkaImage)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

// fixtureRecord is one catalogue entry as it would be published upstream.
type fixtureRecord struct {
	Kind  domain.RecordKind
	Name  string
	Value json.RawMessage
}

// loadMockData reads the bundled catalogue and flattens both arrays into
// publishable records, hydro structures first.
func loadMockData(t *testing.T) []fixtureRecord {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "water_objects.json"))
	require.NoError(t, err, "read mock catalogue")

	var file struct {
		HydroStructures []json.RawMessage `json:"hydro_technical_structures"`
		Lakes           []json.RawMessage `json:"water_bodies_lakes"`
	}
	require.NoError(t, json.Unmarshal(data, &file))

	var records []fixtureRecord
	add := func(kind domain.RecordKind, raw []json.RawMessage) {
		for _, v := range raw {
			var named struct {
				Name string `json:"name"`
			}
			require.NoError(t, json.Unmarshal(v, &named))
			records = append(records, fixtureRecord{Kind: kind, Name: named.Name, Value: v})
		}
	}
	add(domain.KindHydroStructure, file.HydroStructures)
	add(domain.KindLake, file.Lakes)
	return records
}

func (r fixtureRecord) message(key string) kafkago.Message {
	return kafkago.Message{
		Key:     []byte(key),
		Value:   r.Value,
		Headers: []kafkago.Header{{Key: "record_kind", Value: []byte(r.Kind)}},
	}
}
