package bus

import (
	"context"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"
	"gopkg.in/yaml.v3"

	"github.com/iaros/concierge/internal/logging"
)

// TopicSpec describes one topic to provision.
type TopicSpec struct {
	Name              string `yaml:"name"`
	Partitions        int    `yaml:"partitions"`
	ReplicationFactor int    `yaml:"replication_factor"`
	RetentionMS       int64  `yaml:"retention_ms"`
}

// Manifest is the YAML-declared set of topics a deployment requires.
type Manifest struct {
	Topics []TopicSpec `yaml:"topics"`
}

// LoadManifest reads and parses a topic manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read topic manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse topic manifest: %w", err)
	}
	return m, nil
}

// Bootstrap idempotently creates every topic in m against the cluster
// reachable via brokers[0]'s controller, compressing with snappy.
// Existing topics are skipped without error.
func Bootstrap(ctx context.Context, brokers []string, m Manifest, log *logging.Logger) error {
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial bus for topic bootstrap: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to resolve bus controller: %w", err)
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return fmt.Errorf("failed to dial bus controller: %w", err)
	}
	defer controllerConn.Close()

	for _, t := range m.Topics {
		cfg := kafka.TopicConfig{
			Topic:             t.Name,
			NumPartitions:     t.Partitions,
			ReplicationFactor: t.ReplicationFactor,
			ConfigEntries: []kafka.ConfigEntry{
				{ConfigName: "compression.type", ConfigValue: "snappy"},
			},
		}
		if t.RetentionMS > 0 {
			cfg.ConfigEntries = append(cfg.ConfigEntries, kafka.ConfigEntry{
				ConfigName:  "retention.ms",
				ConfigValue: fmt.Sprintf("%d", t.RetentionMS),
			})
		}
		if err := controllerConn.CreateTopics(cfg); err != nil {
			log.WithError(err).Warn("topic creation skipped (likely already exists)")
			continue
		}
		log.Info(fmt.Sprintf("provisioned topic %s", t.Name))
	}
	return nil
}
