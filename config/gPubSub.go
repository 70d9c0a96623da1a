package config

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// AuditMessage is the audit fan-out payload. Downstream consumers
// (SIEM forwarders, alerting) subscribe to the audit topic.
type AuditMessage struct {
	Action        string    `json:"action"`
	Username      string    `json:"username"`
	Detail        string    `json:"detail"`
	CorrelationId string    `json:"correlation_id"`
	CreatedAt     time.Time `json:"created_at"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	// Load env from .env
	godotenv.Load()
}

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		return v
	}
	return ""
}

// getPubSubClient initializes the client once. It uses Application
// Default Credentials unless PUBSUB_CREDENTIALS_JSON is provided.
func getPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		return pubsubClient, nil
	}

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	var (
		c   *pubsub.Client
		err error
	)
	if credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON"); credJSON != "" {
		c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		c, err = pubsub.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}
	pubsubClient = c
	return pubsubClient, nil
}

// PublishAudit fans an audit event out to the configured topic. It is
// best effort: when no project or topic is configured, or publishing
// fails, the error is logged and swallowed so audit fan-out never
// fails the request that produced the event.
func PublishAudit(ctx context.Context, msg AuditMessage) {
	topicName := os.Getenv("PUBSUB_AUDIT_TOPIC")
	if topicName == "" || getPubSubProjectID() == "" {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := getPubSubClient(pubCtx)
	if err != nil {
		log.Printf("audit publish skipped: %v", err)
		return
	}

	msgJSON, err := json.Marshal(msg)
	if err != nil {
		log.Printf("audit publish skipped: %v", err)
		return
	}
	result := client.Topic(topicName).Publish(pubCtx, &pubsub.Message{Data: msgJSON})
	if _, err := result.Get(pubCtx); err != nil {
		log.Printf("audit publish failed: %v", err)
	}
}
