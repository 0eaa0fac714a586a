//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"fiducia/internal/audit"
	"fiducia/pkg/domain"
	"fiducia/pkg/testutil/containers"
)

const testTopic = "fiducia.audit.events"

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda  *containers.RedpandaContainer
	publisher *audit.KafkaPublisher
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.redpanda = containers.NewRedpandaContainer(s.T())
	s.Require().NoError(s.redpanda.CreateTopic(context.Background(), testTopic))

	publisher, err := audit.NewKafkaPublisher(s.redpanda.Brokers, testTopic)
	s.Require().NoError(err)
	s.publisher = publisher
}

func (s *KafkaPublisherSuite) TearDownSuite() {
	s.publisher.Close()
	_ = s.redpanda.Container.Terminate(context.Background())
}

func (s *KafkaPublisherSuite) TestOutboxDrainReachesBroker() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := audit.NewInMemory()
	worker := audit.NewWorker(store, s.publisher, slog.Default())

	userID := domain.UserID(uuid.New())
	first, err := audit.NewEvent(audit.KindSRTEvaluation, userID, "2024/25",
		"RESIDENT via automatic_uk", map[string]any{"days": 200})
	s.Require().NoError(err)
	second, err := audit.NewEvent(audit.KindIHTCalculation, userID, "2024/25",
		"tax due 70000.00", map[string]any{"net_estate": "500000"})
	s.Require().NoError(err)

	s.Require().NoError(store.Append(ctx, first))
	s.Require().NoError(store.Append(ctx, second))

	n, err := worker.Flush(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	// Both events must be readable from the topic, keyed by user.
	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(testTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got []audit.Event
	for len(got) < 2 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(fetches.Err())
		fetches.EachRecord(func(rec *kgo.Record) {
			s.Equal(userID.String(), string(rec.Key))
			var e audit.Event
			s.Require().NoError(json.Unmarshal(rec.Value, &e))
			got = append(got, e)
		})
	}

	s.Equal(audit.KindSRTEvaluation, got[0].Kind)
	s.Equal(audit.KindIHTCalculation, got[1].Kind)
	s.Equal("RESIDENT via automatic_uk", got[0].Summary)
}
