package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/logx"
)

type stubSession struct {
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *stubSession) Claims() map[string][]int32 { return nil }
func (s *stubSession) MemberID() string           { return "stub" }
func (s *stubSession) GenerationID() int32        { return 1 }
func (s *stubSession) MarkOffset(string, int32, int64, string)  {}
func (s *stubSession) Commit()                                  {}
func (s *stubSession) ResetOffset(string, int32, int64, string) {}
func (s *stubSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg)
}
func (s *stubSession) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

type stubClaim struct {
	msgs chan *sarama.ConsumerMessage
}

func (c *stubClaim) Topic() string                            { return "order-changes" }
func (c *stubClaim) Partition() int32                         { return 0 }
func (c *stubClaim) InitialOffset() int64                     { return 0 }
func (c *stubClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *stubClaim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func newClaim(payloads ...string) *stubClaim {
	ch := make(chan *sarama.ConsumerMessage, len(payloads))
	for i, p := range payloads {
		ch <- &sarama.ConsumerMessage{Value: []byte(p), Offset: int64(i)}
	}
	close(ch)
	return &stubClaim{msgs: ch}
}

func TestConsumeClaim_DispatchesAndMarks(t *testing.T) {
	t.Parallel()

	var got []ChangeEvent
	c := &Consumer{
		handler: func(_ context.Context, ev ChangeEvent) error {
			got = append(got, ev)
			return nil
		},
		logger: logx.Nop(),
	}
	sess := &stubSession{}
	claim := newClaim(
		`{"order_id":" order-1 ","status":" COMPLETED ","changed_at":"2025-03-15T18:00:00Z"}`,
	)

	require.NoError(t, (&groupHandler{c: c}).ConsumeClaim(sess, claim))

	require.Len(t, got, 1)
	require.Equal(t, "order-1", got[0].OrderID)
	require.Equal(t, "completed", got[0].Status)
	require.Len(t, sess.marked, 1)
}

func TestConsumeClaim_BadJSONSkippedAndMarked(t *testing.T) {
	t.Parallel()

	calls := 0
	c := &Consumer{
		handler: func(context.Context, ChangeEvent) error { calls++; return nil },
		logger:  logx.Nop(),
	}
	sess := &stubSession{}
	claim := newClaim(`{not json`, `{"order_id":""}`, `{"order_id":"ok"}`)

	require.NoError(t, (&groupHandler{c: c}).ConsumeClaim(sess, claim))

	require.Equal(t, 1, calls)
	require.Len(t, sess.marked, 3)
}

func TestConsumeClaim_HandlerErrorLeavesMessageUnmarked(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("store down")
	c := &Consumer{
		handler: func(context.Context, ChangeEvent) error { return wantErr },
		logger:  logx.Nop(),
	}
	sess := &stubSession{}
	claim := newClaim(`{"order_id":"order-1","status":"created"}`)

	err := (&groupHandler{c: c}).ConsumeClaim(sess, claim)
	require.ErrorIs(t, err, wantErr)
	require.Empty(t, sess.marked)
}

func TestNewConsumer_UnconfiguredReturnsNil(t *testing.T) {
	t.Parallel()

	c, err := NewConsumer(nil, "g", "t", nil, logx.Nop())
	require.NoError(t, err)
	require.Nil(t, c)

	c, err = NewConsumer([]string{"b:9092"}, "", "t", nil, logx.Nop())
	require.NoError(t, err)
	require.Nil(t, c)

	require.NoError(t, c.Close())
}

func TestChangeEvent_Normalize(t *testing.T) {
	t.Parallel()

	ev := ChangeEvent{OrderID: "  a-1 ", Status: " Created ", ChangedAt: time.Now()}
	n := ev.Normalize()
	require.Equal(t, "a-1", n.OrderID)
	require.Equal(t, "created", n.Status)
}
