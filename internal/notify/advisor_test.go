package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []EmailMessage
	fail bool
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	if c.fail {
		return errors.New("smtp down")
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestNotifyAdvisor(t *testing.T) {
	sender := &captureSender{}
	n := NewAdvisorNotifier(sender, "advisor@example.com", nil)

	err := n.NotifyAdvisor(context.Background(), "NL-A742", "SIP/Mandates", "Tuesday, Feb 10 at 2:00 PM IST")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "advisor@example.com", msg.To)
	assert.Contains(t, msg.Subject, "NL-A742")
	assert.Contains(t, msg.Body, "SIP/Mandates")
	assert.Contains(t, msg.Body, "Tuesday, Feb 10 at 2:00 PM IST")
	assert.NotContains(t, msg.Body, "@", "no client contact details in the heads-up")
}

func TestNotifyAdvisorUnconfiguredIsNoop(t *testing.T) {
	n := NewAdvisorNotifier(nil, "", nil)
	assert.NoError(t, n.NotifyAdvisor(context.Background(), "NL-A742", "SIP/Mandates", "slot"))

	sender := &captureSender{}
	n = NewAdvisorNotifier(sender, "", nil)
	assert.NoError(t, n.NotifyAdvisor(context.Background(), "NL-A742", "SIP/Mandates", "slot"))
	assert.Empty(t, sender.sent)
}

func TestNotifyAdvisorWrapsSendError(t *testing.T) {
	n := NewAdvisorNotifier(&captureSender{fail: true}, "advisor@example.com", nil)
	err := n.NotifyAdvisor(context.Background(), "NL-A742", "SIP/Mandates", "slot")
	assert.ErrorContains(t, err, "advisor notification failed")
}

func TestNewSendGridSenderWithoutKeyIsNil(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{}, nil))
}

func TestStubSenderNeverFails(t *testing.T) {
	stub := NewStubEmailSender(nil)
	assert.NoError(t, stub.Send(context.Background(), EmailMessage{To: "x@example.com"}))
}
