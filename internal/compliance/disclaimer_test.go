package compliance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northledger/advisor-agent/pkg/logging"
)

func TestTextLevels(t *testing.T) {
	svc := NewDisclaimerService(DisclaimerConfig{Level: DisclaimerShort}, nil)
	assert.Equal(t, "Informational only. Not investment advice.", svc.Text())

	svc = NewDisclaimerService(DisclaimerConfig{Level: DisclaimerFull}, nil)
	assert.Contains(t, svc.Text(), "does not constitute investment advice")

	svc = NewDisclaimerService(DisclaimerConfig{}, nil)
	assert.Contains(t, svc.Text(), "does not constitute investment advice", "full is the default")
}

func TestCustomTextWins(t *testing.T) {
	svc := NewDisclaimerService(DisclaimerConfig{Level: DisclaimerShort, CustomText: "Custom terms apply."}, nil)
	assert.Equal(t, "Custom terms apply.", svc.Text())
}

func TestRecordDeliveredLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", &buf)
	svc := NewDisclaimerService(DisclaimerConfig{Level: DisclaimerFull}, logger)

	svc.RecordDelivered("sess-1")

	assert.True(t, strings.Contains(buf.String(), "disclaimer delivered"))
	assert.True(t, strings.Contains(buf.String(), "sess-1"))
}
