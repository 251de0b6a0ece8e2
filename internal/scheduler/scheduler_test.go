package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
)

func TestNewRegistersAllJobs(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	log, err := logger.New("error")
	require.NoError(t, err)

	s, err := New(nil, nil, loc, log)
	require.NoError(t, err, "all cron expressions must parse")

	s.Start()
	s.Stop()
}
