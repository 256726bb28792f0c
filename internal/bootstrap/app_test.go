package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bazi/internal/domain/bazi"
	"github.com/yanqian/bazi/internal/infra/config"
)

type closingCalendar struct {
	closed bool
}

func (c *closingCalendar) Lookup(context.Context, time.Time) (bazi.CalendarRecord, bool, error) {
	return bazi.CalendarRecord{}, false, nil
}

func (c *closingCalendar) Close() error {
	c.closed = true
	return nil
}

func TestApp_RunShutsDownAndClosesCalendar(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}
	server := &http.Server{Addr: cfg.HTTP.Address, Handler: http.NotFoundHandler()}
	calendar := &closingCalendar{}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, calendar)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	require.True(t, calendar.closed)
}
