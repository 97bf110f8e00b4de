package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"handscout/models"
	"handscout/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type stubDomain struct {
	name   string
	report DomainReport
	runs   int32
}

func (s *stubDomain) Name() string { return s.name }

func (s *stubDomain) Run(context.Context) DomainReport {
	atomic.AddInt32(&s.runs, 1)
	r := s.report
	r.Domain = s.name
	return r
}

func (s *stubDomain) Stats(context.Context) (int, int, error) {
	return s.report.Total, s.report.Recent, nil
}

func TestRefreshService_RunCycle(t *testing.T) {
	hwDomain := &stubDomain{name: "hardware", report: DomainReport{Discovered: 5, Total: 7, Written: true}}
	paperDomain := &stubDomain{name: "papers", report: DomainReport{Discovered: 3, Total: 3, Written: true}}

	svc := NewRefreshService([]DomainRunner{hwDomain, paperDomain}, zap.NewNop())
	var seen []CycleReport
	svc.OnCycle = func(r CycleReport) { seen = append(seen, r) }

	report := svc.RunCycle(context.Background(), TriggerHTTP)

	require.NoError(t, report.Err())
	_, err := uuid.Parse(report.CycleID)
	assert.NoError(t, err)
	assert.Equal(t, TriggerHTTP, report.Trigger)
	require.Len(t, report.Domains, 2)
	assert.Equal(t, "hardware", report.Domains[0].Domain)
	assert.Equal(t, 3, report.Domains[1].Discovered)

	d, ok := report.Domain("papers")
	require.True(t, ok)
	assert.Equal(t, 3, d.Total)

	require.Len(t, seen, 1)
	assert.Equal(t, report.CycleID, seen[0].CycleID)

	next := svc.RunCycle(context.Background(), TriggerCron)
	assert.NotEqual(t, report.CycleID, next.CycleID)
}

func TestRefreshService_ErrJoinsDomainFailures(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewRefreshService([]DomainRunner{
		&stubDomain{name: "hardware", report: DomainReport{Err: boom}},
		&stubDomain{name: "papers", report: DomainReport{Written: true}},
	}, nil)

	report := svc.RunCycle(context.Background(), TriggerCLI)
	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "hardware")
	assert.NotContains(t, err.Error(), "papers")
}

func TestRefreshService_Stats(t *testing.T) {
	svc := NewRefreshService([]DomainRunner{
		&stubDomain{name: "hardware", report: DomainReport{Total: 4, Recent: 2}},
	}, nil)
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DomainStats{Total: 4, Recent24: 2}, stats["hardware"])
}

func TestRefreshService_WithRealPipelines(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStore(t.TempDir())
	hardware := newPipeline(t, store, static("model", hw("Shadow Dexterous Hand", 150000)), failing("news"))

	svc := NewRefreshService([]DomainRunner{hardware}, zap.NewNop())
	report := svc.RunCycle(ctx, TriggerStartup)
	require.NoError(t, report.Err())

	d, _ := report.Domain(models.DomainHardware)
	assert.Equal(t, 1, d.Total)
	assert.True(t, d.Written)
}

func TestScheduler_RunsAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	domain := &stubDomain{name: "hardware"}
	svc := NewRefreshService([]DomainRunner{domain}, zap.NewNop())

	s, err := NewScheduler("@every 1s", svc, zap.NewNop())
	require.NoError(t, err)
	s.Start()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&domain.runs) >= 1
	}, 5*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("not a schedule", NewRefreshService(nil, nil), nil)
	assert.Error(t, err)
}
