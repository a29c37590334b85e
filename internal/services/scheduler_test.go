package services

import (
	"context"
	"testing"
	"time"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeader struct {
	leader bool
}

func (f *fakeLeader) BecomeLeader(ctx context.Context, instanceID string) (bool, error) {
	return f.leader, nil
}

func (f *fakeLeader) IsLeader(ctx context.Context, instanceID string) (bool, error) {
	return f.leader, nil
}

func (f *fakeLeader) ReleaseLeadership(ctx context.Context, instanceID string) error {
	return nil
}

func newTestScheduler(t *testing.T, leader domain.LeaderElection) (*CronAuctionScheduler, *AuctionHouse) {
	t.Helper()
	house, _ := newTestHouse(t, &fakeBank{})
	return NewCronAuctionScheduler(house, leader, "test-instance", logger.NewNop()), house
}

func TestSchedulerOpensAndClosesDueLots(t *testing.T) {
	sched, house := newTestScheduler(t, nil)
	ctx := context.Background()
	require.NoError(t, house.AddLot(ctx, "S", 1, "lot", domain.MustMoney("500")))
	require.NoError(t, house.NoteInterest(ctx, "B1", 1))

	past := time.Now().Add(-time.Minute)
	require.NoError(t, sched.ScheduleOpen(ctx, 1, "A", "a@mail", past))

	sched.processPendingJobs(ctx)
	assert.Equal(t, domain.LotInAuction, lotStatus(t, house, 1))

	require.NoError(t, sched.ScheduleClose(ctx, 1, "A", past))
	sched.processPendingJobs(ctx)
	assert.Equal(t, domain.LotUnsold, lotStatus(t, house, 1))
}

func TestSchedulerSkipsFutureJobs(t *testing.T) {
	sched, house := newTestScheduler(t, nil)
	ctx := context.Background()
	require.NoError(t, house.AddLot(ctx, "S", 1, "lot", domain.MustMoney("10")))

	require.NoError(t, sched.ScheduleOpen(ctx, 1, "A", "a@mail", time.Now().Add(time.Hour)))
	sched.processPendingJobs(ctx)

	assert.Equal(t, domain.LotUnsold, lotStatus(t, house, 1))
	assert.Equal(t, domain.JobPending, sched.jobs[0].Status)
}

func TestSchedulerExecutesJobOnce(t *testing.T) {
	sched, house := newTestScheduler(t, nil)
	ctx := context.Background()
	require.NoError(t, house.AddLot(ctx, "S", 1, "lot", domain.MustMoney("10")))

	require.NoError(t, sched.ScheduleOpen(ctx, 1, "A", "a@mail", time.Now().Add(-time.Minute)))
	sched.processPendingJobs(ctx)
	require.Equal(t, domain.JobExecuted, sched.jobs[0].Status)

	// Second tick finds nothing due; the lot is not re-opened (which would
	// fail with the lot already in auction)
	sched.processPendingJobs(ctx)
	assert.Equal(t, domain.JobExecuted, sched.jobs[0].Status)
	assert.Equal(t, domain.LotInAuction, lotStatus(t, house, 1))
}

func TestSchedulerFailedJobStaysPending(t *testing.T) {
	sched, house := newTestScheduler(t, nil)
	ctx := context.Background()
	// Lot 99 does not exist, so the open fails and should be retried
	require.NoError(t, sched.ScheduleOpen(ctx, 99, "A", "a@mail", time.Now().Add(-time.Minute)))

	sched.processPendingJobs(ctx)
	assert.Equal(t, domain.JobPending, sched.jobs[0].Status)

	// Once the lot appears, the retry succeeds
	require.NoError(t, house.AddLot(ctx, "S", 99, "lot", domain.MustMoney("10")))
	sched.processPendingJobs(ctx)
	assert.Equal(t, domain.JobExecuted, sched.jobs[0].Status)
}

func TestSchedulerOnlyLeaderExecutes(t *testing.T) {
	leader := &fakeLeader{leader: false}
	sched, house := newTestScheduler(t, leader)
	ctx := context.Background()
	require.NoError(t, house.AddLot(ctx, "S", 1, "lot", domain.MustMoney("10")))
	require.NoError(t, sched.ScheduleOpen(ctx, 1, "A", "a@mail", time.Now().Add(-time.Minute)))

	sched.processPendingJobs(ctx)
	assert.Equal(t, domain.JobPending, sched.jobs[0].Status)

	leader.leader = true
	sched.processPendingJobs(ctx)
	assert.Equal(t, domain.JobExecuted, sched.jobs[0].Status)
}

func TestSchedulerCancel(t *testing.T) {
	sched, house := newTestScheduler(t, nil)
	ctx := context.Background()
	require.NoError(t, house.AddLot(ctx, "S", 1, "lot", domain.MustMoney("10")))
	require.NoError(t, sched.ScheduleOpen(ctx, 1, "A", "a@mail", time.Now().Add(-time.Minute)))

	require.NoError(t, sched.CancelSchedule(ctx, 1))
	sched.processPendingJobs(ctx)

	assert.Equal(t, domain.JobCancelled, sched.jobs[0].Status)
	assert.Equal(t, domain.LotUnsold, lotStatus(t, house, 1))
}
