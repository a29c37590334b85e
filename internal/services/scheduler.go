package services

import (
	"context"
	"sync"
	"time"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// CronAuctionScheduler opens and closes lots at scheduled times. Jobs live in
// process memory; a cron tick drains everything that is due. When leader
// election is configured, only the elected instance executes jobs.
type CronAuctionScheduler struct {
	cron       *cron.Cron
	house      *AuctionHouse
	leader     domain.LeaderElection
	instanceID string
	log        logger.Logger
	jobsMutex  sync.Mutex
	jobs       []*domain.ScheduledJob
}

func NewCronAuctionScheduler(house *AuctionHouse, leader domain.LeaderElection,
	instanceID string, log logger.Logger) *CronAuctionScheduler {
	return &CronAuctionScheduler{
		cron:       cron.New(cron.WithSeconds()),
		house:      house,
		leader:     leader,
		instanceID: instanceID,
		log:        log,
	}
}

func (s *CronAuctionScheduler) Start(ctx context.Context) error {
	s.log.Info("Starting auction scheduler")

	_, err := s.cron.AddFunc("@every 10s", func() {
		s.processPendingJobs(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *CronAuctionScheduler) Stop() error {
	s.log.Info("Stopping auction scheduler")
	s.cron.Stop()
	return nil
}

func (s *CronAuctionScheduler) ScheduleOpen(ctx context.Context, lotNumber int,
	auctioneerName, auctioneerAddress string, openAt time.Time) error {
	s.addJob(&domain.ScheduledJob{
		ID:                uuid.NewString(),
		LotNumber:         lotNumber,
		JobType:           domain.JobOpenAuction,
		AuctioneerName:    auctioneerName,
		AuctioneerAddress: auctioneerAddress,
		RunAt:             openAt,
		Status:            domain.JobPending,
		CreatedAt:         time.Now(),
	})
	return nil
}

func (s *CronAuctionScheduler) ScheduleClose(ctx context.Context, lotNumber int,
	auctioneerName string, closeAt time.Time) error {
	s.addJob(&domain.ScheduledJob{
		ID:             uuid.NewString(),
		LotNumber:      lotNumber,
		JobType:        domain.JobCloseAuction,
		AuctioneerName: auctioneerName,
		RunAt:          closeAt,
		Status:         domain.JobPending,
		CreatedAt:      time.Now(),
	})
	return nil
}

func (s *CronAuctionScheduler) CancelSchedule(ctx context.Context, lotNumber int) error {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	for _, job := range s.jobs {
		if job.LotNumber == lotNumber && job.Status == domain.JobPending {
			job.Status = domain.JobCancelled
		}
	}
	return nil
}

func (s *CronAuctionScheduler) addJob(job *domain.ScheduledJob) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	s.jobs = append(s.jobs, job)
	s.log.Info("Job scheduled", "job_id", job.ID, "type", job.JobType,
		"lot_number", job.LotNumber, "run_at", job.RunAt)
}

func (s *CronAuctionScheduler) processPendingJobs(ctx context.Context) {
	if s.leader != nil {
		isLeader, err := s.leader.IsLeader(ctx, s.instanceID)
		if err != nil {
			s.log.Error("Failed to check leadership", "error", err)
			return
		}
		if !isLeader {
			return
		}
	}

	for _, job := range s.dueJobs(time.Now()) {
		s.log.Info("Processing job", "job_id", job.ID, "type", job.JobType, "lot_number", job.LotNumber)

		var err error
		switch job.JobType {
		case domain.JobOpenAuction:
			err = s.house.OpenAuction(ctx, job.AuctioneerName, job.AuctioneerAddress, job.LotNumber)
		case domain.JobCloseAuction:
			_, err = s.house.CloseAuction(ctx, job.AuctioneerName, job.LotNumber)
		}

		if err != nil {
			s.log.Error("Failed to execute job", "job_id", job.ID, "error", err)
			// Stays pending, will retry on the next tick
			continue
		}
		s.markExecuted(job.ID)
	}
}

func (s *CronAuctionScheduler) dueJobs(now time.Time) []*domain.ScheduledJob {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	var due []*domain.ScheduledJob
	for _, job := range s.jobs {
		if job.Status == domain.JobPending && !job.RunAt.After(now) {
			due = append(due, job)
		}
	}
	return due
}

func (s *CronAuctionScheduler) markExecuted(jobID string) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	for _, job := range s.jobs {
		if job.ID == jobID {
			job.Status = domain.JobExecuted
			return
		}
	}
}
