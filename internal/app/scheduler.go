package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
)

// RunScheduler runs the automatic workflow on the configured cron schedule
// and blocks until interrupted.
func (a *App) RunScheduler() {
	spec := a.Config.Schedule.Cron
	if spec == "" {
		spec = "0 0 3 * * *" // every night at 03:00
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(spec, a.RunAutomaticWorkflow); err != nil {
		log.Fatalf("Invalid cron expression %q: %v", spec, err)
	}

	log.Printf("Scheduler started with cron expression %q. Waiting for next run...", spec)
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
}
