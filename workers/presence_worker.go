// workers/presence_worker.go
package workers

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// PresenceTimeout is how long a warrior may go without a heartbeat before
// being marked offline.
const PresenceTimeout = 5 * time.Minute

// StartPresenceSweeper runs a minutely sweep that flips is_online off for
// profiles whose last heartbeat is older than PresenceTimeout.
func StartPresenceSweeper(db *gorm.DB) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-PresenceTimeout)
			res := db.Table("profiles").
				Where("is_online = ? AND last_seen < ?", true, cutoff).
				Update("is_online", false)
			if res.Error != nil {
				log.Printf("[PRESENCE] DB error: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("[PRESENCE] 💤 marked %d warrior(s) offline", res.RowsAffected)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Println("🕑 Presence sweeper started (1m interval)")
	return sched, nil
}
