package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"clan-league-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FeedService pushes row-change notifications over SSE. The feed carries no
// payload a client must not miss: subscribers re-fetch on every event, and a
// dropped event is covered by the next poll or navigation.
type FeedService struct {
	DB *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{DB: db}
}

type feedPoller func(db *gorm.DB, since time.Time) (rows interface{}, count int, last time.Time, err error)

// feedPollers whitelists the observable tables. Matches are append-only so
// their cursor rides created_at; everything else rides updated_at.
var feedPollers = map[string]feedPoller{
	"clans": func(db *gorm.DB, since time.Time) (interface{}, int, time.Time, error) {
		var out []models.Clan
		err := db.Where("updated_at > ?", since).Order("updated_at ASC").Find(&out).Error
		if len(out) == 0 {
			return out, 0, since, err
		}
		return out, len(out), out[len(out)-1].UpdatedAt, err
	},
	"matches": func(db *gorm.DB, since time.Time) (interface{}, int, time.Time, error) {
		var out []models.Match
		err := db.Where("created_at > ?", since).Order("created_at ASC").Find(&out).Error
		if len(out) == 0 {
			return out, 0, since, err
		}
		return out, len(out), out[len(out)-1].CreatedAt, err
	},
	"seasons": func(db *gorm.DB, since time.Time) (interface{}, int, time.Time, error) {
		var out []models.Season
		err := db.Where("updated_at > ?", since).Order("updated_at ASC").Find(&out).Error
		if len(out) == 0 {
			return out, 0, since, err
		}
		return out, len(out), out[len(out)-1].UpdatedAt, err
	},
	"profiles": func(db *gorm.DB, since time.Time) (interface{}, int, time.Time, error) {
		var out []models.Profile
		err := db.Where("updated_at > ?", since).Order("updated_at ASC").Find(&out).Error
		if len(out) == 0 {
			return out, 0, since, err
		}
		return out, len(out), out[len(out)-1].UpdatedAt, err
	},
}

// StreamTableChanges serves `GET /feed/:table/stream` as an SSE stream of
// `changed` events for one whitelisted table.
func (s *FeedService) StreamTableChanges(c *fiber.Ctx) error {
	table := c.Params("table")
	poll, ok := feedPollers[table]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown feed table %q", table),
		})
	}

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	db := s.DB
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		cursor := time.Now()

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				rows, n, last, err := poll(db, cursor)
				if err != nil {
					log.Printf("[FEED] query error on %s: %v", table, err)
					continue
				}
				if n == 0 {
					continue
				}
				cursor = last

				payload, _ := json.Marshal(fiber.Map{"table": table, "rows": rows})
				fmt.Fprintf(w, "event: changed\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
