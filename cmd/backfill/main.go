// Backfill replays every geocodable row as a change event so running agents
// rebuild their vocabulary and pre-resolve known coordinates after a bulk
// load or a stream wipe.
package main

import (
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"usaha-chatbot/config"
	"usaha-chatbot/models"
)

type row struct {
	UsahaID   string  `gorm:"column:usaha_id"`
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`
}

func main() {
	cfg := config.LoadConfig()

	db, err := gorm.Open(postgres.Open(cfg.Postgres.ConnStr()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to postgres:", err)
	}

	nc, err := nats.Connect(cfg.Nats.ConnStr())
	if err != nil {
		log.Fatal("failed to connect to nats:", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		log.Fatal("failed to get jetstream context:", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      cfg.Nats.Stream,
		Subjects:  cfg.Nats.Subjects(),
		Storage:   nats.FileStorage,
		Retention: nats.LimitsPolicy,
		MaxAge:    time.Hour * 24 * 7,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		log.Fatal("failed to create stream:", err)
	}

	tables := []struct {
		name    string
		source  string
		subject string
	}{
		{"usaha_geotag", models.SourceGeotag, cfg.Nats.GeotagSubject},
		{"usaha_prelist", models.SourcePrelist, cfg.Nats.PrelistSubject},
	}

	totals := make(map[string]int)
	for _, t := range tables {
		var rows []row
		err := db.Table(t.name).
			Select("usaha_id, latitude, longitude").
			Where("latitude IS NOT NULL AND longitude IS NOT NULL").
			Find(&rows).Error
		if err != nil {
			log.Fatalf("failed to query %s: %v", t.name, err)
		}
		slog.Info("found geocodable rows", "table", t.name, "count", len(rows))

		for _, r := range rows {
			lat, lon := r.Latitude, r.Longitude
			event := models.ChangeEvent{
				Source:    t.source,
				Kind:      models.ChangeUpdate,
				UsahaID:   r.UsahaID,
				Latitude:  &lat,
				Longitude: &lon,
			}
			data, err := json.Marshal(event)
			if err != nil {
				slog.Error("failed to marshal event", "err", err)
				continue
			}
			if _, err := js.Publish(t.subject, data); err != nil {
				slog.Error("failed to publish event", "usaha_id", r.UsahaID, "err", err)
				continue
			}
			totals[t.name]++
		}
	}

	slog.Info("backfill complete", "usaha_geotag", totals["usaha_geotag"], "usaha_prelist", totals["usaha_prelist"])
}
