package services

import (
	"time"

	"github.com/dnachavez/ecowaste-sub001/internal/config"
	"github.com/dnachavez/ecowaste-sub001/internal/database"
	"github.com/dnachavez/ecowaste-sub001/internal/leveling"
	"github.com/dnachavez/ecowaste-sub001/internal/models"
	"github.com/dnachavez/ecowaste-sub001/pkg/logger"
	"github.com/go-co-op/gocron/v2"
)

// StartScheduler runs the periodic level reconciliation sweep. The stored
// level column is only a cache of leveling.Level(xp); the sweep repairs any
// drift left by crashed writers or old admin edits.
func StartScheduler() {
	interval := 10 * time.Minute
	if config.AppConfig != nil {
		if d, err := time.ParseDuration(config.AppConfig.LevelSweepInterval); err == nil {
			interval = d
		}
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.Error().Err(err).Msg("failed to create scheduler")
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(ReconcileLevels),
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to schedule level sweep")
	}
}

// ReconcileLevels rewrites every stored level that no longer matches the one
// derived from xp. Runs in pages to keep the scan bounded.
func ReconcileLevels() {
	const pageSize = 500
	var repaired int
	var offset int

	for {
		var users []models.User
		if err := database.DB.
			Select("id", "xp", "level").
			Order("id").
			Offset(offset).
			Limit(pageSize).
			Find(&users).Error; err != nil {
			logger.Error().Err(err).Msg("level sweep query failed")
			return
		}
		if len(users) == 0 {
			break
		}

		for _, u := range users {
			derived := leveling.Level(u.XP)
			if u.Level == derived {
				continue
			}
			// Guard on the observed stale value so the sweep never
			// tramples a concurrent grant's newer write.
			res := database.DB.Model(&models.User{}).
				Where("id = ? AND level = ? AND xp = ?", u.ID, u.Level, u.XP).
				UpdateColumn("level", derived)
			if res.Error == nil && res.RowsAffected == 1 {
				repaired++
			}
		}

		if len(users) < pageSize {
			break
		}
		offset += pageSize
	}

	if repaired > 0 {
		logger.Warn().Int("repaired", repaired).Msg("level cache drift repaired")
	}
}
