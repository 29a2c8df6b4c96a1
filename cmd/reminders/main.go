package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/barberian/booking-api/internal/cache"
	"github.com/barberian/booking-api/internal/config"
	dbpkg "github.com/barberian/booking-api/internal/db"
	"github.com/barberian/booking-api/internal/notification"
	"github.com/barberian/booking-api/internal/notification/transport"
	"github.com/barberian/booking-api/internal/timezone"
)

// Varredura de lembretes e de status de SMS, pensada para rodar em
// cron (a cada poucos minutos). O lock via redis garante uma única
// instância ativa por vez.
func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	rdb := cache.NewClient(cfg.RedisURL)

	locks := cache.New(rdb, 0)

	var sms transport.SMSSender = transport.NoopSMSSender{}
	if cfg.SMSWebhookURL != "" {
		sms = transport.NewWebhookSender(cfg.SMSWebhookURL, cfg.SMSWebhookToken)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().In(timezone.Location(cfg.Timezone))

	if locks.TryLock(ctx, "reminder_sweep", 5*time.Minute) {
		defer locks.Unlock(ctx, "reminder_sweep")

		job := notification.NewReminderJob(
			db, sms, cfg.BusinessName,
			time.Duration(cfg.ReminderLeadHours)*time.Hour,
			cfg.SweepBatchSize,
		)
		sent, err := job.Run(ctx, now)
		if err != nil {
			log.Printf("reminder sweep failed: %v", err)
		} else {
			log.Printf("reminder sweep: %d lembretes enviados", sent)
		}
	} else {
		log.Println("reminder sweep: lock ocupado, pulando")
	}

	if locks.TryLock(ctx, "sms_status_sweep", 5*time.Minute) {
		defer locks.Unlock(ctx, "sms_status_sweep")

		job := notification.NewSMSStatusJob(db, sms, cfg.SweepBatchSize)
		updated, err := job.Run(ctx)
		if err != nil {
			log.Printf("sms status sweep failed: %v", err)
		} else {
			log.Printf("sms status sweep: %d registros atualizados", updated)
		}
	} else {
		log.Println("sms status sweep: lock ocupado, pulando")
	}
}
