package boot

import (
	"context"
	"log"
	"time"

	"github.com/Klubit-Develop/k-microsites-sub001/src/checkout"
	"github.com/Klubit-Develop/k-microsites-sub001/src/config"
	"github.com/Klubit-Develop/k-microsites-sub001/src/db"
	"github.com/Klubit-Develop/k-microsites-sub001/src/lib"
	"github.com/Klubit-Develop/k-microsites-sub001/src/models"
	"github.com/Klubit-Develop/k-microsites-sub001/src/utils"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Transaction{},
		&models.PaymentIntentRequest{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	_, err = lib.CreateCronJob("checkout-session-sweep", time.Minute, func() {
		store := checkout.NewRedisStore(lib.GetRedisClient(), config.CHECKOUT_SESSION_TTL)
		utils.SweepExpiredSessions(store)
	})
	if err != nil {
		log.Printf("Error scheduling session sweep: %s\n", err.Error())
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}

// RecoverSessionTimers requeues an expiry job for every stored session with
// a running timer. Watchers live in process memory and are lost on restart;
// the sessions themselves are not.
func RecoverSessionTimers() {
	ctx := context.Background()
	store := checkout.NewRedisStore(lib.GetRedisClient(), config.CHECKOUT_SESSION_TTL)
	keys, err := store.SessionKeys(ctx)
	if err != nil {
		log.Printf("Error scanning checkout sessions: %s\n", err.Error())
		return
	}
	log.Printf("Found %d checkout sessions\n", len(keys))
	for _, key := range keys {
		sess, err := store.Load(ctx, key)
		if err != nil {
			log.Printf("Error loading session %s: %s\n", key, err.Error())
			continue
		}
		deadline := sess.TimerDeadline()
		if deadline == nil || sess.IsTimerExpired {
			continue
		}
		if deadline.Before(time.Now()) {
			utils.ExpireCheckoutSession(store, key)
			continue
		}
		k := key
		if _, err := lib.CreateOneTimeJob("checkout-expire-"+k, *deadline, func() {
			utils.ExpireCheckoutSession(store, k)
		}); err != nil {
			log.Printf("Failed to queue expiry for session [%s]. Skipping: %s\n", k, err.Error())
		}
	}
}
