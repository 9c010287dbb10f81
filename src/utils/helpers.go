package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Klubit-Develop/k-microsites-sub001/src/checkout"
	"github.com/Klubit-Develop/k-microsites-sub001/src/config"
	"github.com/Klubit-Develop/k-microsites-sub001/src/db"
	"github.com/Klubit-Develop/k-microsites-sub001/src/lib"
	"github.com/Klubit-Develop/k-microsites-sub001/src/models"
	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

var (
	ErrNoEvent              = errors.New("no event bound to checkout session")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrSessionExpired       = errors.New("checkout session has expired")
	ErrSubmissionPending    = errors.New("a submission is already in progress")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrPaymentIntentPending = errors.New("payment intent request already in flight")
)

func IsProd() bool {
	return config.API_ENV == "production"
}

var checkoutStore checkout.Store

func GetCheckoutStore() checkout.Store {
	if checkoutStore != nil {
		return checkoutStore
	}
	checkoutStore = checkout.NewRedisStore(lib.GetRedisClient(), config.CHECKOUT_SESSION_TTL)
	return checkoutStore
}

// NewCheckoutStore Replace the session store with a custom implementation
func NewCheckoutStore(s checkout.Store) {
	checkoutStore = s
}

// SubmitCheckout turns the cart into a platform transaction and branches
// the session forward. Free or instantly completed transactions clear the
// cart and return a success redirect; paid ones move the session to the
// payment step. On failure the staged coupon and assignments are discarded
// and the session keeps its prior step.
func SubmitCheckout(ctx *gin.Context, store checkout.Store, sess *checkout.Session) (*types.PlatformTransaction, string, error) {
	if sess.EventID == "" {
		return nil, "", ErrNoEvent
	}
	if !sess.HasItems() {
		return nil, "", ErrEmptyCart
	}
	if sess.IsTimerExpired {
		return nil, "", ErrSessionExpired
	}

	ok, err := lib.AcquirePendingLock(ctx, sess.Key, config.CHECKOUT_PENDING_TTL)
	if err != nil {
		log.Printf("Error acquiring pending lock for %s: %s\n", sess.Key, err.Error())
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrSubmissionPending
	}
	defer lib.ReleasePendingLock(context.Background(), sess.Key)

	body := types.CreateTransactionRequestBody{
		EventID: sess.EventID,
		Items:   sess.TransactionItems(),
	}
	if sess.Coupon != nil {
		body.CouponCode = sess.Coupon.Code
	}
	token := ctx.GetString("token")
	txn, err := lib.GetPlatformClient().CreateTransaction(ctx, token, &body)
	if err != nil {
		log.Printf("SubmitCheckout failed for %s: %s\n", sess.Key, err.Error())
		sess.Coupon = nil
		sess.NominativeAssignments = nil
		if serr := store.Save(ctx, sess); serr != nil {
			log.Printf("Error saving session %s: %s\n", sess.Key, serr.Error())
		}
		return nil, "", err
	}

	MirrorTransaction(ctx, ctx.GetString("uid"), sess.EventID, txn)

	if txn.TotalPrice == 0 || txn.Status == types.TRANSACTION_COMPLETED {
		sess.ClearCart()
		if err := store.Save(ctx, sess); err != nil {
			log.Printf("Error saving session %s: %s\n", sess.Key, err.Error())
		}
		redirect := fmt.Sprintf("/checkout/success?transaction=%s", txn.ID)
		return txn, redirect, nil
	}

	sess.SetTransaction(txn.ID, txn.TotalPrice, txn.Currency)
	sess.GoToPayment()
	if err := store.Save(ctx, sess); err != nil {
		log.Printf("Error saving session %s: %s\n", sess.Key, err.Error())
	}
	return txn, "", nil
}

// MirrorTransaction keeps a best-effort local copy of the platform
// transaction; the platform stays the source of truth.
func MirrorTransaction(ctx context.Context, uid, eventID string, txn *types.PlatformTransaction) {
	d := db.GetDb()
	record := models.Transaction{
		ID:       txn.ID,
		EventID:  eventID,
		UserUID:  uid,
		Amount:   txn.TotalPrice,
		Currency: txn.Currency,
		Status:   txn.Status,
	}
	if err := d.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	}); err != nil {
		log.Printf("Error mirroring transaction %s: %s\n", txn.ID, err.Error())
	}
}

// CreatePaymentIntentGuarded opens the Stripe PaymentIntent for a
// transaction at most once. The guard is a durable tri-state row keyed by
// transaction id: a completed row replays the stored intent, a pending row
// rejects the duplicate, and only the first caller claims the transition
// not_requested -> pending.
func CreatePaymentIntentGuarded(ctx context.Context, transactionID string) (*types.PaymentIntentResponse, error) {
	d := db.GetDb()
	var stored *types.PaymentIntentResponse
	var txn models.Transaction
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Transaction{}).
			Where("id = ?", transactionID).
			First(&txn).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		var pir models.PaymentIntentRequest
		err := tx.
			Model(&models.PaymentIntentRequest{}).
			Where("transaction_id = ?", transactionID).
			First(&pir).
			Error
		if err == nil {
			switch pir.State {
			case types.PI_COMPLETED:
				if pir.ClientSecret == nil || pir.PaymentIntentID == nil {
					return errors.New("payment intent record is incomplete")
				}
				stored = &types.PaymentIntentResponse{
					ClientSecret:    *pir.ClientSecret,
					PaymentIntentID: *pir.PaymentIntentID,
					TransactionID:   transactionID,
					Amount:          pir.Amount,
					Currency:        pir.Currency,
					ExpiresAt:       pir.ExpiresAt,
				}
				return nil
			case types.PI_PENDING:
				return ErrPaymentIntentPending
			}
			// Conditional claim: two concurrent retries can both read the
			// released row, but only one update matches the state predicate.
			res := tx.
				Model(&models.PaymentIntentRequest{}).
				Where("transaction_id = ? AND state = ?", transactionID, types.PI_NOT_REQUESTED).
				Update("state", types.PI_PENDING)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrPaymentIntentPending
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		pir = models.PaymentIntentRequest{
			TransactionID: transactionID,
			State:         types.PI_PENDING,
			Amount:        txn.Amount,
			Currency:      txn.Currency,
		}
		return tx.Create(&pir).Error
	})
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	pi, err := lib.CreatePaymentIntent(ctx, transactionID, txn.Amount, txn.Currency)
	if err != nil {
		log.Printf("Error creating PaymentIntent for %s: %s\n", transactionID, err.Error())
		if derr := d.
			Model(&models.PaymentIntentRequest{}).
			Where("transaction_id = ?", transactionID).
			Update("state", types.PI_NOT_REQUESTED).
			Error; derr != nil {
			log.Printf("Error releasing payment intent claim for %s: %s\n", transactionID, derr.Error())
		}
		return nil, err
	}

	expiresAt := time.Now().Add(time.Duration(checkout.DefaultTimerDuration) * time.Second)
	if err := d.
		Model(&models.PaymentIntentRequest{}).
		Where("transaction_id = ?", transactionID).
		Updates(map[string]any{
			"state":             types.PI_COMPLETED,
			"payment_intent_id": pi.ID,
			"client_secret":     pi.ClientSecret,
			"expires_at":        expiresAt,
		}).
		Error; err != nil {
		log.Printf("Error storing payment intent for %s: %s\n", transactionID, err.Error())
	}

	return &types.PaymentIntentResponse{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		TransactionID:   transactionID,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
		ExpiresAt:       &expiresAt,
	}, nil
}

// CancelCheckoutTransaction unwinds the payment attempt: the platform
// transaction is cancelled, any open PaymentIntent is voided, and the
// session returns to the summary step with cart and timer intact.
func CancelCheckoutTransaction(ctx *gin.Context, store checkout.Store, sess *checkout.Session) error {
	transactionID := sess.TransactionID
	if transactionID == "" {
		return ErrTransactionNotFound
	}
	token := ctx.GetString("token")
	if err := lib.GetPlatformClient().CancelTransaction(ctx, token, transactionID); err != nil {
		return err
	}

	d := db.GetDb()
	var pir models.PaymentIntentRequest
	if err := d.
		Model(&models.PaymentIntentRequest{}).
		Where("transaction_id = ?", transactionID).
		First(&pir).
		Error; err == nil && pir.PaymentIntentID != nil {
		if _, err := lib.CancelPaymentIntent(ctx, *pir.PaymentIntentID); err != nil {
			log.Printf("Error cancelling PaymentIntent %s: %s\n", *pir.PaymentIntentID, err.Error())
		}
	}
	if err := d.
		Model(&models.Transaction{}).
		Where("id = ?", transactionID).
		Update("status", types.TRANSACTION_CANCELLED).
		Error; err != nil {
		log.Printf("Error updating mirrored transaction %s: %s\n", transactionID, err.Error())
	}

	sess.ClearTransaction()
	sess.GoBack()
	if err := store.Save(ctx, sess); err != nil {
		log.Printf("Error saving session %s: %s\n", sess.Key, err.Error())
	}
	return nil
}

// WatchCheckoutExpiry rearms a countdown watcher for the session; the
// watcher persists the expiry flag the moment the deadline passes.
func WatchCheckoutExpiry(store checkout.Store, key string) {
	ctx := context.Background()
	sess, err := store.Load(ctx, key)
	if err != nil {
		log.Printf("Error loading session %s: %s\n", key, err.Error())
		return
	}
	if sess.TimerStartedAt == nil || sess.IsTimerExpired {
		return
	}
	cd := checkout.NewCountdown(sess, clockwork.NewRealClock(), func() {
		ExpireCheckoutSession(store, key)
	})
	go cd.Run(ctx)
}

// ExpireCheckoutSession re-reads the session and flags it expired when its
// deadline has really passed. A timer cleared or restarted since the
// watcher armed makes this a no-op.
func ExpireCheckoutSession(store checkout.Store, key string) {
	ctx := context.Background()
	sess, err := store.Load(ctx, key)
	if err != nil {
		log.Printf("Error loading session %s: %s\n", key, err.Error())
		return
	}
	if sess.TimerStartedAt == nil || sess.IsTimerExpired {
		return
	}
	deadline := sess.TimerDeadline()
	if deadline.After(time.Now()) {
		return
	}
	sess.ExpireTimer()
	if err := store.Save(ctx, sess); err != nil {
		log.Printf("Error saving expired session %s: %s\n", key, err.Error())
		return
	}
	log.Printf("[checkout] session %s expired\n", key)
}

// SweepExpiredSessions walks every stored session and expires the stale
// ones; the periodic sweep backstops watchers lost to a restart.
func SweepExpiredSessions(store *checkout.RedisStore) {
	keys, err := store.SessionKeys(context.Background())
	if err != nil {
		log.Printf("Error scanning checkout sessions: %s\n", err.Error())
		return
	}
	for _, key := range keys {
		ExpireCheckoutSession(store, key)
	}
}
