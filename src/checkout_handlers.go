package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Klubit-Develop/k-microsites-sub001/src/checkout"
	"github.com/Klubit-Develop/k-microsites-sub001/src/lib"
	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
	"github.com/Klubit-Develop/k-microsites-sub001/src/utils"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/jonboulle/clockwork"
)

func loadSession(ctx *gin.Context) (*checkout.Session, checkout.Store, bool) {
	key := ctx.GetString("uid")
	if key == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing session identity"})
		return nil, nil, false
	}
	store := utils.GetCheckoutStore()
	sess, err := store.Load(ctx, key)
	if err != nil {
		log.Printf("Error loading session %s: %s\n", key, err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "connection error"})
		return nil, nil, false
	}
	return sess, store, true
}

func saveSession(ctx *gin.Context, store checkout.Store, sess *checkout.Session) bool {
	if err := store.Save(ctx, sess); err != nil {
		log.Printf("Error saving session %s: %s\n", sess.Key, err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "connection error"})
		return false
	}
	return true
}

func checkoutResponse(sess *checkout.Session) types.APIResponseCheckout {
	cd := checkout.NewCountdown(sess, clockwork.NewRealClock(), nil)
	res := types.APIResponseCheckout{
		Step:       sess.Step,
		EventID:    sess.EventID,
		EventName:  sess.EventName,
		EventSlug:  sess.EventSlug,
		Items:      sess.Items,
		Coupon:     sess.Coupon,
		Subtotal:   sess.Subtotal(),
		Discount:   sess.Discount(),
		ServiceFee: sess.ServiceFee(),
		Total:      sess.Total(),
		Remaining:  cd.Remaining(),
		Expired:    sess.IsTimerExpired,
	}
	if sess.TransactionID != "" {
		res.Transaction = &types.PlatformTransaction{
			ID:         sess.TransactionID,
			TotalPrice: sess.TransactionAmount,
			Currency:   sess.TransactionCurrency,
		}
	}
	return res
}

func checkoutHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/checkout", func(ctx *gin.Context) {
			sess, _, ok := loadSession(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		POST("/checkout/bind", func(ctx *gin.Context) {
			var body types.BindEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			wiped := sess.ResetForNewEvent(body.EventID)
			eventSlug := body.EventSlug
			if eventSlug == "" {
				eventSlug = slug.Make(body.EventName)
			}
			sess.BindEvent(body.EventID, body.EventName, eventSlug, body.DisplayInfo)
			if body.Fee != nil {
				sess.Fee = &checkout.Fee{
					ID:          body.Fee.ID,
					Type:        body.Fee.Type,
					Percentage:  body.Fee.Percentage,
					FixedAmount: body.Fee.FixedAmount,
					Currency:    body.Fee.Currency,
					IsActive:    body.Fee.IsActive,
				}
			}
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess), "reset": wiped})
		}).
		POST("/checkout/items", func(ctx *gin.Context) {
			var body types.AddItemRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			sess.AddItem(checkout.Item{
				ID:           body.ID,
				PriceID:      body.PriceID,
				Type:         body.Type,
				Name:         body.Name,
				PriceName:    body.PriceName,
				UnitPrice:    body.UnitPrice,
				Quantity:     body.Quantity,
				IsNominative: body.IsNominative,
				MaxPersons:   body.MaxPersons,
			})
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		PUT("/checkout/items/:priceId", func(ctx *gin.Context) {
			var params types.ItemPriceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateItemQuantityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			sess.UpdateItemQuantity(params.PriceID, body.Quantity)
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		DELETE("/checkout/items/:priceId", func(ctx *gin.Context) {
			var params types.ItemPriceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			sess.RemoveItem(params.PriceID)
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		DELETE("/checkout", func(ctx *gin.Context) {
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			sess.ClearCart()
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/checkout/coupon", func(ctx *gin.Context) {
			var body types.ApplyCouponRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			sess.Coupon = &checkout.Coupon{
				ID:    body.ID,
				Code:  body.Code,
				Type:  body.Type,
				Value: body.Value,
			}
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		DELETE("/checkout/coupon", func(ctx *gin.Context) {
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			sess.Coupon = nil
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		PUT("/checkout/attendees", func(ctx *gin.Context) {
			var body types.AssignAttendeesRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			assignments := make([]checkout.Assignment, 0, len(body.Assignments))
			for _, a := range body.Assignments {
				assignments = append(assignments, checkout.Assignment{
					ItemIndex:    a.ItemIndex,
					Type:         a.Type,
					Phone:        a.Phone,
					PhoneCountry: a.PhoneCountry,
					Email:        a.Email,
					ToUserID:     a.ToUserID,
				})
			}
			sess.NominativeAssignments = assignments
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		POST("/checkout/summary", func(ctx *gin.Context) {
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			if !sess.HasItems() {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
				return
			}
			sess.GoToSummary(time.Now())
			if !saveSession(ctx, store, sess) {
				return
			}
			utils.WatchCheckoutExpiry(store, sess.Key)
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		POST("/checkout/back", func(ctx *gin.Context) {
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			sess.GoBack()
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		POST("/checkout/retry", func(ctx *gin.Context) {
			// Expired-attempt restart: the attempt is abandoned wholesale
			// and the visitor starts the flow over.
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			sess.ClearCart()
			if !saveSession(ctx, store, sess) {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		POST("/checkout/submit", func(ctx *gin.Context) {
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			txn, redirect, err := utils.SubmitCheckout(ctx, store, sess)
			if err != nil {
				status := http.StatusBadGateway
				msg := "connection error"
				var perr *lib.PlatformError
				switch {
				case errors.Is(err, utils.ErrNoEvent), errors.Is(err, utils.ErrEmptyCart):
					status = http.StatusBadRequest
					msg = err.Error()
				case errors.Is(err, utils.ErrSessionExpired):
					status = http.StatusForbidden
					msg = err.Error()
				case errors.Is(err, utils.ErrSubmissionPending):
					status = http.StatusConflict
					msg = err.Error()
				case errors.As(err, &perr):
					status = http.StatusBadRequest
					msg = perr.Message
				}
				ctx.JSON(status, gin.H{"error": msg})
				return
			}
			if redirect != "" {
				ctx.JSON(http.StatusOK, gin.H{"data": txn, "redirect": redirect})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		})
	return g
}
