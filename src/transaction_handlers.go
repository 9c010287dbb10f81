package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/Klubit-Develop/k-microsites-sub001/src/db"
	"github.com/Klubit-Develop/k-microsites-sub001/src/models"
	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
	"github.com/Klubit-Develop/k-microsites-sub001/src/utils"
	"github.com/gin-gonic/gin"
)

func transactionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/transactions/:id/payment-intent", func(ctx *gin.Context) {
			var params types.TransactionURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, _, ok := loadSession(ctx)
			if !ok {
				return
			}
			if sess.IsTimerExpired {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "checkout session has expired"})
				return
			}
			res, err := utils.CreatePaymentIntentGuarded(ctx, params.ID)
			if err != nil {
				log.Printf("Error requesting PaymentIntent for [%s]: %s\n", params.ID, err.Error())
				switch {
				case errors.Is(err, utils.ErrTransactionNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				case errors.Is(err, utils.ErrPaymentIntentPending):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusBadGateway, gin.H{"error": "connection error"})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": res})
		}).
		POST("/transactions/:id/cancel", func(ctx *gin.Context) {
			var params types.TransactionURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, store, ok := loadSession(ctx)
			if !ok {
				return
			}
			if sess.TransactionID != params.ID {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}
			if err := utils.CancelCheckoutTransaction(ctx, store, sess); err != nil {
				log.Printf("Error cancelling transaction [%s]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "connection error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkoutResponse(sess)})
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			var params types.TransactionURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			uid := ctx.GetString("uid")
			d := db.GetDb()
			var txn models.Transaction
			if err := d.
				Model(&models.Transaction{}).
				Where("id = ? AND user_uid = ?", params.ID, uid).
				First(&txn).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		})
	return g
}
