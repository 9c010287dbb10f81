package checkout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestStoreLoadMissingKey(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("checkout-storage:u1").RedisNil()

	store := NewRedisStore(rdb, time.Hour)
	sess, err := store.Load(context.Background(), "u1")

	assert.Nil(t, err)
	assert.True(t, sess.Hydrated())
	assert.Equal(t, types.STEP_SELECTION, sess.Step)
	assert.Equal(t, DefaultTimerDuration, sess.TimerDuration)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestStoreRoundTrip(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, time.Hour)

	sess := NewSession("u1")
	sess.BindEvent("ev1", "Opening Night", "opening-night", nil)
	sess.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, UnitPrice: 15, Quantity: 2})
	sess.GoToSummary(time.Now().Truncate(time.Second))

	raw, err := json.Marshal(sess)
	assert.Nil(t, err)
	mock.ExpectSet("checkout-storage:u1", raw, time.Hour).SetVal("OK")
	assert.Nil(t, store.Save(context.Background(), sess))

	mock.ExpectGet("checkout-storage:u1").SetVal(string(raw))
	loaded, err := store.Load(context.Background(), "u1")
	assert.Nil(t, err)
	assert.True(t, loaded.Hydrated())
	assert.Equal(t, "u1", loaded.Key)
	assert.Equal(t, sess.Step, loaded.Step)
	assert.Equal(t, sess.EventID, loaded.EventID)
	assert.Len(t, loaded.Items, 1)
	assert.Equal(t, sess.TimerStartedAt.Unix(), loaded.TimerStartedAt.Unix())
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestStoreKeyIsTransient(t *testing.T) {
	sess := NewSession("u1")
	raw, err := json.Marshal(sess)
	assert.Nil(t, err)
	assert.NotContains(t, string(raw), "u1")
}

func TestStoreDelete(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel("checkout-storage:u1").SetVal(1)

	store := NewRedisStore(rdb, time.Hour)
	assert.Nil(t, store.Delete(context.Background(), "u1"))
	assert.Nil(t, mock.ExpectationsWereMet())
}
