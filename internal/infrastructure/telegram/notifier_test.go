package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	form   url.Values
}

func testBot(t *testing.T, fail bool) (*Bot, *[]call) {
	t.Helper()
	calls := &[]call{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		*calls = append(*calls, call{method: r.URL.Path, form: r.PostForm})
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	t.Cleanup(srv.Close)

	bot := NewBot("test-token", -100123, 914, 334700077)
	bot.baseURL = srv.URL
	return bot, calls
}

func TestBot_SendOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("plain message into the staff topic", func(t *testing.T) {
		bot, calls := testBot(t, false)
		require.NoError(t, bot.SendOrder(ctx, "нове замовлення", ""))

		require.Len(t, *calls, 1)
		c := (*calls)[0]
		assert.Equal(t, "/bottest-token/sendMessage", c.method)
		assert.Equal(t, "-100123", c.form.Get("chat_id"))
		assert.Equal(t, "914", c.form.Get("message_thread_id"))
		assert.Equal(t, "нове замовлення", c.form.Get("text"))
	})

	t.Run("http image switches to a photo with caption", func(t *testing.T) {
		bot, calls := testBot(t, false)
		require.NoError(t, bot.SendOrder(ctx, "нове замовлення", "https://img/car.png"))

		c := (*calls)[0]
		assert.Equal(t, "/bottest-token/sendPhoto", c.method)
		assert.Equal(t, "https://img/car.png", c.form.Get("photo"))
		assert.Equal(t, "нове замовлення", c.form.Get("caption"))
	})

	t.Run("non-http image stays a plain message", func(t *testing.T) {
		bot, calls := testBot(t, false)
		require.NoError(t, bot.SendOrder(ctx, "text", "ftp://nope"))
		assert.Equal(t, "/bottest-token/sendMessage", (*calls)[0].method)
	})

	t.Run("api failure surfaces as notify error", func(t *testing.T) {
		bot, _ := testBot(t, true)
		err := bot.SendOrder(ctx, "text", "")
		assert.ErrorIs(t, err, pkgerrors.ErrNotifyFailed)
		assert.Contains(t, err.Error(), "chat not found")
	})
}

func TestBot_SendAdminAlert(t *testing.T) {
	bot, calls := testBot(t, false)
	require.NoError(t, bot.SendAdminAlert(context.Background(), "увага"))

	c := (*calls)[0]
	assert.Equal(t, "/bottest-token/sendMessage", c.method)
	assert.Equal(t, "334700077", c.form.Get("chat_id"))
	assert.Equal(t, "увага", c.form.Get("text"))
	assert.Empty(t, c.form.Get("message_thread_id"), "alerts go to the admin directly, not the topic")
}
