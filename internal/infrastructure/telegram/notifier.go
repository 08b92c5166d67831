package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
)

const defaultBaseURL = "https://api.telegram.org"

// Notifier delivers order broadcasts. SendOrder goes to the staff channel
// topic; SendAdminAlert is the fallback destination for delivery failures.
type Notifier interface {
	SendOrder(ctx context.Context, text, imageURL string) error
	SendAdminAlert(ctx context.Context, text string) error
}

// Bot sends via the Telegram Bot API over plain HTTP; the front end owns the
// richer transport, this client only covers outbound notifications.
type Bot struct {
	token        string
	baseURL      string
	orderChatID  int64
	orderTopicID int64
	adminChatID  int64
	client       *http.Client
}

func NewBot(token string, orderChatID, orderTopicID, adminChatID int64) *Bot {
	return &Bot{
		token:        token,
		baseURL:      defaultBaseURL,
		orderChatID:  orderChatID,
		orderTopicID: orderTopicID,
		adminChatID:  adminChatID,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

// SendOrder posts the order summary into the staff topic, as a photo caption
// when the product carries an http(s) image.
func (b *Bot) SendOrder(ctx context.Context, text, imageURL string) error {
	form := url.Values{
		"chat_id":           {strconv.FormatInt(b.orderChatID, 10)},
		"message_thread_id": {strconv.FormatInt(b.orderTopicID, 10)},
	}
	method := "sendMessage"
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		method = "sendPhoto"
		form.Set("photo", imageURL)
		form.Set("caption", text)
	} else {
		form.Set("text", text)
	}
	return b.call(ctx, method, form)
}

func (b *Bot) SendAdminAlert(ctx context.Context, text string) error {
	form := url.Values{
		"chat_id": {strconv.FormatInt(b.adminChatID, 10)},
		"text":    {text},
	}
	return b.call(ctx, "sendMessage", form)
}

func (b *Bot) call(ctx context.Context, method string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", b.baseURL, b.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrNotifyFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrNotifyFailed, err)
	}
	defer resp.Body.Close()

	var body struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid response: %v", pkgerrors.ErrNotifyFailed, err)
	}
	if !body.OK {
		return fmt.Errorf("%w: %s returned %d: %s", pkgerrors.ErrNotifyFailed, method, resp.StatusCode, body.Description)
	}
	return nil
}
