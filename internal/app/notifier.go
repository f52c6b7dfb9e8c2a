package app

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"recarr/internal/domain/consts"
	"recarr/internal/models"
	rnet "recarr/internal/net"
	"recarr/internal/utils/logging"
)

const applicationJSON = "application/json"

var (
	regClient *http.Client
	lanClient *http.Client
)

func init() {
	regClient = &http.Client{Timeout: consts.DefaultHTTPTimeout}
	lanClient = &http.Client{
		Timeout: consts.DefaultHTTPTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// WebhookNotifier posts lifecycle events to the notification URLs
// configured per channel. Delivery is fire-and-forget: a failed webhook
// is logged, never surfaced into video state.
type WebhookNotifier struct{}

func NewWebhookNotifier() *WebhookNotifier { return &WebhookNotifier{} }

type notifyPayload struct {
	Event       string `json:"event"`
	Source      string `json:"source"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name,omitempty"`
	VideoID     string `json:"video_id"`
	Title       string `json:"title,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	SentAt      string `json:"sent_at"`
}

func (n *WebhookNotifier) NotifyRecordStart(c *models.Channel, v *models.Video) {
	n.fire("record_start", c, v)
}

func (n *WebhookNotifier) NotifyArchived(c *models.Channel, v *models.Video) {
	n.fire("archived", c, v)
}

func (n *WebhookNotifier) NotifySkipped(c *models.Channel, v *models.Video) {
	n.fire("skipped", c, v)
}

func (n *WebhookNotifier) NotifySourceRemoved(c *models.Channel, v *models.Video) {
	n.fire("source_removed", c, v)
}

func (n *WebhookNotifier) fire(event string, c *models.Channel, v *models.Video) {
	if c == nil || len(c.NotifyURLs) == 0 {
		logging.D(2, "No notification URLs configured, dropping %q event", event)
		return
	}

	payload := notifyPayload{
		Event:       event,
		Source:      v.Source,
		ChannelID:   c.ID,
		ChannelName: c.ChannelName,
		VideoID:     v.ID,
		Title:       v.Title,
		Thumbnail:   v.Thumbnail,
		SentAt:      time.Now().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logging.E("Failed to encode %q notification for video %q: %v", event, v.ID, err)
		return
	}

	for _, notifyURL := range c.NotifyURLs {
		if err := post(notifyURL, body); err != nil {
			logging.E("Failed to notify URL %q for channel %q: %v", notifyURL, c.ChannelName, err)
			continue
		}
		logging.S("Notified URL %q of %q for video %q", notifyURL, event, v.ID)
	}
}

// post selects the LAN client for private hosts so self-hosted
// notification targets with self-signed certificates still work.
func post(notifyURL string, body []byte) error {
	parsed, err := url.Parse(notifyURL)
	if err != nil {
		return fmt.Errorf("invalid notification URL %q: %w", notifyURL, err)
	}

	client := regClient
	if rnet.IsPrivateNetwork(parsed.Host) {
		client = lanClient
	}

	resp, err := client.Post(notifyURL, applicationJSON, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.E("Failed to close HTTP response body: %v", err)
		}
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
