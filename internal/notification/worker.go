package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"laundryhub-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Message is the payload delivered to the browser. Data carries what
// the client needs to route a "view" tap to the order screen.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
	Data  struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
		URL     string `json:"url"`
	} `json:"data"`
}

// WorkerPool manages a pool of workers for sending order status
// notifications. Dispatch happens after a transition commits; delivery
// is best-effort and never rolls back a state change.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case orderID := <-wp.jobs:
			wp.notifyOrder(ctx, orderID)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notification job for an order. Non-blocking: if the
// queue is full the job is dropped and logged, because a slow push
// gateway must never stall a state transition.
func (wp *WorkerPool) Dispatch(orderID string) {
	select {
	case wp.jobs <- orderID:
	default:
		log.Printf("Notification queue full, dropping job for order %s", orderID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// statusMessage maps an order state to the title and body pushed to the
// owning student.
func statusMessage(o *model.LaundryOrder) (title, body string) {
	switch o.Status {
	case model.OrderPickedUp:
		return "Laundry picked up", fmt.Sprintf("Bag %s has been collected by %s.", o.QRCode, o.OperatorName)
	case model.OrderWashing:
		return "Washing started", fmt.Sprintf("Bag %s is now in %s.", o.QRCode, o.MachineName)
	case model.OrderDrying:
		return "Drying started", fmt.Sprintf("Bag %s has moved to drying.", o.QRCode)
	case model.OrderReady:
		return "Laundry ready", fmt.Sprintf("Bag %s is ready for pickup.", o.QRCode)
	case model.OrderDelivered:
		return "Laundry delivered", fmt.Sprintf("Bag %s has been delivered. Thanks!", o.QRCode)
	default:
		return "Laundry update", fmt.Sprintf("Bag %s is now %s.", o.QRCode, o.Status)
	}
}

// notifyOrder fetches the order and its owner's subscriptions and sends
// one push per subscribed client.
func (wp *WorkerPool) notifyOrder(ctx context.Context, orderID string) {
	var order model.LaundryOrder
	if err := wp.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		log.Printf("Error fetching order %s: %v", orderID, err)
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).
		Where("user_id = ?", order.StudentID).
		Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for student %s: %v", order.StudentID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	var msg Message
	msg.Title, msg.Body = statusMessage(&order)
	msg.Tag = "order-" + order.ID
	msg.Data.OrderID = order.ID
	msg.Data.Status = string(order.Status)
	msg.Data.URL = "/orders"

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error encoding notification for order %s: %v", orderID, err)
		return
	}

	log.Printf("Sending %d notifications for order %s (%s)", len(subscriptions), order.ID, order.Status)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
