// Package notify computes and delivers best-effort local notifications
// for newly appended group messages. Delivery is decoupled from the
// write path: it consumes the chat service's subscription channel and
// nothing here can fail or delay an append.
package notify

import (
	"log"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/chat"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
)

const (
	// bodyLimit is the maximum payload body length before truncation.
	bodyLimit        = 50
	truncationMarker = "..."

	// GroupTitle is the payload title in group context.
	GroupTitle        = "New message in group"
	directTitlePrefix = "New message from "
)

type Payload struct {
	Title string
	Body  string
}

// Recipients is everyone in the participant set except the sender.
func Recipients(m models.GroupMessage, participants []string) []string {
	return lo.Without(lo.Uniq(participants), m.SenderID)
}

// BuildPayload renders the display payload for a message. Bodies
// longer than bodyLimit characters are cut to the first bodyLimit
// characters plus a trailing marker; shorter bodies pass verbatim.
func BuildPayload(m models.GroupMessage, isGroupContext bool) Payload {
	title := directTitlePrefix + m.SenderName
	if isGroupContext {
		title = GroupTitle
	}

	body := m.Body
	if runes := []rune(body); len(runes) > bodyLimit {
		body = string(runes[:bodyLimit]) + truncationMarker
	}
	return Payload{Title: title, Body: body}
}

// Cue is the device-level mechanism that surfaces a notification: a
// haptic pulse and an optional blocking confirmation prompt.
type Cue interface {
	Vibrate(d time.Duration)
	Alert(title, body string) error
}

// LogCue writes cues to the process log. Stands in for a real device
// cue when none is attached.
type LogCue struct{}

func (LogCue) Vibrate(d time.Duration) {
	log.Printf("notify: vibrate %v", d)
}

func (LogCue) Alert(title, body string) error {
	log.Printf("notify: alert %q %q", title, body)
	return nil
}

type Config struct {
	// Vibrate fires the haptic cue on delivery.
	Vibrate bool
	// ShowAlert additionally raises the blocking confirmation prompt.
	// Off for plain message traffic, mirroring the client behavior.
	ShowAlert bool
	// Debounce is how long a scheduled cue stays pending before it
	// surfaces. A newer notification for the same channel within this
	// window supersedes it and the stale cue is discarded.
	Debounce time.Duration
	// VibrateFor is the haptic pulse length.
	VibrateFor time.Duration
}

func DefaultConfig() Config {
	return Config{
		Vibrate:    true,
		ShowAlert:  false,
		Debounce:   250 * time.Millisecond,
		VibrateFor: 100 * time.Millisecond,
	}
}

// Dispatcher owns the pending-cue table. Each logical channel
// (recipient + group) holds at most one pending cue; dispatching a
// newer one cancels the older timer, and Close cancels everything so
// no timer outlives the component.
type Dispatcher struct {
	cue Cue
	cfg Config

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

func NewDispatcher(cue Cue, cfg Config) *Dispatcher {
	if cue == nil {
		cue = LogCue{}
	}
	return &Dispatcher{
		cue:     cue,
		cfg:     cfg,
		pending: make(map[string]*time.Timer),
	}
}

// Run consumes appended-message events until the channel closes.
// Meant to run in its own goroutine, fully off the write path.
func (d *Dispatcher) Run(events <-chan chat.MessageEvent) {
	for evt := range events {
		d.Dispatch(evt)
	}
}

// Dispatch fans one appended message out to its recipients. A failure
// for one recipient never blocks delivery to the others.
func (d *Dispatcher) Dispatch(evt chat.MessageEvent) {
	payload := BuildPayload(evt.Message, true)
	for _, recipient := range Recipients(evt.Message, evt.Participants) {
		d.Deliver(recipient, evt.Message.GroupID.String(), payload)
	}
}

// Deliver schedules the cue for one recipient. The cue surfaces after
// the debounce window unless a newer delivery on the same channel
// supersedes it first.
func (d *Dispatcher) Deliver(recipient, channel string, p Payload) {
	key := recipient + "|" + channel

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if t, ok := d.pending[key]; ok {
		t.Stop()
	}

	// The callback only acts while it still owns the map entry. A
	// superseding Deliver can race a timer that already started firing;
	// the stale callback must neither surface nor evict the new timer.
	var t *time.Timer
	t = time.AfterFunc(d.cfg.Debounce, func() {
		d.mu.Lock()
		owned := d.pending[key] == t && !d.closed
		if owned {
			delete(d.pending, key)
		}
		d.mu.Unlock()
		if !owned {
			return
		}
		d.surface(recipient, p)
	})
	d.pending[key] = t
}

func (d *Dispatcher) surface(recipient string, p Payload) {
	if d.cfg.Vibrate {
		d.cue.Vibrate(d.cfg.VibrateFor)
	}
	if d.cfg.ShowAlert {
		if err := d.cue.Alert(p.Title, p.Body); err != nil {
			// Swallowed at the dispatcher boundary; never escalated.
			log.Printf("notify: alert for %s failed: %v", recipient, err)
		}
	}
}

// Cancel discards the pending cue for one channel, if any. Only
// client-local delivery state is touched; group and message state are
// never mutated from here.
func (d *Dispatcher) Cancel(recipient, channel string) {
	key := recipient + "|" + channel

	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.pending[key]; ok {
		t.Stop()
		delete(d.pending, key)
	}
}

// Close cancels every pending cue and rejects further deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for key, t := range d.pending {
		t.Stop()
		delete(d.pending, key)
	}
}

// Pending reports how many cues are currently scheduled.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
