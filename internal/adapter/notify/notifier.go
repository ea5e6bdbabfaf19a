package notify

import (
	"log"
	"sync"

	"github.com/rl1809/shoe-cart/internal/port"
)

// LogNotifier writes user-facing failure messages to the process log.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(message string) {
	n.logger.Printf("cart: %s", message)
}

// Recorder keeps the most recent messages so transports can show them.
type Recorder struct {
	mu       sync.Mutex
	limit    int
	messages []string
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 1
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, message)
	if len(r.messages) > r.limit {
		r.messages = r.messages[len(r.messages)-r.limit:]
	}
}

// Messages returns the recorded messages, oldest first.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Fanout delivers each message to every notifier in order.
type Fanout []port.Notifier

func (f Fanout) Notify(message string) {
	for _, n := range f {
		n.Notify(message)
	}
}
