package feedback

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Message struct {
	ID        string
	Kind      Kind
	Text      string
	CreatedAt time.Time
}

// Queue holds short-lived user-facing messages describing action outcomes.
// Each message removes itself after the configured TTL.
type Queue struct {
	ttl time.Duration

	mutex    sync.Mutex
	messages []Message
	watcher  chan Message
}

func NewQueue(ttl time.Duration) *Queue {
	return &Queue{
		ttl:     ttl,
		watcher: make(chan Message, 128),
	}
}

func (q *Queue) Success(format string, a ...any) {
	q.push(KindSuccess, fmt.Sprintf(format, a...))
}

func (q *Queue) Error(format string, a ...any) {
	q.push(KindError, fmt.Sprintf(format, a...))
}

func (q *Queue) Info(format string, a ...any) {
	q.push(KindInfo, fmt.Sprintf(format, a...))
}

// Messages returns the currently visible messages, oldest first.
func (q *Queue) Messages() []Message {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return slices.Clone(q.messages)
}

// Watch delivers every new message to the UI. The channel is buffered; a
// reader that falls behind misses messages rather than blocking mutations.
func (q *Queue) Watch() <-chan Message {
	return q.watcher
}

func (q *Queue) push(kind Kind, text string) {
	message := Message{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		CreatedAt: time.Now(),
	}

	q.mutex.Lock()
	q.messages = append(q.messages, message)
	q.mutex.Unlock()

	select {
	case q.watcher <- message:
	default:
	}

	time.AfterFunc(q.ttl, func() { q.expire(message.ID) })
}

func (q *Queue) expire(id string) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	index := slices.IndexFunc(q.messages, func(m Message) bool { return m.ID == id })
	if index >= 0 {
		q.messages = append(q.messages[:index], q.messages[index+1:]...)
	}
}
