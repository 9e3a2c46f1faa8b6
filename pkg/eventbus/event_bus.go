package eventbus

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrInvalidHandler = errors.New("handler must be a func with exactly one parameter")

// Bus dispatches events to handlers by parameter type. A handler is any
// func(E); it receives every published event assignable to E.
type Bus struct {
	mu       sync.RWMutex
	log      logrus.FieldLogger
	handlers []reflect.Value
}

func New(log logrus.FieldLogger) *Bus {
	return &Bus{log: log}
}

func (b *Bus) Subscribe(handler any) error {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func || v.Type().NumIn() != 1 {
		return errors.Wrapf(ErrInvalidHandler, "%T", handler)
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, v)
	b.mu.Unlock()
	return nil
}

// Matches reports whether handler would receive event.
func Matches(handler any, event any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != 1 {
		return false
	}
	return accepts(t.In(0), event)
}

func accepts(param reflect.Type, event any) bool {
	if event == nil {
		k := param.Kind()
		return k == reflect.Interface || k == reflect.Ptr
	}
	return reflect.TypeOf(event).AssignableTo(param)
}

// Publish calls every matching handler in subscription order and returns how many ran
// to completion. A panicking handler is logged and skipped. A nil Bus drops the event.
func (b *Bus) Publish(event any) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	handlers := make([]reflect.Value, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	arg := reflect.ValueOf(event)
	handled := 0
	for _, h := range handlers {
		param := h.Type().In(0)
		if !accepts(param, event) {
			continue
		}
		in := arg
		if event == nil {
			in = reflect.Zero(param)
		}
		if b.call(h, in) {
			handled++
		}
	}
	if handled == 0 && b.log != nil {
		b.log.WithField("event", reflect.TypeOf(event)).Debug("eventbus.publish.unhandled")
	}
	return handled
}

func (b *Bus) call(h, in reflect.Value) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if b.log != nil {
				b.log.WithField("handler", h.Type().String()).Errorf("eventbus: handler panicked: %v", r)
			}
		}
	}()
	h.Call([]reflect.Value{in})
	return true
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *Bus) Clear() {
	b.mu.Lock()
	b.handlers = nil
	b.mu.Unlock()
}
