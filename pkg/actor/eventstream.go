package actor

import (
	"reflect"
	"sync"
)

// EventStream 按事件类型发布订阅
//
// 频道是 reflect.Type。事件的动态类型等于频道时投递；
// 频道是接口类型时，所有实现该接口的事件都会投递。
type EventStream struct {
	system *System

	mu   sync.RWMutex
	subs map[reflect.Type]map[string]*PID
}

func newEventStream(sys *System) *EventStream {
	return &EventStream{
		system: sys,
		subs:   make(map[reflect.Type]map[string]*PID),
	}
}

// Subscribe 订阅 channel 类型的事件
func (es *EventStream) Subscribe(pid *PID, channel reflect.Type) {
	es.mu.Lock()
	defer es.mu.Unlock()

	set, ok := es.subs[channel]
	if !ok {
		set = make(map[string]*PID)
		es.subs[channel] = set
	}
	set[pid.ID] = pid
}

// Unsubscribe 取消订阅 channel
func (es *EventStream) Unsubscribe(pid *PID, channel reflect.Type) {
	es.mu.Lock()
	defer es.mu.Unlock()

	if set, ok := es.subs[channel]; ok {
		delete(set, pid.ID)
		if len(set) == 0 {
			delete(es.subs, channel)
		}
	}
}

// UnsubscribeAll 取消 pid 的所有订阅
func (es *EventStream) UnsubscribeAll(pid *PID) {
	es.mu.Lock()
	defer es.mu.Unlock()

	for channel, set := range es.subs {
		delete(set, pid.ID)
		if len(set) == 0 {
			delete(es.subs, channel)
		}
	}
}

// Publish 发布事件，返回投递的订阅者数量
//
// 同一订阅者通过多个匹配频道订阅时只投递一次。
func (es *EventStream) Publish(event any) int {
	if event == nil {
		return 0
	}
	typ := reflect.TypeOf(event)

	es.mu.RLock()
	targets := make(map[string]*PID)
	for channel, set := range es.subs {
		if channel != typ && (channel.Kind() != reflect.Interface || !typ.Implements(channel)) {
			continue
		}
		for id, pid := range set {
			targets[id] = pid
		}
	}
	es.mu.RUnlock()

	for _, pid := range targets {
		es.system.Send(pid, event)
	}
	return len(targets)
}

// Subscribe 订阅类型 T 的事件
func Subscribe[T any](es *EventStream, pid *PID) {
	es.Subscribe(pid, reflect.TypeFor[T]())
}

// Unsubscribe 取消订阅类型 T 的事件
func Unsubscribe[T any](es *EventStream, pid *PID) {
	es.Unsubscribe(pid, reflect.TypeFor[T]())
}
