// Package event 提供会话内的同步事件分发
//
// 关卡生命周期通过 Dispatcher 向界面推送通知（分数、剩余弹数、剩余时间、
// 过关、失败、关卡开始等），界面只订阅、不反向修改会话状态。
// 所有分发都在游戏主循环的同一线程内同步完成。
package event

// EventType 事件类型
type EventType string

// Event 事件
type Event struct {
	Type EventType
	Data interface{} // 事件数据，类型见 types.go
}

// Listener 事件订阅者
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc 函数形式的订阅者
type ListenerFunc func(event Event)

// OnEvent 调用函数本身
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// SubscriptionID 订阅标识，用于取消订阅
type SubscriptionID int

type subscription struct {
	id       SubscriptionID
	listener Listener
}

// Dispatcher 事件分发器
type Dispatcher struct {
	listeners map[EventType][]subscription
	nextID    SubscriptionID
}

// NewDispatcher 创建分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]subscription),
	}
}

// Subscribe 订阅事件
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) SubscriptionID {
	d.nextID++
	d.listeners[eventType] = append(d.listeners[eventType], subscription{id: d.nextID, listener: listener})
	return d.nextID
}

// SubscribeFunc 以函数订阅事件
func (d *Dispatcher) SubscribeFunc(eventType EventType, fn func(Event)) SubscriptionID {
	return d.Subscribe(eventType, ListenerFunc(fn))
}

// Unsubscribe 取消订阅
func (d *Dispatcher) Unsubscribe(id SubscriptionID) {
	for eventType, subs := range d.listeners {
		for i, s := range subs {
			if s.id == id {
				d.listeners[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch 按订阅顺序同步通知所有订阅者
// 分发器为 nil 时忽略，便于在测试中省略界面
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil {
		return
	}
	subs := d.listeners[event.Type]
	for _, s := range subs {
		s.listener.OnEvent(event)
	}
}
