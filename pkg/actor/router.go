package actor

import (
	"fmt"
	"math/rand/v2"
)

// RouterKind 路由策略
type RouterKind int

const (
	// RoundRobinRouter 轮询
	RoundRobinRouter RouterKind = iota
	// RandomRouter 随机
	RandomRouter
	// BroadcastRouter 广播到全部 routee
	BroadcastRouter
)

// String 返回策略名称
func (k RouterKind) String() string {
	switch k {
	case RoundRobinRouter:
		return "round_robin"
	case RandomRouter:
		return "random"
	case BroadcastRouter:
		return "broadcast"
	default:
		return "unknown"
	}
}

// RouterConfig 路由配置
type RouterConfig struct {
	Kind    RouterKind
	Routees int
}

// GetRoutees 查询路由 Actor 当前的 routee，回复 *Routees
type GetRoutees struct{}

// Routees GetRoutees 的回复
type Routees struct {
	PIDs []*PID
}

// routerProps 把带路由配置的属性包装成路由 Actor 的属性
//
// routee 使用去掉路由配置的原属性，路由 Actor 的监督策略同时作用于 routee。
func routerProps(props *Props) *Props {
	routee := props.Clone()
	routee.Router = nil
	config := *props.Router

	p := props.Clone()
	p.Router = nil
	p.Producer = func() Actor {
		return &routerActor{config: config, routeeProps: routee}
	}
	return p
}

// routerActor 把消息转发给 routee，保留原发送者
type routerActor struct {
	config      RouterConfig
	routeeProps *Props
	routees     []*PID
	next        int
}

func (r *routerActor) PreStart(ctx *Context) {
	r.routees = r.routees[:0]
	for i := range r.config.Routees {
		pid := ctx.SpawnWithProps(r.routeeProps, fmt.Sprintf("%s/$%d", ctx.Self.ID, i))
		if pid == nil {
			continue
		}
		ctx.Watch(pid)
		r.routees = append(r.routees, pid)
	}
}

func (r *routerActor) Receive(ctx *Context, msg Message) {
	switch m := msg.(type) {
	case *Started, *Stopping, *Stopped, *Restarting:
		return
	case *GetRoutees:
		pids := make([]*PID, len(r.routees))
		copy(pids, r.routees)
		ctx.Reply(&Routees{PIDs: pids})
		return
	case *Terminated:
		r.remove(m.Who)
		return
	}

	if len(r.routees) == 0 {
		ctx.Unhandled(msg)
		return
	}

	switch r.config.Kind {
	case BroadcastRouter:
		for _, pid := range r.routees {
			ctx.Forward(pid)
		}
	case RandomRouter:
		ctx.Forward(r.routees[rand.IntN(len(r.routees))])
	default:
		ctx.Forward(r.routees[r.next%len(r.routees)])
		r.next++
	}
}

func (r *routerActor) remove(pid *PID) {
	for i, p := range r.routees {
		if p.ID == pid.ID {
			r.routees = append(r.routees[:i], r.routees[i+1:]...)
			return
		}
	}
}
