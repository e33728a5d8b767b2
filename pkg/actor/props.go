package actor

// Props Actor 创建描述
//
// Props 描述如何创建以及运行一个 Actor，可以多次用于 Spawn。
// 重启时通过 Producer 重新生成 Actor 实例。
type Props struct {
	// Producer 生成 Actor 实例
	Producer func() Actor
	// MailboxSize 邮箱容量，大于 0 时优先于 Mailbox
	MailboxSize int
	// Mailbox 配置中的邮箱名称，为空使用 default
	Mailbox string
	// Dispatcher 配置中的调度器名称，为空使用 default
	Dispatcher string
	// SupervisorStrategy 子 Actor 的监督策略，为空使用系统默认策略
	SupervisorStrategy SupervisorStrategy
	// Router 非空时创建路由 Actor，按此配置生成 routee
	Router *RouterConfig
	// Deploy 部署位置
	Deploy Deploy
}

// PropsFromProducer 由生成函数创建属性
func PropsFromProducer(producer func() Actor) *Props {
	return &Props{Producer: producer}
}

// PropsFromActor 由固定实例创建属性，重启时复用同一实例
func PropsFromActor(actor Actor) *Props {
	return &Props{Producer: func() Actor { return actor }}
}

// Clone 浅拷贝属性，Router 单独复制
func (p *Props) Clone() *Props {
	if p == nil {
		return &Props{}
	}
	c := *p
	if p.Router != nil {
		r := *p.Router
		c.Router = &r
	}
	return &c
}

// WithOptions 返回应用 opts 后的新属性，原属性不变
func (p *Props) WithOptions(opts ...SpawnOption) *Props {
	return ApplyOptions(p, opts)
}

// WithMailboxSize 返回设置邮箱容量后的新属性
func (p *Props) WithMailboxSize(size int) *Props {
	return ApplyOptions(p, []SpawnOption{MailboxOption{Capacity: size}})
}

// WithSupervisor 返回设置监督策略后的新属性
func (p *Props) WithSupervisor(strategy SupervisorStrategy) *Props {
	return ApplyOptions(p, []SpawnOption{SupervisorOption{Strategy: strategy}})
}

// DeployScope 部署范围
type DeployScope int

const (
	// DeployLocal 本地部署
	DeployLocal DeployScope = iota
	// DeployRemote 远程部署，只记录地址
	DeployRemote
)

// String 返回部署范围名称
func (s DeployScope) String() string {
	if s == DeployRemote {
		return "remote"
	}
	return "local"
}

// Deploy 部署描述
type Deploy struct {
	Scope   DeployScope
	Address string
}
